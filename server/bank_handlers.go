package server

import (
	"net/http"

	"github.com/jrsteele09/arcash/bank"
	"github.com/jrsteele09/arcash/model"
	"github.com/jrsteele09/arcash/users"
)

func (s *Server) BalanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := s.bank.Account(r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, account.ToModel())
	}
}

func (s *Server) DepositHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.BalanceRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		account, err := s.bank.Deposit(r.PathValue("id"), req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, account.ToModel())
	}
}

func (s *Server) AliasHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.AliasRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		account, err := s.bank.SetAlias(r.PathValue("id"), req.Alias)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, account.ToModel())
	}
}

// TransactionsGetHandler serves both the history of an account and the recipient search.
func (s *Server) TransactionsGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "")
			return
		}
		id, action := r.PathValue("id"), r.PathValue("action")

		if id == TransactionsSearchSegment {
			found, err := s.bank.SearchRecipients(action, claims.AccountID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, mapSlice(found, (*bank.Account).ToRecipient))
			return
		}

		if action != TransactionsListAction {
			writeJSONError(w, http.StatusNotFound, "not_found", "")
			return
		}
		if id != claims.AccountID && claims.Role != users.RoleAdmin {
			writeJSONError(w, http.StatusForbidden, "forbidden", "account does not belong to the caller")
			return
		}
		txs, err := s.bank.Transactions(id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, mapSlice(txs, (*bank.Transaction).ToModel))
	}
}

func (s *Server) TransferHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.TransferRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		destID, err := mustPathValue(r, "destId")
		if err != nil {
			writeError(w, r, err)
			return
		}
		tx, err := s.bank.Transfer(r.PathValue("id"), destID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tx.ToModel())
	}
}

func (s *Server) FavoritesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := s.claims(w, r)
		if !ok {
			return
		}
		favs, err := s.bank.Favorites(userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, mapSlice(favs, (*bank.Favorite).ToModel))
	}
}

func (s *Server) FavoriteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := s.claims(w, r)
		if !ok {
			return
		}
		fav, err := s.bank.Favorite(userID, r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, fav.ToModel())
	}
}

func (s *Server) CreateFavoriteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := s.claims(w, r)
		if !ok {
			return
		}
		var req model.FavoriteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		fav, err := s.bank.CreateFavorite(userID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, fav.ToModel())
	}
}

func (s *Server) UpdateFavoriteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := s.claims(w, r)
		if !ok {
			return
		}
		var req model.FavoriteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		fav, err := s.bank.UpdateFavorite(userID, r.PathValue("id"), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, fav.ToModel())
	}
}

func (s *Server) DeleteFavoriteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := s.claims(w, r)
		if !ok {
			return
		}
		if err := s.bank.DeleteFavorite(userID, r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) CalculateARSHandler() http.HandlerFunc {
	return s.taxHandler(s.bank.CalculateARS)
}

func (s *Server) CalculateUSDHandler() http.HandlerFunc {
	return s.taxHandler(s.bank.CalculateUSD)
}

func (s *Server) taxHandler(calculate func(amount float64) (model.TaxBreakdown, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.TaxRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		breakdown, err := calculate(req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, breakdown)
	}
}
