package server

import (
	"net/http"

	"github.com/jrsteele09/arcash/model"
)

// RegisterHandler creates an unverified user and its account.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.RegisterRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		user, err := s.auth.Register(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, model.RegisterResponse{ID: user.ID})
	}
}

func (s *Server) UserDataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := s.claims(w, r)
		if !ok {
			return
		}
		user, err := s.auth.User(userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user.ToModel())
	}
}

// UpdateUserDataHandler changes the caller's profile. A wrong current password is a 401
// which the client must not treat as the end of the session.
func (s *Server) UpdateUserDataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := s.claims(w, r)
		if !ok {
			return
		}
		var req model.UpdateUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		user, err := s.auth.UpdateProfile(userID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user.ToModel())
	}
}
