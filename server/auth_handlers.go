package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/arcash/model"
	"github.com/rs/zerolog/log"
)

func (s *Server) setRefreshCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     "/auth",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secureCk,
		SameSite: http.SameSiteStrictMode,
	})
}

// LoginHandler checks the credentials, sets the refresh cookie and returns the access token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		result, err := s.auth.Login(req.Email, req.Password)
		if err != nil {
			log.Info().Str("email", req.Email).Err(err).Msg("login refused")
			writeError(w, r, err)
			return
		}

		s.setRefreshCookie(w, result.RefreshToken, int(s.config.GetRefreshTokenExpiry().Seconds()))
		writeJSON(w, http.StatusOK, model.LoginResponse{
			Token:     result.AccessToken,
			AccountID: result.User.AccountID,
			Role:      string(result.User.Role),
		})
	}
}

// RefreshHandler exchanges the refresh cookie for a new access token.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(RefreshCookieName)
		if err != nil || cookie.Value == "" {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing refresh token")
			return
		}

		accessToken, err := s.auth.Refresh(cookie.Value)
		if err != nil {
			s.setRefreshCookie(w, "", -1)
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, model.RefreshResponse{Token: accessToken})
	}
}

// LogoutHandler revokes whatever credentials the request carries. It always succeeds.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessToken, _ := bearerToken(r)
		refreshToken := ""
		if cookie, err := r.Cookie(RefreshCookieName); err == nil {
			refreshToken = cookie.Value
		}

		s.auth.Logout(accessToken, refreshToken)
		s.setRefreshCookie(w, "", -1)
		writeMessage(w, "logged out")
	}
}

func (s *Server) ValidateEmailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.TokenRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.auth.ValidateEmail(req.Token); err != nil {
			writeError(w, r, err)
			return
		}
		writeMessage(w, "email validated")
	}
}

func (s *Server) ResendValidationHandler() http.HandlerFunc {
	return s.emailActionHandler(s.auth.ResendValidation, "if the address is registered a validation email was sent")
}

func (s *Server) SendRecoverMailHandler() http.HandlerFunc {
	return s.emailActionHandler(s.auth.SendRecoverMail, "if the address is registered a recovery email was sent")
}

func (s *Server) ResendPasswordRecoveryHandler() http.HandlerFunc {
	return s.emailActionHandler(s.auth.ResendPasswordRecovery, "if the address is registered a recovery email was sent")
}

func (s *Server) ValidateRecoveryTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.TokenRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.auth.ValidateRecoveryToken(req.Token); err != nil {
			writeError(w, r, err)
			return
		}
		writeMessage(w, "recovery token is valid")
	}
}

func (s *Server) ResetPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.ResetPasswordRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.auth.ResetPassword(req.Token, req.Password); err != nil {
			writeError(w, r, err)
			return
		}
		writeMessage(w, "password updated")
	}
}

// emailActionHandler serves the endpoints that take an email and send a mail to it.
func (s *Server) emailActionHandler(action func(ctx context.Context, email string) error, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.EmailRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := action(r.Context(), req.Email); err != nil {
			writeError(w, r, err)
			return
		}
		writeMessage(w, message)
	}
}
