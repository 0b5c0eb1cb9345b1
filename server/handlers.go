package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/model"
	"github.com/rs/zerolog/log"
)

const maxRequestBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("writing response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, model.Message{Message: message})
}

// writeError answers with the status matching err's sentinel. Unknown errors are logged and
// reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeJSONError(w, status, code, "")
		return
	}
	writeJSONError(w, status, code, err.Error())
}

func statusFor(err error) (int, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrTokenExpired):
		return apperrors.StatusAccessTokenExpired, "token_expired"
	case apperrors.Is(err, apperrors.ErrBadRequest), apperrors.Is(err, apperrors.ErrInvalidRequest):
		return http.StatusBadRequest, "bad_request"
	case apperrors.Is(err, apperrors.ErrUnauthorized),
		apperrors.Is(err, apperrors.ErrInvalidToken),
		apperrors.Is(err, apperrors.ErrTokenRevoked),
		apperrors.Is(err, apperrors.ErrInvalidRefreshToken),
		apperrors.Is(err, apperrors.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, "unauthorized"
	case apperrors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "conflict"
	case apperrors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// validator is implemented by the request payloads in model.
type validator interface {
	Validate() error
}

// decodeJSON reads the request body into v and validates it when v supports it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrapf(apperrors.ErrBadRequest, "invalid JSON body: %s", err.Error())
	}
	if val, ok := v.(validator); ok {
		if err := val.Validate(); err != nil {
			return apperrors.Wrapf(apperrors.ErrBadRequest, "%s", err.Error())
		}
	}
	return nil
}

// claims returns the caller's claims or writes 401.
func (s *Server) claims(w http.ResponseWriter, r *http.Request) (userID, accountID string, ok bool) {
	c, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "")
		return "", "", false
	}
	return c.UserID, c.AccountID, true
}

func mapSlice[T any, M any](in []T, fn func(T) M) []M {
	out := make([]M, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

func mustPathValue(r *http.Request, name string) (string, error) {
	v := r.PathValue(name)
	if v == "" {
		return "", apperrors.Wrapf(apperrors.ErrBadRequest, "missing %s", name)
	}
	return v, nil
}
