package server

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/token"
	"github.com/jrsteele09/arcash/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyClaims stores parsed token claims
	ContextKeyClaims ContextKey = "claims"
)

// ClaimsFromContext returns the claims RequireAuth stored in ctx.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*token.Claims)
	return claims, ok && claims != nil
}

// bearerToken extracts the token from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth is middleware that validates a Bearer access token.
// An expired token is answered with 498 so the client refreshes it; any other failure is 401.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing or malformed Authorization header")
				return
			}

			claims, err := s.tokens.Verify(raw)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrTokenExpired) {
					writeJSONError(w, apperrors.StatusAccessTokenExpired, "token_expired", "access token expired")
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid access token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireAdmin is middleware that validates the admin role
// Should be chained after RequireAuth to ensure claims are present
func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.Role != users.RoleAdmin {
				writeJSONError(w, http.StatusForbidden, "forbidden", "admin access required")
				return
			}
			next(w, r)
		}
	}
}

// RequireAccountOwner rejects requests whose {id} path value is not the caller's account.
// Admins may act on any account.
func (s *Server) RequireAccountOwner() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "")
				return
			}
			if id := r.PathValue("id"); id != claims.AccountID && claims.Role != users.RoleAdmin {
				writeJSONError(w, http.StatusForbidden, "forbidden", "account does not belong to the caller")
				return
			}
			next(w, r)
		}
	}
}
