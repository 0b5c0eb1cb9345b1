package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Claims are the fields the client reads from a bearer token without verifying it.
type Claims struct {
	Subject   string
	AccountID string
	Role      string
	ExpiresAt *jwt.NumericDate
}

// ParseClaims decodes the token payload. The signature is not checked; the backend
// remains the authority on validity.
func ParseClaims(raw string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Claims{}, fmt.Errorf("parse token claims: %w", err)
	}
	c := Claims{}
	c.Subject, _ = claims.GetSubject()
	c.ExpiresAt, _ = claims.GetExpirationTime()
	if v, ok := claims["account"].(string); ok {
		c.AccountID = v
	}
	if v, ok := claims["role"].(string); ok {
		c.Role = v
	}
	return c, nil
}

// NewToken wraps a raw bearer string. Expiry is filled from the exp claim when the
// token is a readable JWT.
func NewToken(raw string) *oauth2.Token {
	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if c, err := ParseClaims(raw); err == nil && c.ExpiresAt != nil {
		tok.Expiry = c.ExpiresAt.Time
	}
	return tok
}
