package refresh

import (
	"time"

	apperrors "github.com/jrsteele09/arcash/internal/errors"
)

// StoredRefreshToken represents the server-side storage of refresh token metadata.
// The client only receives the Token field, in an HttpOnly cookie.
type StoredRefreshToken struct {
	Token  string    // The actual random token string (sent to client)
	UserID string    // Server-side metadata
	Iat    time.Time // Server-side metadata (issued at time)
}

// ErrNotFound is returned by repos for unknown tokens.
var ErrNotFound = apperrors.Wrapf(apperrors.ErrInvalidRefreshToken, "not found")

// Repo manages server-side storage of refresh token metadata, keyed by the token string.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	GetByUserID(userID string) (*StoredRefreshToken, error)
}
