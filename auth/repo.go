package auth

import "time"

// ActionPurpose says what an emailed token authorizes.
type ActionPurpose string

const (
	PurposeVerifyEmail     ActionPurpose = "verify_email"
	PurposeRecoverPassword ActionPurpose = "recover_password"
)

// ActionToken is a single-use token sent by mail.
type ActionToken struct {
	Token     string
	Email     string
	Purpose   ActionPurpose
	IssuedAt  time.Time
	ExpiresAt time.Time // zero means no expiry
}

type ActionTokenRepo interface {
	Upsert(token *ActionToken) error
	Delete(token string) error
	Get(token string) (*ActionToken, error)
	// Latest returns the most recently issued token for email and purpose.
	Latest(email string, purpose ActionPurpose) (*ActionToken, error)
}
