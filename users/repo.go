package users

import apperrors "github.com/jrsteele09/arcash/internal/errors"

// ErrNotFound is returned by repos when no user matches.
var ErrNotFound = apperrors.Wrapf(apperrors.ErrNotFound, "user")

type UserRepo interface {
	Upsert(user *User) error
	Delete(email string) error
	GetByEmail(email string) (*User, error)
	GetByID(ID string) (*User, error)
	List(offset, limit int) ([]*User, error)
	SetBlocked(email string, blocked bool) error
	SetVerified(email string, verified bool) error
}
