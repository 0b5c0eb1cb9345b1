package bank

import apperrors "github.com/jrsteele09/arcash/internal/errors"

var (
	ErrAccountNotFound     = apperrors.Wrapf(apperrors.ErrNotFound, "account")
	ErrFavoriteNotFound    = apperrors.Wrapf(apperrors.ErrNotFound, "favorite")
	ErrAliasTaken          = apperrors.Wrapf(apperrors.ErrConflict, "alias already in use")
	ErrFavoriteExists      = apperrors.Wrapf(apperrors.ErrConflict, "favorite already exists")
	ErrInsufficientFunds   = apperrors.Wrapf(apperrors.ErrBadRequest, "insufficient funds")
	ErrSameAccountTransfer = apperrors.Wrapf(apperrors.ErrBadRequest, "cannot transfer to the same account")
)

type AccountRepo interface {
	Upsert(account *Account) error
	Get(id string) (*Account, error)
	GetByUserID(userID string) (*Account, error)
	GetByAlias(alias string) (*Account, error)
	List() ([]*Account, error)
}

type TransactionRepo interface {
	Add(tx *Transaction) error
	ListForAccount(accountID string) ([]*Transaction, error)
}

type FavoriteRepo interface {
	Upsert(favorite *Favorite) error
	Get(id string) (*Favorite, error)
	ListForUser(userID string) ([]*Favorite, error)
	Delete(id string) error
}

// Repos holds all repository dependencies for the Service
type Repos struct {
	Accounts     AccountRepo
	Transactions TransactionRepo
	Favorites    FavoriteRepo
}
