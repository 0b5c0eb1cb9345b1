// Package bank holds the accounts, transfers, favorites and tax rules of the reference backend.
package bank

import (
	"time"

	"github.com/jrsteele09/arcash/model"
)

const CurrencyARS = "ARS"

type Account struct {
	ID        string
	UserID    string
	OwnerName string
	Alias     string
	CVU       string
	Balance   float64
	Currency  string
	CreatedAt time.Time
}

func (a *Account) ToModel() model.Account {
	return model.Account{
		AccountID: a.ID,
		Alias:     a.Alias,
		CVU:       a.CVU,
		Balance:   a.Balance,
		Currency:  a.Currency,
	}
}

func (a *Account) ToRecipient() model.Recipient {
	return model.Recipient{
		AccountID: a.ID,
		Alias:     a.Alias,
		CVU:       a.CVU,
		OwnerName: a.OwnerName,
	}
}

type Transaction struct {
	ID            string
	FromAccountID string // empty for deposits
	ToAccountID   string
	Amount        float64
	Description   string
	Type          model.TransactionType
	CreatedAt     time.Time
}

func (t *Transaction) ToModel() model.Transaction {
	return model.Transaction{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		Description:   t.Description,
		Type:          t.Type,
		CreatedAt:     t.CreatedAt,
	}
}

// Favorite is a saved transfer destination owned by a user.
type Favorite struct {
	ID        string
	UserID    string
	Alias     string
	Name      string
	AccountID string
	CreatedAt time.Time
}

func (f *Favorite) ToModel() model.Favorite {
	return model.Favorite{
		ID:        f.ID,
		Alias:     f.Alias,
		Name:      f.Name,
		AccountID: f.AccountID,
		CreatedAt: f.CreatedAt,
	}
}
