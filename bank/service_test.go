package bank_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/arcash/bank"
	bankrepofake "github.com/jrsteele09/arcash/bank/repofake"
	"github.com/jrsteele09/arcash/internal/config"
	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/model"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	now     time.Time
	service *bank.Service
	ana     *bank.Account
	juan    *bank.Account
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	cfg := config.Bank{USDExchangeRate: 1000, PaisTaxRate: 0.30, GananciasTaxRate: 0.30}

	s, err := bank.NewService(bankrepofake.NewRepos(), cfg, bank.WithNowTime(func() time.Time {
		f.now = f.now.Add(time.Second)
		return f.now
	}))
	require.NoError(t, err)
	f.service = s

	f.ana, err = s.OpenAccount("user-ana", "Ana Perez")
	require.NoError(t, err)
	f.juan, err = s.OpenAccount("user-juan", "Juan")
	require.NoError(t, err)
	return f
}

func TestNewService_RequiresRepos(t *testing.T) {
	_, err := bank.NewService(bank.Repos{}, config.Bank{})
	require.Error(t, err)
}

func TestService_OpenAccount(t *testing.T) {
	f := setupTestFixture(t)

	require.Len(t, f.ana.CVU, 22)
	require.Regexp(t, `^ana\.\d{4}\.ars$`, f.ana.Alias)
	require.NoError(t, model.AliasRequest{Alias: f.ana.Alias}.Validate())
	require.Equal(t, bank.CurrencyARS, f.ana.Currency)
	require.Zero(t, f.ana.Balance)

	again, err := f.service.OpenAccount("user-ana", "Ana Perez")
	require.NoError(t, err)
	require.Equal(t, f.ana.ID, again.ID)
}

func TestService_DepositAndTransfer(t *testing.T) {
	f := setupTestFixture(t)

	acc, err := f.service.Deposit(f.ana.ID, 1000.50)
	require.NoError(t, err)
	require.Equal(t, 1000.50, acc.Balance)

	_, err = f.service.Deposit(f.ana.ID, -1)
	require.ErrorIs(t, err, apperrors.ErrBadRequest)

	tx, err := f.service.Transfer(f.ana.ID, f.juan.ID, model.TransferRequest{Amount: 400.25, Description: "rent"})
	require.NoError(t, err)
	require.Equal(t, model.TransactionTransfer, tx.Type)

	ana, err := f.service.Account(f.ana.ID)
	require.NoError(t, err)
	require.Equal(t, 600.25, ana.Balance)
	juan, err := f.service.Account(f.juan.ID)
	require.NoError(t, err)
	require.Equal(t, 400.25, juan.Balance)

	t.Run("history newest first", func(t *testing.T) {
		txs, err := f.service.Transactions(f.ana.ID)
		require.NoError(t, err)
		require.Len(t, txs, 2)
		require.Equal(t, model.TransactionTransfer, txs[0].Type)
		require.Equal(t, model.TransactionDeposit, txs[1].Type)

		txs, err = f.service.Transactions(f.juan.ID)
		require.NoError(t, err)
		require.Len(t, txs, 1)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		_, err := f.service.Transfer(f.ana.ID, f.juan.ID, model.TransferRequest{Amount: 10000})
		require.ErrorIs(t, err, bank.ErrInsufficientFunds)
		require.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("same account", func(t *testing.T) {
		_, err := f.service.Transfer(f.ana.ID, f.ana.ID, model.TransferRequest{Amount: 1})
		require.ErrorIs(t, err, bank.ErrSameAccountTransfer)
	})

	t.Run("unknown destination", func(t *testing.T) {
		_, err := f.service.Transfer(f.ana.ID, "nope", model.TransferRequest{Amount: 1})
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestService_SetAliasAndSearch(t *testing.T) {
	f := setupTestFixture(t)

	acc, err := f.service.SetAlias(f.ana.ID, "ana.perez")
	require.NoError(t, err)
	require.Equal(t, "ana.perez", acc.Alias)

	_, err = f.service.SetAlias(f.juan.ID, "ANA.PEREZ")
	require.ErrorIs(t, err, bank.ErrAliasTaken)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.service.SetAlias(f.juan.ID, "x!")
	require.ErrorIs(t, err, apperrors.ErrBadRequest)

	found, err := f.service.SearchRecipients("perez", f.juan.ID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, f.ana.ID, found[0].ID)

	found, err = f.service.SearchRecipients(f.juan.CVU[:8], f.ana.ID)
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = f.service.SearchRecipients("perez", f.ana.ID)
	require.NoError(t, err)
	require.Empty(t, found)

	_, err = f.service.SearchRecipients("  ", "")
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestService_Favorites(t *testing.T) {
	f := setupTestFixture(t)

	fav, err := f.service.CreateFavorite("user-ana", model.FavoriteRequest{Alias: f.juan.Alias})
	require.NoError(t, err)
	require.Equal(t, "Juan", fav.Name)
	require.Equal(t, f.juan.ID, fav.AccountID)

	_, err = f.service.CreateFavorite("user-ana", model.FavoriteRequest{Alias: f.juan.Alias, Name: "Juancito"})
	require.ErrorIs(t, err, bank.ErrFavoriteExists)

	_, err = f.service.CreateFavorite("user-ana", model.FavoriteRequest{Alias: "missing.alias"})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	updated, err := f.service.UpdateFavorite("user-ana", fav.ID, model.FavoriteRequest{Alias: f.juan.Alias, Name: "Juancito"})
	require.NoError(t, err)
	require.Equal(t, "Juancito", updated.Name)

	_, err = f.service.Favorite("user-juan", fav.ID)
	require.ErrorIs(t, err, bank.ErrFavoriteNotFound)

	favs, err := f.service.Favorites("user-ana")
	require.NoError(t, err)
	require.Len(t, favs, 1)

	require.NoError(t, f.service.DeleteFavorite("user-ana", fav.ID))
	require.ErrorIs(t, f.service.DeleteFavorite("user-ana", fav.ID), apperrors.ErrNotFound)
}

func TestService_Taxes(t *testing.T) {
	f := setupTestFixture(t)

	ars, err := f.service.CalculateARS(1000)
	require.NoError(t, err)
	require.Equal(t, model.TaxBreakdown{
		Currency: "ARS", Amount: 1000, ExchangeRate: 1, BaseARS: 1000,
		PaisTax: 300, GananciasTax: 300, Total: 1600,
	}, ars)

	usd, err := f.service.CalculateUSD(10)
	require.NoError(t, err)
	require.Equal(t, 10000.0, usd.BaseARS)
	require.Equal(t, 16000.0, usd.Total)

	_, err = f.service.CalculateUSD(0)
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
}
