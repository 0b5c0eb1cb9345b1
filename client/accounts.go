package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/arcash/model"
)

func (c *Client) Balance(ctx context.Context) (model.Account, error) {
	return c.account(ctx, http.MethodGet, "/showBalance", nil)
}

// Deposit adds amount to the logged-in user's account.
func (c *Client) Deposit(ctx context.Context, amount float64) (model.Account, error) {
	req := model.BalanceRequest{Amount: amount}
	if err := req.Validate(); err != nil {
		return model.Account{}, invalid(err)
	}
	acc, err := c.account(ctx, http.MethodPut, "/balance", req)
	if err != nil {
		return model.Account{}, err
	}
	c.invalidateTransactions(ctx, acc.AccountID)
	return acc, nil
}

func (c *Client) UpdateAlias(ctx context.Context, alias string) (model.Account, error) {
	req := model.AliasRequest{Alias: alias}
	if err := req.Validate(); err != nil {
		return model.Account{}, invalid(err)
	}
	return c.account(ctx, http.MethodPut, "/alias", req)
}

func (c *Client) account(ctx context.Context, method, suffix string, in any) (model.Account, error) {
	id, err := c.accountID(ctx)
	if err != nil {
		return model.Account{}, err
	}
	var acc model.Account
	if err := c.do(ctx, c.gated, method, "/accounts/"+url.PathEscape(id)+suffix, in, &acc); err != nil {
		return model.Account{}, err
	}
	return acc, nil
}
