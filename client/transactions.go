package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/arcash/cache"
	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/model"
	"github.com/jrsteele09/arcash/paginate"
	"github.com/rs/zerolog/log"
)

const transactionsCachePrefix = "transactions_"

// Transactions returns the account's history, from the cache unless force is set.
func (c *Client) Transactions(ctx context.Context, force bool) ([]model.Transaction, error) {
	id, err := c.accountID(ctx)
	if err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, c.cache, transactionsCachePrefix+id, c.cacheTTL, force, func(ctx context.Context) ([]model.Transaction, error) {
		var txs []model.Transaction
		if err := c.do(ctx, c.gated, http.MethodGet, "/transactions/"+url.PathEscape(id)+"/getTransactions", nil, &txs); err != nil {
			return nil, err
		}
		return txs, nil
	})
}

// TransactionPages wraps Transactions in a paginator using the configured page size.
func (c *Client) TransactionPages(ctx context.Context, force bool) (*paginate.Paginator[model.Transaction], error) {
	txs, err := c.Transactions(ctx, force)
	if err != nil {
		return nil, err
	}
	return paginate.New(txs, c.pageSize), nil
}

// SearchRecipients finds transfer destinations by alias or CVU.
func (c *Client) SearchRecipients(ctx context.Context, query string) ([]model.Recipient, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid(apperrors.New("search query is required"))
	}
	var out []model.Recipient
	if err := c.do(ctx, c.gated, http.MethodGet, "/transactions/search/"+url.PathEscape(query), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Transfer moves money to destAccountID and drops the cached history.
func (c *Client) Transfer(ctx context.Context, destAccountID string, req model.TransferRequest) (model.Transaction, error) {
	if err := req.Validate(); err != nil {
		return model.Transaction{}, invalid(err)
	}
	if destAccountID == "" {
		return model.Transaction{}, invalid(apperrors.New("destination account is required"))
	}
	id, err := c.accountID(ctx)
	if err != nil {
		return model.Transaction{}, err
	}
	if id == destAccountID {
		return model.Transaction{}, invalid(apperrors.New("cannot transfer to the same account"))
	}

	var tx model.Transaction
	path := "/transactions/" + url.PathEscape(id) + "/transfer/" + url.PathEscape(destAccountID)
	if err := c.do(ctx, c.gated, http.MethodPost, path, req, &tx); err != nil {
		return model.Transaction{}, err
	}
	c.invalidateTransactions(ctx, id)
	return tx, nil
}

func (c *Client) invalidateTransactions(ctx context.Context, accountID string) {
	if err := c.cache.Invalidate(ctx, transactionsCachePrefix+accountID); err != nil {
		log.Err(err).Msg("invalidating transactions cache failed")
	}
}
