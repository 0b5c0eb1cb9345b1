package client

import (
	"context"
	"net/http"

	"github.com/jrsteele09/arcash/model"
)

// CalculateARS returns the tax breakdown of a purchase priced in pesos.
func (c *Client) CalculateARS(ctx context.Context, amount float64) (model.TaxBreakdown, error) {
	return c.calculate(ctx, "/impuestos/calculateARS", amount)
}

// CalculateUSD returns the tax breakdown of a purchase priced in dollars.
func (c *Client) CalculateUSD(ctx context.Context, amount float64) (model.TaxBreakdown, error) {
	return c.calculate(ctx, "/impuestos/calculateUSD", amount)
}

func (c *Client) calculate(ctx context.Context, path string, amount float64) (model.TaxBreakdown, error) {
	req := model.TaxRequest{Amount: amount}
	if err := req.Validate(); err != nil {
		return model.TaxBreakdown{}, invalid(err)
	}
	var out model.TaxBreakdown
	if err := c.do(ctx, c.gated, http.MethodPost, path, req, &out); err != nil {
		return model.TaxBreakdown{}, err
	}
	return out, nil
}
