package client

import (
	"context"
	"net/http"
	"net/url"

	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/model"
)

func (c *Client) AdminUsers(ctx context.Context) ([]model.User, error) {
	if err := c.requireAdmin(ctx); err != nil {
		return nil, err
	}
	var users []model.User
	if err := c.do(ctx, c.gated, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) AdminUser(ctx context.Context, id string) (model.User, error) {
	if err := c.requireAdmin(ctx); err != nil {
		return model.User{}, err
	}
	var u model.User
	if err := c.do(ctx, c.gated, http.MethodGet, "/admin/users/"+url.PathEscape(id), nil, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (c *Client) AdminUpdateUser(ctx context.Context, id string, update model.AdminUserUpdate) (model.User, error) {
	if err := c.requireAdmin(ctx); err != nil {
		return model.User{}, err
	}
	if update.Role != nil && *update.Role != model.RoleUser && *update.Role != model.RoleAdmin {
		return model.User{}, invalid(apperrors.New("role must be USER or ADMIN"))
	}
	var u model.User
	if err := c.do(ctx, c.gated, http.MethodPut, "/admin/users/"+url.PathEscape(id), update, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// requireAdmin is the client-side guard of the admin screens. The backend enforces the role too.
func (c *Client) requireAdmin(ctx context.Context) error {
	if !c.session.IsLoggedIn(ctx) {
		return apperrors.ErrNotLoggedIn
	}
	if !c.session.IsAdmin(ctx) {
		return apperrors.ErrForbiddenRole
	}
	return nil
}
