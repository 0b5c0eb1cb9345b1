package client

import (
	"context"
	"net/http"

	"github.com/jrsteele09/arcash/model"
	"github.com/rs/zerolog/log"
)

// UserData fetches the logged-in user's profile and caches it in the session.
func (c *Client) UserData(ctx context.Context) (model.User, error) {
	var u model.User
	if err := c.do(ctx, c.gated, http.MethodGet, "/user/data", nil, &u); err != nil {
		return model.User{}, err
	}
	if err := c.session.SaveProfile(ctx, u); err != nil {
		log.Err(err).Msg("caching profile failed")
	}
	return u, nil
}

// UpdateUserData changes the profile. A wrong current password is reported as an
// unauthorized APIError and does not end the session.
func (c *Client) UpdateUserData(ctx context.Context, req model.UpdateUserRequest) (model.User, error) {
	if err := req.Validate(); err != nil {
		return model.User{}, invalid(err)
	}
	var u model.User
	if err := c.do(ctx, c.gated, http.MethodPut, "/user/data", req, &u); err != nil {
		return model.User{}, err
	}
	if err := c.session.SaveProfile(ctx, u); err != nil {
		log.Err(err).Msg("caching profile failed")
	}
	return u, nil
}
