package client

import (
	"context"
	"net/http"

	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/model"
	"github.com/jrsteele09/arcash/session"
	"github.com/rs/zerolog/log"
)

// Login authenticates and stores the session. The refresh cookie set by the backend is
// kept in the session's cookie jar.
func (c *Client) Login(ctx context.Context, email, password string) (model.LoginResponse, error) {
	req := model.LoginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return model.LoginResponse{}, invalid(err)
	}

	var out model.LoginResponse
	if err := c.do(ctx, c.gated, http.MethodPost, "/auth/login", req, &out); err != nil {
		return model.LoginResponse{}, err
	}
	if out.Token == "" {
		return model.LoginResponse{}, apperrors.Wrapf(apperrors.ErrUnexpected, "login response has no token")
	}

	// data cached for a previous user must not leak into this session
	if _, err := c.cache.ClearPrefix(ctx, ""); err != nil {
		log.Err(err).Msg("clearing cache on login failed")
	}
	if err := c.session.Save(ctx, session.Credentials{Token: out.Token, AccountID: out.AccountID, Role: out.Role}); err != nil {
		return model.LoginResponse{}, err
	}
	log.Info().Str("accountId", out.AccountID).Str("role", out.Role).Msg("logged in")
	return out, nil
}

// Logout notifies the backend on a best-effort basis and always clears the local session.
func (c *Client) Logout(ctx context.Context) {
	c.logout(ctx)
}

// Register creates a user. The backend sends a verification token by mail.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (model.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return model.RegisterResponse{}, invalid(err)
	}
	var out model.RegisterResponse
	if err := c.do(ctx, c.gated, http.MethodPost, "/user/create", req, &out); err != nil {
		return model.RegisterResponse{}, err
	}
	return out, nil
}

func (c *Client) SendRecoverMail(ctx context.Context, email string) (model.Message, error) {
	return c.emailAction(ctx, "/auth/send-recover-mail", email)
}

func (c *Client) ResendValidation(ctx context.Context, email string) (model.Message, error) {
	return c.emailAction(ctx, "/auth/resend-validation", email)
}

func (c *Client) ResendPasswordRecovery(ctx context.Context, email string) (model.Message, error) {
	return c.emailAction(ctx, "/auth/resend-password-recovery", email)
}

// ValidateEmail confirms a registration with the token sent by mail.
func (c *Client) ValidateEmail(ctx context.Context, token string) (model.Message, error) {
	return c.tokenAction(ctx, "/auth/validate", token)
}

// ValidateRecoveryToken checks a password recovery token before a new password is chosen.
func (c *Client) ValidateRecoveryToken(ctx context.Context, token string) (model.Message, error) {
	return c.tokenAction(ctx, "/auth/validate-recovery-token", token)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) (model.Message, error) {
	req := model.ResetPasswordRequest{Token: token, Password: password}
	if err := req.Validate(); err != nil {
		return model.Message{}, invalid(err)
	}
	var out model.Message
	if err := c.do(ctx, c.gated, http.MethodPost, "/auth/reset-password", req, &out); err != nil {
		return model.Message{}, err
	}
	return out, nil
}

func (c *Client) emailAction(ctx context.Context, path, email string) (model.Message, error) {
	req := model.EmailRequest{Email: email}
	if err := req.Validate(); err != nil {
		return model.Message{}, invalid(err)
	}
	var out model.Message
	if err := c.do(ctx, c.gated, http.MethodPost, path, req, &out); err != nil {
		return model.Message{}, err
	}
	return out, nil
}

func (c *Client) tokenAction(ctx context.Context, path, token string) (model.Message, error) {
	if token == "" {
		return model.Message{}, invalid(apperrors.New("token is required"))
	}
	var out model.Message
	if err := c.do(ctx, c.gated, http.MethodPost, path, model.TokenRequest{Token: token}, &out); err != nil {
		return model.Message{}, err
	}
	return out, nil
}
