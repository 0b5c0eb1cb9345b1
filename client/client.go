// Package client is the ArCash REST client. Requests go through an authgate.Gate so an
// expired access token is refreshed once and the request replayed transparently.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/arcash/authgate"
	"github.com/jrsteele09/arcash/cache"
	"github.com/jrsteele09/arcash/internal/config"
	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/kvstore"
	"github.com/jrsteele09/arcash/model"
	"github.com/jrsteele09/arcash/session"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const maxErrorBody = 64 << 10

// Client is safe for concurrent use.
type Client struct {
	baseURL  string
	cacheTTL time.Duration
	pageSize int

	session *session.Store
	cache   *cache.Cache
	gate    *authgate.Gate

	// raw carries the cookie jar but no bearer handling. Used for refresh and logout.
	raw   *http.Client
	gated *http.Client

	transport   http.RoundTripper
	cacheOpts   []cache.Option
	gateOptions []authgate.Option

	mu             sync.Mutex
	onSessionEnded []func(reason error)
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the transport beneath the gate. Defaults to http.DefaultTransport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithCacheOptions passes options to the response cache.
func WithCacheOptions(opts ...cache.Option) Option {
	return func(c *Client) {
		c.cacheOpts = append(c.cacheOpts, opts...)
	}
}

// WithGateOptions passes options to the auth gate.
func WithGateOptions(opts ...authgate.Option) Option {
	return func(c *Client) {
		c.gateOptions = append(c.gateOptions, opts...)
	}
}

// New creates a client persisting its session and cache in kv.
func New(ctx context.Context, cfg config.ClientConfig, kv kvstore.Store, options ...Option) (*Client, error) {
	store, err := session.New(ctx, kv)
	if err != nil {
		return nil, fmt.Errorf("[Client New] %w", err)
	}

	c := &Client{
		baseURL:   strings.TrimRight(cfg.GetBaseURL(), "/"),
		cacheTTL:  cfg.GetCacheTTL(),
		pageSize:  cfg.GetPageSize(),
		session:   store,
		transport: http.DefaultTransport,
	}
	for _, opt := range options {
		opt(c)
	}

	c.cache = cache.New(kv, c.cacheOpts...)
	c.raw = &http.Client{
		Transport: c.transport,
		Jar:       store.Jar(),
		Timeout:   cfg.GetRequestTimeout(),
	}
	gateOpts := append([]authgate.Option{
		authgate.WithBase(c.transport),
		authgate.WithLogout(c.endSession),
	}, c.gateOptions...)
	c.gate = authgate.New(store, c.refresh, gateOpts...)
	c.gated = &http.Client{
		Transport: c.gate,
		Jar:       store.Jar(),
		Timeout:   cfg.GetRequestTimeout(),
	}
	return c, nil
}

// Session returns the session store.
func (c *Client) Session() *session.Store {
	return c.session
}

// Gate returns the auth gate.
func (c *Client) Gate() *authgate.Gate {
	return c.gate
}

// OnSessionEnded registers fn to be called when the session is ended by the client,
// after a failed refresh or an unauthorized response. The CLI uses it to send the user
// back to login.
func (c *Client) OnSessionEnded(fn func(reason error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSessionEnded = append(c.onSessionEnded, fn)
}

func (c *Client) refresh(ctx context.Context) (*oauth2.Token, error) {
	var out model.RefreshResponse
	if err := c.do(ctx, c.raw, http.MethodPost, "/auth/refresh", nil, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRefreshFailed, err)
	}
	if out.Token == "" {
		return nil, apperrors.Wrapf(apperrors.ErrRefreshFailed, "no token in response")
	}
	log.Debug().Msg("access token refreshed")
	return session.NewToken(out.Token), nil
}

// endSession notifies the backend, purges local state and runs the session-ended hooks.
func (c *Client) endSession(ctx context.Context, reason error) {
	c.logout(ctx)

	c.mu.Lock()
	hooks := append([]func(error){}, c.onSessionEnded...)
	c.mu.Unlock()
	for _, fn := range hooks {
		fn(reason)
	}
}

// logout revokes the session server side when possible and always clears local state.
func (c *Client) logout(ctx context.Context) {
	if tok, err := c.session.AccessToken(ctx); err == nil && tok != nil {
		if err := c.doWithToken(ctx, http.MethodPost, "/auth/logout", tok); err != nil {
			log.Err(err).Msg("backend logout failed")
		}
	}
	n, err := c.session.Clear(ctx)
	if err != nil {
		log.Err(err).Msg("clearing session failed")
		return
	}
	log.Debug().Int("keys", n).Msg("session cleared")
}

func (c *Client) doWithToken(ctx context.Context, method, path string, tok *oauth2.Token) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	tok.SetAuthHeader(req)
	resp, err := c.raw.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp, method, path)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// do sends in as JSON and decodes the response into out. Either may be nil.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s: encode: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp, method, path)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response, method, path string) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(data))
	var body model.ErrorResponse
	if err := json.Unmarshal(data, &body); err == nil {
		switch {
		case body.Message != "":
			msg = body.Message
		case body.Error != "":
			msg = body.Error
		}
	}
	apiErr := apperrors.NewAPIError(resp.StatusCode, method, path, msg)
	if resp.StatusCode == http.StatusTooManyRequests {
		log.Warn().Str("path", path).Msg("rate limited by backend")
	}
	return apiErr
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
}

func (c *Client) accountID(ctx context.Context) (string, error) {
	creds, err := c.session.Credentials(ctx)
	if err != nil {
		return "", err
	}
	if creds.AccountID == "" {
		return "", apperrors.Wrapf(apperrors.ErrNotLoggedIn, "no account id stored")
	}
	return creds.AccountID, nil
}
