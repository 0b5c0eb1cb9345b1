// Package authgate attaches bearer credentials to outgoing requests and coordinates
// access token refresh so that only one refresh call is ever in flight.
package authgate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// TokenStore is where the gate reads and writes the bearer token.
type TokenStore interface {
	// AccessToken returns nil when no token is stored.
	AccessToken(ctx context.Context) (*oauth2.Token, error)
	// ReplaceAccessToken stores tok only if old is still the stored token, and
	// otherwise returns an error wrapping errors.ErrSessionEnded.
	ReplaceAccessToken(ctx context.Context, old, tok *oauth2.Token) error
}

// RefreshFunc obtains a new access token from the backend.
type RefreshFunc func(ctx context.Context) (*oauth2.Token, error)

// LogoutFunc ends the session. reason is the failure that caused it.
type LogoutFunc func(ctx context.Context, reason error)

// Endpoint matches requests by method and path suffix. An empty Method matches any method.
type Endpoint struct {
	Method string
	Path   string
}

func (e Endpoint) matches(r *http.Request) bool {
	return (e.Method == "" || e.Method == r.Method) && strings.HasSuffix(r.URL.Path, e.Path)
}

// DefaultExempt are the endpoints sent without credentials or refresh handling.
var DefaultExempt = []Endpoint{
	{Method: http.MethodPost, Path: "/auth/login"},
	{Method: http.MethodPost, Path: "/auth/send-recover-mail"},
	{Method: http.MethodPost, Path: "/auth/reset-password"},
	{Method: http.MethodPost, Path: "/user/create"},
}

// DefaultPassThroughUnauthorized are the endpoints where 401 does not end the session.
// A 401 from PUT /user/data means the current password was wrong.
var DefaultPassThroughUnauthorized = []Endpoint{
	{Method: http.MethodPut, Path: "/user/data"},
}

// State is the refresh state of a Gate.
type State int

const (
	Idle State = iota
	Refreshing
)

func (s State) String() string {
	if s == Refreshing {
		return "refreshing"
	}
	return "idle"
}

type refreshCall struct {
	done  chan struct{}
	token *oauth2.Token
	err   error
}

// Gate is an http.RoundTripper. It is safe for concurrent use.
type Gate struct {
	base        http.RoundTripper
	store       TokenStore
	refresh     RefreshFunc
	logout      LogoutFunc
	exempt      []Endpoint
	passThrough []Endpoint

	mu      sync.Mutex
	current *refreshCall // nil while idle
}

var _ http.RoundTripper = (*Gate)(nil)

// Option configures a Gate.
type Option func(*Gate)

// WithBase sets the transport requests are sent on. Defaults to http.DefaultTransport.
func WithBase(base http.RoundTripper) Option {
	return func(g *Gate) {
		g.base = base
	}
}

// WithLogout sets the function called when the session has to end.
func WithLogout(fn LogoutFunc) Option {
	return func(g *Gate) {
		g.logout = fn
	}
}

// WithExempt replaces the list of exempt endpoints.
func WithExempt(endpoints ...Endpoint) Option {
	return func(g *Gate) {
		g.exempt = endpoints
	}
}

// WithPassThroughUnauthorized replaces the list of endpoints whose 401 is returned to the caller.
func WithPassThroughUnauthorized(endpoints ...Endpoint) Option {
	return func(g *Gate) {
		g.passThrough = endpoints
	}
}

// New creates a gate reading tokens from store and renewing them with refresh.
func New(store TokenStore, refresh RefreshFunc, options ...Option) *Gate {
	g := &Gate{
		base:        http.DefaultTransport,
		store:       store,
		refresh:     refresh,
		logout:      func(context.Context, error) {},
		exempt:      DefaultExempt,
		passThrough: DefaultPassThroughUnauthorized,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// State reports whether a refresh is in flight.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current != nil {
		return Refreshing
	}
	return Idle
}

// RoundTrip implements http.RoundTripper.
func (g *Gate) RoundTrip(req *http.Request) (*http.Response, error) {
	if matchesAny(g.exempt, req) {
		return g.base.RoundTrip(req)
	}

	req, err := replayable(req)
	if err != nil {
		return nil, err
	}
	ctx := req.Context()

	tok, err := g.store.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("[Gate RoundTrip] read token: %w", err)
	}
	resp, err := g.send(req, tok)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == apperrors.StatusAccessTokenExpired {
		drain(resp)
		tok, err = g.awaitToken(ctx, tok)
		if err != nil {
			return nil, err
		}
		replay, err := rewind(req)
		if err != nil {
			return nil, err
		}
		resp, err = g.send(replay, tok)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == apperrors.StatusAccessTokenExpired {
			drain(resp)
			reason := fmt.Errorf("%w: replay rejected as expired", apperrors.ErrRefreshFailed)
			g.endSession(ctx, reason)
			return nil, fmt.Errorf("%w: %w", apperrors.ErrSessionEnded, reason)
		}
	}

	if resp.StatusCode == http.StatusUnauthorized && !matchesAny(g.passThrough, req) {
		drain(resp)
		reason := apperrors.NewAPIError(resp.StatusCode, req.Method, req.URL.Path, "")
		g.endSession(ctx, reason)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSessionEnded, reason)
	}
	return resp, nil
}

func (g *Gate) send(req *http.Request, tok *oauth2.Token) (*http.Response, error) {
	if tok == nil {
		return g.base.RoundTrip(req)
	}
	t := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(tok),
		Base:   g.base,
	}
	return t.RoundTrip(req)
}

// awaitToken returns the token to replay with after failed was rejected as expired.
// At most one refresh runs at a time; callers arriving during it share its result.
func (g *Gate) awaitToken(ctx context.Context, failed *oauth2.Token) (*oauth2.Token, error) {
	g.mu.Lock()
	if call := g.current; call != nil {
		g.mu.Unlock()
		return wait(ctx, call)
	}

	stored, err := g.store.AccessToken(ctx)
	if err != nil {
		g.mu.Unlock()
		return nil, fmt.Errorf("[Gate awaitToken] read token: %w", err)
	}
	switch {
	case stored == nil && failed != nil:
		// a previous refresh failed and the session was cleared
		g.mu.Unlock()
		return nil, apperrors.ErrSessionEnded
	case stored != nil && (failed == nil || stored.AccessToken != failed.AccessToken):
		// refreshed since this request was sent
		g.mu.Unlock()
		return stored, nil
	}

	call := &refreshCall{done: make(chan struct{})}
	g.current = call
	g.mu.Unlock()

	go g.runRefresh(context.WithoutCancel(ctx), call, stored)
	return wait(ctx, call)
}

func (g *Gate) runRefresh(ctx context.Context, call *refreshCall, stale *oauth2.Token) {
	log.Debug().Msg("access token expired, refreshing")

	tok, err := g.refresh(ctx)
	if err == nil && (tok == nil || tok.AccessToken == "") {
		err = apperrors.Wrapf(apperrors.ErrRefreshFailed, "empty token")
	}
	if err == nil {
		err = g.store.ReplaceAccessToken(ctx, stale, tok)
	}

	switch {
	case err == nil:
		call.token = tok
	case apperrors.Is(err, apperrors.ErrSessionEnded):
		// the session was cleared while refreshing; the new token is dropped
		log.Debug().Err(err).Msg("discarding refreshed token")
		call.err = err
	default:
		log.Err(err).Msg("access token refresh failed, ending session")
		g.endSession(ctx, err)
		call.err = fmt.Errorf("%w: %w", apperrors.ErrSessionEnded, err)
	}

	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()
	close(call.done)
}

func (g *Gate) endSession(ctx context.Context, reason error) {
	g.logout(context.WithoutCancel(ctx), reason)
}

func wait(ctx context.Context, call *refreshCall) (*oauth2.Token, error) {
	select {
	case <-call.done:
		return call.token, call.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func matchesAny(endpoints []Endpoint, r *http.Request) bool {
	for _, e := range endpoints {
		if e.matches(r) {
			return true
		}
	}
	return false
}

// replayable makes sure the request body can be read again.
func replayable(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return req, nil
	}
	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("[Gate] buffer request body: %w", err)
	}
	clone := req.Clone(req.Context())
	clone.Body = io.NopCloser(bytes.NewReader(data))
	clone.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return clone, nil
}

func rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody == nil {
		return clone, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("[Gate] rewind request body: %w", err)
	}
	clone.Body = body
	return clone, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
