// Package session keeps the logged-in user's credentials in a kvstore.Store under a
// common prefix so that logout can purge everything with one prefix delete.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/kvstore"
	"github.com/jrsteele09/arcash/model"
	"golang.org/x/oauth2"
)

// Prefix namespaces every key the client persists.
const Prefix = "arcash_"

const (
	keyToken     = Prefix + "token"
	keyAccountID = Prefix + "accountId"
	keyRole      = Prefix + "role"
	keyProfile   = Prefix + "user"
	keyCookies   = Prefix + "cookies"
)

// Credentials is what a successful login yields.
type Credentials struct {
	Token     string
	AccountID string
	Role      string
}

// Store reads and writes session state.
type Store struct {
	kv  kvstore.Store
	jar *CookieJar

	// mu orders token writes against Save and Clear within one process.
	mu sync.Mutex
}

// New creates a session store over kv and loads any persisted cookies.
func New(ctx context.Context, kv kvstore.Store) (*Store, error) {
	jar, err := newCookieJar(ctx, kv, keyCookies)
	if err != nil {
		return nil, fmt.Errorf("[session New] %w", err)
	}
	return &Store{kv: kv, jar: jar}, nil
}

// Jar returns the cookie jar holding the refresh cookie.
func (s *Store) Jar() *CookieJar {
	return s.jar
}

// Save stores the credentials of a new login and drops the previous user's profile.
// The token is written last so a failed save never pairs it with stale account data.
func (s *Store) Save(ctx context.Context, c Credentials) error {
	if c.Token == "" {
		return fmt.Errorf("[session Save] token is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{keyToken, keyProfile} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("[session Save] %s: %w", key, err)
		}
	}
	for _, kv := range []struct{ key, value string }{
		{keyAccountID, c.AccountID},
		{keyRole, c.Role},
		{keyToken, c.Token},
	} {
		if err := s.kv.Set(ctx, kv.key, []byte(kv.value)); err != nil {
			return fmt.Errorf("[session Save] %s: %w", kv.key, err)
		}
	}
	return nil
}

// Credentials returns the stored credentials or ErrNotLoggedIn.
func (s *Store) Credentials(ctx context.Context) (Credentials, error) {
	token, err := s.get(ctx, keyToken)
	if err != nil {
		return Credentials{}, err
	}
	if token == "" {
		return Credentials{}, apperrors.ErrNotLoggedIn
	}
	accountID, err := s.get(ctx, keyAccountID)
	if err != nil {
		return Credentials{}, err
	}
	role, err := s.get(ctx, keyRole)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Token: token, AccountID: accountID, Role: role}, nil
}

// AccessToken returns the stored bearer token, or nil when none is stored.
func (s *Store) AccessToken(ctx context.Context) (*oauth2.Token, error) {
	raw, err := s.get(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	return NewToken(raw), nil
}

// SetAccessToken replaces the bearer token unconditionally.
func (s *Store) SetAccessToken(ctx context.Context, tok *oauth2.Token) error {
	if tok == nil || tok.AccessToken == "" {
		return fmt.Errorf("[session SetAccessToken] token is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, keyToken, []byte(tok.AccessToken)); err != nil {
		return fmt.Errorf("[session SetAccessToken] %w", err)
	}
	return nil
}

// ReplaceAccessToken stores tok only while old is still the stored token. When the session
// was cleared or replaced in the meantime it returns ErrSessionEnded and writes nothing.
func (s *Store) ReplaceAccessToken(ctx context.Context, old, tok *oauth2.Token) error {
	if tok == nil || tok.AccessToken == "" {
		return fmt.Errorf("[session ReplaceAccessToken] token is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.get(ctx, keyToken)
	if err != nil {
		return fmt.Errorf("[session ReplaceAccessToken] %w", err)
	}
	expected := ""
	if old != nil {
		expected = old.AccessToken
	}
	if stored == "" || stored != expected {
		return apperrors.Wrapf(apperrors.ErrSessionEnded, "token changed during refresh")
	}
	if err := s.kv.Set(ctx, keyToken, []byte(tok.AccessToken)); err != nil {
		return fmt.Errorf("[session ReplaceAccessToken] %w", err)
	}
	return nil
}

// SaveProfile caches the user's profile.
func (s *Store) SaveProfile(ctx context.Context, u model.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("[session SaveProfile] %w", err)
	}
	return s.kv.Set(ctx, keyProfile, data)
}

// Profile returns the cached profile, if any.
func (s *Store) Profile(ctx context.Context) (model.User, bool, error) {
	data, ok, err := s.kv.Get(ctx, keyProfile)
	if err != nil || !ok {
		return model.User{}, false, err
	}
	var u model.User
	if err := json.Unmarshal(data, &u); err != nil {
		return model.User{}, false, fmt.Errorf("[session Profile] %w", err)
	}
	return u, true, nil
}

// IsLoggedIn reports whether a token is stored.
func (s *Store) IsLoggedIn(ctx context.Context) bool {
	token, err := s.get(ctx, keyToken)
	return err == nil && token != ""
}

// IsAdmin reports whether the stored role is the admin role.
func (s *Store) IsAdmin(ctx context.Context) bool {
	c, err := s.Credentials(ctx)
	return err == nil && c.Role == model.RoleAdmin
}

// Clear purges every key under Prefix, including cached data and cookies.
func (s *Store) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jar.Reset()
	n, err := s.kv.DeletePrefix(ctx, Prefix)
	if err != nil {
		return 0, fmt.Errorf("[session Clear] %w", err)
	}
	return n, nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("[session] read %s: %w", key, err)
	}
	if !ok {
		return "", nil
	}
	return string(v), nil
}
