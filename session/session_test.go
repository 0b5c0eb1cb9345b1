package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/kvstore/memory"
	"github.com/jrsteele09/arcash/model"
	"github.com/jrsteele09/arcash/session"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newStore(t *testing.T) (*session.Store, *memory.Store) {
	t.Helper()
	kv := memory.New()
	s, err := session.New(context.Background(), kv)
	require.NoError(t, err)
	return s, kv
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestStore_SaveAndCredentials(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.Credentials(ctx)
	require.ErrorIs(t, err, apperrors.ErrNotLoggedIn)
	require.False(t, s.IsLoggedIn(ctx))

	require.NoError(t, s.Save(ctx, session.Credentials{Token: "tok-1", AccountID: "acc-1", Role: model.RoleUser}))
	c, err := s.Credentials(ctx)
	require.NoError(t, err)
	require.Equal(t, session.Credentials{Token: "tok-1", AccountID: "acc-1", Role: model.RoleUser}, c)
	require.True(t, s.IsLoggedIn(ctx))
	require.False(t, s.IsAdmin(ctx))
}

func TestStore_SaveRequiresToken(t *testing.T) {
	s, _ := newStore(t)
	require.Error(t, s.Save(context.Background(), session.Credentials{AccountID: "acc-1"}))
}

func TestStore_AccessToken(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	tok, err := s.AccessToken(ctx)
	require.NoError(t, err)
	require.Nil(t, tok)

	require.NoError(t, s.Save(ctx, session.Credentials{Token: "old", AccountID: "1", Role: model.RoleAdmin}))
	require.NoError(t, s.SetAccessToken(ctx, &oauth2.Token{AccessToken: "new"}))

	tok, err = s.AccessToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "new", tok.AccessToken)
	require.Equal(t, "Bearer", tok.TokenType)
	require.True(t, s.IsAdmin(ctx))

	require.Error(t, s.SetAccessToken(ctx, &oauth2.Token{}))
}

func TestStore_Profile(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, ok, err := s.Profile(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	u := model.User{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: model.RoleUser}
	require.NoError(t, s.SaveProfile(ctx, u))
	got, ok, err := s.Profile(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, u.Email, got.Email)
}

func TestStore_SaveDropsPreviousProfile(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	require.NoError(t, s.Save(ctx, session.Credentials{Token: "tok-a", AccountID: "acc-a", Role: model.RoleUser}))
	require.NoError(t, s.SaveProfile(ctx, model.User{ID: "ua", AccountID: "acc-a"}))

	require.NoError(t, s.Save(ctx, session.Credentials{Token: "tok-b", AccountID: "acc-b", Role: model.RoleUser}))
	_, ok, err := s.Profile(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

// failingKV fails every Set of one key.
type failingKV struct {
	*memory.Store
	failKey string
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.Store.Set(ctx, key, value)
}

func TestStore_FailedSaveLeavesNoToken(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{Store: memory.New()}
	s, err := session.New(ctx, kv)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, session.Credentials{Token: "tok-a", AccountID: "acc-a", Role: model.RoleUser}))

	for _, key := range []string{session.Prefix + "accountId", session.Prefix + "role"} {
		kv.failKey = key
		require.Error(t, s.Save(ctx, session.Credentials{Token: "tok-b", AccountID: "acc-b", Role: model.RoleAdmin}))
		require.False(t, s.IsLoggedIn(ctx), key)
	}
}

func TestStore_ReplaceAccessToken(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	old := &oauth2.Token{AccessToken: "old"}
	fresh := &oauth2.Token{AccessToken: "new"}

	require.ErrorIs(t, s.ReplaceAccessToken(ctx, nil, fresh), apperrors.ErrSessionEnded)
	require.False(t, s.IsLoggedIn(ctx))

	require.NoError(t, s.Save(ctx, session.Credentials{Token: "old", AccountID: "1", Role: model.RoleUser}))
	require.NoError(t, s.ReplaceAccessToken(ctx, old, fresh))
	tok, err := s.AccessToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "new", tok.AccessToken)

	// a second refresh based on the superseded token is dropped
	require.ErrorIs(t, s.ReplaceAccessToken(ctx, old, &oauth2.Token{AccessToken: "other"}), apperrors.ErrSessionEnded)

	_, err = s.Clear(ctx)
	require.NoError(t, err)
	require.ErrorIs(t, s.ReplaceAccessToken(ctx, fresh, &oauth2.Token{AccessToken: "other"}), apperrors.ErrSessionEnded)
	require.False(t, s.IsLoggedIn(ctx))
	require.Error(t, s.ReplaceAccessToken(ctx, fresh, &oauth2.Token{}))
}

func TestStore_ClearPurgesNamespaceOnly(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)

	require.NoError(t, s.Save(ctx, session.Credentials{Token: "tok", AccountID: "1", Role: model.RoleUser}))
	require.NoError(t, s.SaveProfile(ctx, model.User{ID: "u1"}))
	require.NoError(t, kv.Set(ctx, "arcash_cache_favorites", []byte("{}")))
	require.NoError(t, kv.Set(ctx, "unrelated", []byte("keep")))

	_, err := s.Clear(ctx)
	require.NoError(t, err)

	keys, err := kv.Keys(ctx, session.Prefix)
	require.NoError(t, err)
	require.Empty(t, keys)
	_, ok, err := kv.Get(ctx, "unrelated")
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, s.IsLoggedIn(ctx))
}

func TestCookieJar_PersistsAcrossStores(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	u, _ := url.Parse("http://localhost:8080/auth/login")
	refreshURL, _ := url.Parse("http://localhost:8080/auth/refresh")

	first, err := session.New(ctx, kv)
	require.NoError(t, err)
	first.Jar().SetCookies(u, []*http.Cookie{{Name: "refreshToken", Value: "r1", Path: "/auth", MaxAge: 3600, HttpOnly: true}})

	second, err := session.New(ctx, kv)
	require.NoError(t, err)
	cookies := second.Jar().Cookies(refreshURL)
	require.Len(t, cookies, 1)
	require.Equal(t, "r1", cookies[0].Value)

	t.Run("deleted cookie is not persisted", func(t *testing.T) {
		second.Jar().SetCookies(u, []*http.Cookie{{Name: "refreshToken", Path: "/auth", MaxAge: -1}})
		third, err := session.New(ctx, kv)
		require.NoError(t, err)
		require.Empty(t, third.Jar().Cookies(refreshURL))
	})

	t.Run("clear drops cookies", func(t *testing.T) {
		first.Jar().SetCookies(u, []*http.Cookie{{Name: "refreshToken", Value: "r2", Path: "/auth"}})
		_, err := first.Clear(ctx)
		require.NoError(t, err)
		require.Empty(t, first.Jar().Cookies(refreshURL))

		fresh, err := session.New(ctx, kv)
		require.NoError(t, err)
		require.Empty(t, fresh.Jar().Cookies(refreshURL))
	})
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, jwt.MapClaims{"sub": "u1", "account": "acc-9", "role": "ADMIN", "exp": exp.Unix()})

	c, err := session.ParseClaims(raw)
	require.NoError(t, err)
	require.Equal(t, "u1", c.Subject)
	require.Equal(t, "acc-9", c.AccountID)
	require.Equal(t, "ADMIN", c.Role)
	require.True(t, c.ExpiresAt.Time.Equal(exp))

	tok := session.NewToken(raw)
	require.True(t, tok.Expiry.Equal(exp))

	_, err = session.ParseClaims("opaque-token")
	require.Error(t, err)
	require.True(t, session.NewToken("opaque-token").Expiry.IsZero())
}
