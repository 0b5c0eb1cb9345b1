package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/arcash/auth"
	fakeactiontokenrepo "github.com/jrsteele09/arcash/auth/repofakes"
	"github.com/jrsteele09/arcash/bank"
	bankrepofake "github.com/jrsteele09/arcash/bank/repofake"
	"github.com/jrsteele09/arcash/client"
	"github.com/jrsteele09/arcash/internal/config"
	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/internal/utils"
	"github.com/jrsteele09/arcash/kvstore/memory"
	"github.com/jrsteele09/arcash/model"
	"github.com/jrsteele09/arcash/server"
	"github.com/jrsteele09/arcash/token"
	"github.com/jrsteele09/arcash/token/refresh"
	refreshrepofake "github.com/jrsteele09/arcash/token/refresh/repofake"
	fakeuserrepo "github.com/jrsteele09/arcash/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testPassword   = "Password123"
	adminEmail     = "admin@arcash.test"
	accessTokenTTL = time.Minute
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string // email to last code
}

func (m *captureMailer) Send(_ context.Context, to, _, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = strings.TrimPrefix(body, "Your code is ")
	return nil
}

func (m *captureMailer) code(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

type testFixture struct {
	clock        *clock
	mailer       *captureMailer
	auth         *auth.Service
	srv          *httptest.Server
	refreshCalls atomic.Int32
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		clock:  &clock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)},
		mailer: &captureMailer{codes: map[string]string{}},
	}

	cfg, err := config.New()
	require.NoError(t, err)

	tokens := token.New(token.NewHMACSigner("server-test-secret"),
		token.WithNowFunc(f.clock.Now),
		token.WithTokenExpiry(accessTokenTTL),
	)
	refreshes := refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), cfg)
	bankService, err := bank.NewService(bankrepofake.NewRepos(), cfg, bank.WithNowTime(f.clock.Now))
	require.NoError(t, err)
	f.auth, err = auth.NewService(
		auth.Repos{Users: fakeuserrepo.NewFakeUserRepo(), ActionTokens: fakeactiontokenrepo.NewFakeActionTokenRepo()},
		tokens, refreshes, bankService, cfg,
		auth.WithNowTime(f.clock.Now), auth.WithMailer(f.mailer),
	)
	require.NoError(t, err)
	_, err = f.auth.SeedAdmin(adminEmail, testPassword)
	require.NoError(t, err)

	s, err := server.New(cfg, server.Services{Auth: f.auth, Bank: bankService, Tokens: tokens})
	require.NoError(t, err)

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == server.RouteAuthRefresh {
			f.refreshCalls.Add(1)
		}
		s.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *testFixture) newClient(t *testing.T) *client.Client {
	t.Helper()
	cfg := config.Client{BaseURL: f.srv.URL, RequestTimeout: 5 * time.Second, CacheTTL: time.Minute, PageSize: 10}
	c, err := client.New(context.Background(), cfg, memory.New())
	require.NoError(t, err)
	return c
}

// signUp registers and verifies email through the API and returns a logged-in client.
func (f *testFixture) signUp(t *testing.T, name, email string) (*client.Client, model.LoginResponse) {
	t.Helper()
	ctx := context.Background()
	c := f.newClient(t)

	_, err := c.Register(ctx, model.RegisterRequest{Name: name, Surname: "Test", Email: email, Password: testPassword})
	require.NoError(t, err)
	_, err = c.ValidateEmail(ctx, f.mailer.code(email))
	require.NoError(t, err)

	out, err := c.Login(ctx, email, testPassword)
	require.NoError(t, err)
	return c, out
}

func (f *testFixture) rawRequest(t *testing.T, method, path, bearer string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.srv.URL+path, &buf)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestNew_RequiresServices(t *testing.T) {
	cfg, err := config.New()
	require.NoError(t, err)
	_, err = server.New(cfg, server.Services{})
	require.Error(t, err)
}

func TestExpiredTokenIsRefreshedOnce(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	c, login := f.signUp(t, "Ana", "ana@arcash.test")

	acc, err := c.Balance(ctx)
	require.NoError(t, err)
	require.Equal(t, login.AccountID, acc.AccountID)
	require.Zero(t, f.refreshCalls.Load())

	f.clock.Advance(accessTokenTTL + time.Second)
	resp := f.rawRequest(t, http.MethodGet, "/accounts/"+login.AccountID+"/showBalance", login.Token, nil)
	require.Equal(t, apperrors.StatusAccessTokenExpired, resp.StatusCode)

	acc, err = c.Balance(ctx)
	require.NoError(t, err)
	require.Equal(t, login.AccountID, acc.AccountID)
	require.EqualValues(t, 1, f.refreshCalls.Load())

	tok, err := c.Session().AccessToken(ctx)
	require.NoError(t, err)
	require.NotEqual(t, login.Token, tok.AccessToken)
}

func TestConcurrentExpiredRequestsShareOneRefresh(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	c, _ := f.signUp(t, "Ana", "ana@arcash.test")

	f.clock.Advance(accessTokenTTL + time.Second)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.UserData(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, f.refreshCalls.Load())
}

func TestBlockedUserSessionEnds(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	c, _ := f.signUp(t, "Ana", "ana@arcash.test")

	var ended atomic.Int32
	c.OnSessionEnded(func(error) { ended.Add(1) })

	me, err := c.UserData(ctx)
	require.NoError(t, err)
	_, err = f.auth.AdminUpdateUser(me.ID, model.AdminUserUpdate{Blocked: utils.Ptr(true)})
	require.NoError(t, err)

	f.clock.Advance(accessTokenTTL + time.Second)
	_, err = c.Balance(ctx)
	require.ErrorIs(t, err, apperrors.ErrSessionEnded)
	require.EqualValues(t, 1, ended.Load())
	require.False(t, c.Session().IsLoggedIn(ctx))
}

func TestRequireAuth(t *testing.T) {
	f := setupTestFixture(t)
	_, login := f.signUp(t, "Ana", "ana@arcash.test")

	resp := f.rawRequest(t, http.MethodGet, server.RouteUserData, "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.rawRequest(t, http.MethodGet, server.RouteUserData, "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.rawRequest(t, http.MethodGet, server.RouteUserData, login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("revoked after logout", func(t *testing.T) {
		resp := f.rawRequest(t, http.MethodPost, server.RouteAuthLogout, login.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp = f.rawRequest(t, http.MethodGet, server.RouteUserData, login.Token, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("refresh without cookie", func(t *testing.T) {
		resp := f.rawRequest(t, http.MethodPost, server.RouteAuthRefresh, "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAccountOwnershipAndAdmin(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	ana, anaLogin := f.signUp(t, "Ana", "ana@arcash.test")
	_, bobLogin := f.signUp(t, "Bob", "bob@arcash.test")

	resp := f.rawRequest(t, http.MethodGet, "/accounts/"+anaLogin.AccountID+"/showBalance", bobLogin.Token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = f.rawRequest(t, http.MethodGet, "/transactions/"+anaLogin.AccountID+"/getTransactions", bobLogin.Token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = f.rawRequest(t, http.MethodGet, server.RouteAdminUsers, bobLogin.Token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := f.newClient(t)
	_, err := admin.Login(ctx, adminEmail, testPassword)
	require.NoError(t, err)

	list, err := admin.AdminUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	me, err := ana.UserData(ctx)
	require.NoError(t, err)
	updated, err := admin.AdminUpdateUser(ctx, me.ID, model.AdminUserUpdate{Role: utils.Ptr(model.RoleAdmin)})
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, updated.Role)

	got, err := admin.AdminUser(ctx, me.ID)
	require.NoError(t, err)
	require.Equal(t, "ana@arcash.test", got.Email)
}

func TestBankingFlow(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	ana, _ := f.signUp(t, "Ana", "ana@arcash.test")
	bob, bobLogin := f.signUp(t, "Bob", "bob@arcash.test")

	acc, err := ana.Deposit(ctx, 1000)
	require.NoError(t, err)
	require.Equal(t, 1000.0, acc.Balance)

	bobAcc, err := bob.Balance(ctx)
	require.NoError(t, err)
	found, err := ana.SearchRecipients(ctx, bobAcc.CVU[:10])
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, bobLogin.AccountID, found[0].AccountID)

	tx, err := ana.Transfer(ctx, bobLogin.AccountID, model.TransferRequest{Amount: 250, Description: "rent"})
	require.NoError(t, err)
	require.Equal(t, model.TransactionTransfer, tx.Type)

	_, err = ana.Transfer(ctx, bobLogin.AccountID, model.TransferRequest{Amount: 5000})
	require.ErrorIs(t, err, apperrors.ErrBadRequest)

	txs, err := ana.Transactions(ctx, false)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	bobAcc, err = bob.Balance(ctx)
	require.NoError(t, err)
	require.Equal(t, 250.0, bobAcc.Balance)

	_, err = ana.UpdateAlias(ctx, bobAcc.Alias)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	renamed, err := ana.UpdateAlias(ctx, "ana.pagos")
	require.NoError(t, err)
	require.Equal(t, "ana.pagos", renamed.Alias)

	breakdown, err := ana.CalculateUSD(ctx, 10)
	require.NoError(t, err)
	require.Positive(t, breakdown.Total)
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	ana, _ := f.signUp(t, "Ana", "ana@arcash.test")
	bob, _ := f.signUp(t, "Bob", "bob@arcash.test")
	bobAcc, err := bob.Balance(ctx)
	require.NoError(t, err)

	fav, err := ana.CreateFavorite(ctx, model.FavoriteRequest{Alias: bobAcc.Alias, Name: "Bob"})
	require.NoError(t, err)

	_, err = ana.CreateFavorite(ctx, model.FavoriteRequest{Alias: bobAcc.Alias, Name: "Bob again"})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	favs, err := ana.Favorites(ctx, false)
	require.NoError(t, err)
	require.Len(t, favs, 1)

	updated, err := ana.UpdateFavorite(ctx, fav.ID, model.FavoriteRequest{Alias: bobAcc.Alias, Name: "Roberto"})
	require.NoError(t, err)
	require.Equal(t, "Roberto", updated.Name)

	_, err = bob.Favorite(ctx, fav.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, ana.DeleteFavorite(ctx, fav.ID))
	favs, err = ana.Favorites(ctx, false)
	require.NoError(t, err)
	require.Empty(t, favs)
}

func TestUserDataWrongPasswordKeepsSession(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	c, _ := f.signUp(t, "Ana", "ana@arcash.test")

	_, err := c.UpdateUserData(ctx, model.UpdateUserRequest{Name: utils.Ptr("Anita"), CurrentPassword: "Wrong12345"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	require.True(t, c.Session().IsLoggedIn(ctx))

	u, err := c.UpdateUserData(ctx, model.UpdateUserRequest{Name: utils.Ptr("Anita"), CurrentPassword: testPassword})
	require.NoError(t, err)
	require.Equal(t, "Anita", u.Name)
}

func TestRecoveryFlow(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	c := f.newClient(t)

	_, err := c.Register(ctx, model.RegisterRequest{Name: "Ana", Surname: "Test", Email: "ana@arcash.test", Password: testPassword})
	require.NoError(t, err)

	_, err = c.ResendValidation(ctx, "ana@arcash.test")
	require.ErrorIs(t, err, apperrors.ErrRateLimited)

	_, err = c.Login(ctx, "ana@arcash.test", testPassword)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = c.ValidateEmail(ctx, f.mailer.code("ana@arcash.test"))
	require.NoError(t, err)

	_, err = c.SendRecoverMail(ctx, "ana@arcash.test")
	require.NoError(t, err)
	code := f.mailer.code("ana@arcash.test")

	_, err = c.ValidateRecoveryToken(ctx, code)
	require.NoError(t, err)
	_, err = c.ResetPassword(ctx, code, "Changed123")
	require.NoError(t, err)

	_, err = c.Login(ctx, "ana@arcash.test", testPassword)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = c.Login(ctx, "ana@arcash.test", "Changed123")
	require.NoError(t, err)
}

func TestCorsPreflight(t *testing.T) {
	f := setupTestFixture(t)

	req, err := http.NewRequest(http.MethodOptions, f.srv.URL+server.RouteFavorites, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	require.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Methods"))
}
