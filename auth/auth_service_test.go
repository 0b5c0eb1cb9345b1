package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/arcash/auth"
	fakeactiontokenrepo "github.com/jrsteele09/arcash/auth/repofakes"
	"github.com/jrsteele09/arcash/bank"
	bankrepofake "github.com/jrsteele09/arcash/bank/repofake"
	"github.com/jrsteele09/arcash/internal/config"
	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/internal/utils"
	"github.com/jrsteele09/arcash/model"
	"github.com/jrsteele09/arcash/token"
	"github.com/jrsteele09/arcash/token/refresh"
	refreshrepofake "github.com/jrsteele09/arcash/token/refresh/repofake"
	"github.com/jrsteele09/arcash/users"
	fakeuserrepo "github.com/jrsteele09/arcash/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	secretStr        = "1234"
	testUserEmail    = "john.doe@example.com"
	testUserPassword = "Password123"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// lastToken returns the code of the last mail sent.
func (m *fakeMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return strings.TrimPrefix(m.sent[len(m.sent)-1].body, "Your code is ")
}

// testFixture holds all test dependencies
type testFixture struct {
	now          time.Time
	userRepo     users.UserRepo
	tokenCreator *token.Manager
	mailer       *fakeMailer
	service      *auth.Service
}

// setupTestFixture creates a new test fixture with all dependencies
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		now:      time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
		userRepo: fakeuserrepo.NewFakeUserRepo(),
		mailer:   &fakeMailer{},
	}
	nowFunc := func() time.Time { return f.now }

	f.tokenCreator = token.New(token.NewHMACSigner(secretStr), token.WithNowFunc(nowFunc))
	refreshes := refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), config.Token{})
	bankCfg := config.Bank{ResendCooldown: time.Minute, RecoveryTokenExpiry: 30 * time.Minute}
	bankService, err := bank.NewService(bankrepofake.NewRepos(), bankCfg)
	require.NoError(t, err)

	f.service, err = auth.NewService(
		auth.Repos{Users: f.userRepo, ActionTokens: fakeactiontokenrepo.NewFakeActionTokenRepo()},
		f.tokenCreator, refreshes, bankService, bankCfg,
		auth.WithNowTime(nowFunc), auth.WithMailer(f.mailer),
	)
	require.NoError(t, err)
	return f
}

func (f *testFixture) register(t *testing.T) *users.User {
	t.Helper()
	u, err := f.service.Register(context.Background(), model.RegisterRequest{
		Name: "John", Surname: "Doe", Email: testUserEmail, Password: testUserPassword,
	})
	require.NoError(t, err)
	return u
}

func (f *testFixture) registerVerified(t *testing.T) *users.User {
	t.Helper()
	u := f.register(t)
	require.NoError(t, f.service.ValidateEmail(f.mailer.lastToken(t)))
	return u
}

func TestNewService_Validation(t *testing.T) {
	_, err := auth.NewService(auth.Repos{}, nil, nil, nil, config.Bank{})
	require.Error(t, err)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)

	u := f.register(t)
	require.NotEmpty(t, u.AccountID)
	require.Equal(t, users.RoleUser, u.Role)
	require.False(t, u.Verified)
	require.Len(t, f.mailer.sent, 1)
	require.Equal(t, testUserEmail, f.mailer.sent[0].to)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.service.Register(ctx, model.RegisterRequest{Name: "J", Surname: "D", Email: testUserEmail, Password: testUserPassword})
		require.ErrorIs(t, err, auth.EmailTakenErr)
		require.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := f.service.Register(ctx, model.RegisterRequest{Name: "J", Surname: "D", Email: "weak@example.com", Password: "password"})
		require.ErrorIs(t, err, apperrors.ErrBadRequest)
	})
}

func TestLogin(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t)

	_, err := f.service.Login(testUserEmail, testUserPassword)
	require.ErrorIs(t, err, auth.UserUnverifiedErr)

	require.NoError(t, f.service.ValidateEmail(f.mailer.lastToken(t)))
	require.ErrorIs(t, f.service.ValidateEmail(f.mailer.lastToken(t)), auth.InvalidActionTokenErr)

	result, err := f.service.Login(testUserEmail, testUserPassword)
	require.NoError(t, err)
	require.NotEmpty(t, result.RefreshToken)

	claims, err := f.tokenCreator.Verify(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, claims.UserID)
	require.Equal(t, result.User.AccountID, claims.AccountID)

	stored, err := f.userRepo.GetByEmail(testUserEmail)
	require.NoError(t, err)
	require.Equal(t, f.now, stored.LastLogin)

	_, err = f.service.Login(testUserEmail, "Wrong1234")
	require.ErrorIs(t, err, auth.InvalidCredentialsErr)
	_, err = f.service.Login("nobody@example.com", testUserPassword)
	require.ErrorIs(t, err, auth.InvalidCredentialsErr)

	require.NoError(t, f.userRepo.SetBlocked(testUserEmail, true))
	_, err = f.service.Login(testUserEmail, testUserPassword)
	require.ErrorIs(t, err, auth.UserBlockedErr)
}

func TestRefreshAndLogout(t *testing.T) {
	f := setupTestFixture(t)
	u := f.registerVerified(t)

	result, err := f.service.Login(testUserEmail, testUserPassword)
	require.NoError(t, err)

	f.now = f.now.Add(time.Second)
	access, err := f.service.Refresh(result.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, result.AccessToken, access)

	f.service.Logout(access, result.RefreshToken)
	_, err = f.tokenCreator.Verify(access)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	_, err = f.service.Refresh(result.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)

	t.Run("blocked user cannot refresh", func(t *testing.T) {
		result, err := f.service.Login(testUserEmail, testUserPassword)
		require.NoError(t, err)
		_, err = f.service.AdminUpdateUser(u.ID, model.AdminUserUpdate{Blocked: utils.Ptr(true)})
		require.NoError(t, err)
		_, err = f.service.Refresh(result.RefreshToken)
		require.Error(t, err)
	})
}

func TestResendValidation_Cooldown(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.register(t)

	err := f.service.ResendValidation(ctx, testUserEmail)
	require.ErrorIs(t, err, auth.ResendTooSoonErr)
	require.ErrorIs(t, err, apperrors.ErrRateLimited)

	f.now = f.now.Add(time.Minute)
	require.NoError(t, f.service.ResendValidation(ctx, testUserEmail))
	require.Len(t, f.mailer.sent, 2)

	require.NoError(t, f.service.ResendValidation(ctx, "unknown@example.com"))

	require.NoError(t, f.service.ValidateEmail(f.mailer.lastToken(t)))
	f.now = f.now.Add(time.Minute)
	require.ErrorIs(t, f.service.ResendValidation(ctx, testUserEmail), auth.AlreadyVerifiedErr)
}

func TestPasswordRecovery(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.registerVerified(t)

	first, err := f.service.Login(testUserEmail, testUserPassword)
	require.NoError(t, err)

	require.NoError(t, f.service.SendRecoverMail(ctx, testUserEmail))
	code := f.mailer.lastToken(t)
	require.ErrorIs(t, f.service.ResendPasswordRecovery(ctx, testUserEmail), auth.ResendTooSoonErr)
	require.NoError(t, f.service.SendRecoverMail(ctx, "unknown@example.com"))

	require.NoError(t, f.service.ValidateRecoveryToken(code))
	require.ErrorIs(t, f.service.ValidateRecoveryToken("bogus"), auth.InvalidActionTokenErr)
	require.ErrorIs(t, f.service.ResetPassword(code, "weak"), apperrors.ErrBadRequest)

	require.NoError(t, f.service.ResetPassword(code, "NewPassword9"))
	_, err = f.service.Login(testUserEmail, testUserPassword)
	require.ErrorIs(t, err, auth.InvalidCredentialsErr)
	_, err = f.service.Login(testUserEmail, "NewPassword9")
	require.NoError(t, err)

	_, err = f.service.Refresh(first.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)

	t.Run("expired token", func(t *testing.T) {
		f.now = f.now.Add(time.Minute)
		require.NoError(t, f.service.SendRecoverMail(ctx, testUserEmail))
		code := f.mailer.lastToken(t)
		f.now = f.now.Add(31 * time.Minute)
		require.ErrorIs(t, f.service.ValidateRecoveryToken(code), auth.InvalidActionTokenErr)
	})
}

func TestUpdateProfile(t *testing.T) {
	f := setupTestFixture(t)
	u := f.registerVerified(t)

	_, err := f.service.UpdateProfile(u.ID, model.UpdateUserRequest{Name: utils.Ptr("Johnny"), CurrentPassword: "Wrong1234"})
	require.ErrorIs(t, err, auth.UserPasswordsDontMatchErr)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	updated, err := f.service.UpdateProfile(u.ID, model.UpdateUserRequest{
		Name:            utils.Ptr("Johnny"),
		CurrentPassword: testUserPassword,
		NewPassword:     utils.Ptr("Another123"),
	})
	require.NoError(t, err)
	require.Equal(t, "Johnny", updated.Name)
	require.Equal(t, "Doe", updated.Surname)

	_, err = f.service.Login(testUserEmail, "Another123")
	require.NoError(t, err)
}

func TestAdmin(t *testing.T) {
	f := setupTestFixture(t)
	admin, err := f.service.SeedAdmin("admin@arcash.local", "Admin12345")
	require.NoError(t, err)
	require.True(t, admin.IsAdmin())
	require.True(t, admin.Verified)

	again, err := f.service.SeedAdmin("admin@arcash.local", "Other12345")
	require.NoError(t, err)
	require.Equal(t, admin.ID, again.ID)

	u := f.register(t)
	list, err := f.service.ListUsers()
	require.NoError(t, err)
	require.Len(t, list, 2)

	updated, err := f.service.AdminUpdateUser(u.ID, model.AdminUserUpdate{Role: utils.Ptr(model.RoleAdmin), Verified: utils.Ptr(true)})
	require.NoError(t, err)
	require.Equal(t, users.RoleAdmin, updated.Role)
	require.True(t, updated.Verified)

	_, err = f.service.AdminUpdateUser(u.ID, model.AdminUserUpdate{Role: utils.Ptr("ROOT")})
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
	_, err = f.service.AdminUpdateUser("missing", model.AdminUserUpdate{})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
