package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/arcash/bank"
	"github.com/jrsteele09/arcash/internal/config"
	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/model"
	"github.com/jrsteele09/arcash/token"
	"github.com/jrsteele09/arcash/token/refresh"
	"github.com/jrsteele09/arcash/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Repos holds all repository dependencies for the Service
type Repos struct {
	Users        users.UserRepo  // Repository for user data
	ActionTokens ActionTokenRepo // Emailed verification and recovery tokens
}

// LoginResult is what a successful login hands to the transport layer.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *users.User
}

// Service provides login, token refresh, registration and account recovery.
type Service struct {
	repos        Repos
	tokenCreator *token.Manager
	refreshes    *refresh.Manager
	bank         *bank.Service
	config       config.BankConfig
	mailer       Mailer
	nowTime      func() time.Time // nowTime function (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(as *Service) {
		as.nowTime = nowFunc
	}
}

// WithMailer replaces the default LogMailer.
func WithMailer(m Mailer) ServiceOption {
	return func(as *Service) {
		as.mailer = m
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(
	repos Repos,
	tokenCreator *token.Manager,
	refreshes *refresh.Manager,
	bankService *bank.Service,
	cfg config.BankConfig,
	options ...ServiceOption,
) (*Service, error) {
	// Validate required parameters
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.ActionTokens == nil {
		return nil, errors.New("[NewService] ActionTokens repo is required")
	}
	if tokenCreator == nil {
		return nil, errors.New("[NewService] tokenCreator is required")
	}
	if refreshes == nil {
		return nil, errors.New("[NewService] refresh manager is required")
	}
	if bankService == nil {
		return nil, errors.New("[NewService] bank service is required")
	}

	as := &Service{
		repos:        repos,
		tokenCreator: tokenCreator,
		refreshes:    refreshes,
		bank:         bankService,
		config:       cfg,
		mailer:       LogMailer{},
		nowTime:      time.Now,
	}

	// Apply optional configuration
	for _, opt := range options {
		opt(as)
	}

	return as, nil
}

// Login checks the credentials and issues an access token and a refresh token.
func (as *Service) Login(email, password string) (*LoginResult, error) {
	user, err := as.repos.Users.GetByEmail(email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, InvalidCredentialsErr
		}
		return nil, errors.Wrap(err, "[Login] GetByEmail")
	}
	if !user.CheckPassword(password) {
		return nil, InvalidCredentialsErr
	}
	if user.Blocked {
		return nil, UserBlockedErr
	}
	if !user.Verified {
		return nil, UserUnverifiedErr
	}

	result, err := as.issueTokens(user)
	if err != nil {
		return nil, err
	}

	user.LastLogin = as.nowTime()
	if err := as.repos.Users.Upsert(user); err != nil {
		return nil, errors.Wrap(err, "[Login] Upsert")
	}
	return result, nil
}

func (as *Service) issueTokens(user *users.User) (*LoginResult, error) {
	accessToken, err := as.tokenCreator.CreateAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "[issueTokens] CreateAccessToken")
	}
	refreshToken, err := as.refreshes.Create(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[issueTokens] refresh Create")
	}
	return &LoginResult{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (as *Service) Refresh(refreshToken string) (string, error) {
	rt, err := as.refreshes.Validate(refreshToken)
	if err != nil {
		return "", err
	}
	user, err := as.repos.Users.GetByID(rt.UserID)
	if err != nil {
		_ = as.refreshes.Delete(refreshToken)
		return "", errors.Wrap(apperrors.ErrInvalidRefreshToken, "user no longer exists")
	}
	if user.Blocked {
		_ = as.refreshes.Delete(refreshToken)
		return "", UserBlockedErr
	}
	return as.tokenCreator.CreateAccessToken(user)
}

// Logout revokes the access token and deletes the refresh token. Either may be empty.
func (as *Service) Logout(accessToken, refreshToken string) {
	if accessToken != "" {
		if err := as.tokenCreator.RevokeAccessToken(accessToken); err != nil {
			log.Debug().Err(err).Msg("logout: access token not revoked")
		}
	}
	if refreshToken != "" {
		if err := as.refreshes.Delete(refreshToken); err != nil {
			log.Debug().Err(err).Msg("logout: refresh token not deleted")
		}
	}
}

// Register creates an unverified user with a bank account and mails the verification token.
func (as *Service) Register(ctx context.Context, req model.RegisterRequest) (*users.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBadRequest, "%s", err.Error())
	}
	if err := users.ValidatePasswordStrength(req.Password); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBadRequest, "%s", err.Error())
	}
	if _, err := as.repos.Users.GetByEmail(req.Email); err == nil {
		return nil, EmailTakenErr
	}

	hash, err := users.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[Register] HashPassword")
	}
	user := &users.User{
		ID:           uuid.New().String(),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Surname:      strings.TrimSpace(req.Surname),
		DNI:          strings.TrimSpace(req.DNI),
		Role:         users.RoleUser,
		DateJoined:   as.nowTime(),
	}
	account, err := as.bank.OpenAccount(user.ID, user.Name+" "+user.Surname)
	if err != nil {
		return nil, errors.Wrap(err, "[Register] OpenAccount")
	}
	user.AccountID = account.ID
	if err := as.repos.Users.Upsert(user); err != nil {
		return nil, errors.Wrap(err, "[Register] Upsert")
	}

	if err := as.sendActionToken(ctx, user.Email, PurposeVerifyEmail); err != nil {
		return nil, err
	}
	return user, nil
}

// ValidateEmail marks the user owning token as verified.
func (as *Service) ValidateEmail(tokenStr string) error {
	t, err := as.consumableToken(tokenStr, PurposeVerifyEmail)
	if err != nil {
		return err
	}
	if err := as.repos.Users.SetVerified(t.Email, true); err != nil {
		return errors.Wrap(err, "[ValidateEmail] SetVerified")
	}
	_ = as.repos.ActionTokens.Delete(t.Token)
	return nil
}

// ResendValidation mails a new verification token, at most once per cooldown.
func (as *Service) ResendValidation(ctx context.Context, email string) error {
	user, err := as.repos.Users.GetByEmail(email)
	if err != nil {
		// unknown addresses are not disclosed
		return nil
	}
	if user.Verified {
		return AlreadyVerifiedErr
	}
	if err := as.checkCooldown(user.Email, PurposeVerifyEmail); err != nil {
		return err
	}
	return as.sendActionToken(ctx, user.Email, PurposeVerifyEmail)
}

// SendRecoverMail mails a password recovery token. Unknown addresses succeed silently.
func (as *Service) SendRecoverMail(ctx context.Context, email string) error {
	user, err := as.repos.Users.GetByEmail(email)
	if err != nil {
		return nil
	}
	if err := as.checkCooldown(user.Email, PurposeRecoverPassword); err != nil {
		return err
	}
	return as.sendActionToken(ctx, user.Email, PurposeRecoverPassword)
}

// ResendPasswordRecovery is SendRecoverMail for a user that already asked once.
func (as *Service) ResendPasswordRecovery(ctx context.Context, email string) error {
	return as.SendRecoverMail(ctx, email)
}

// ValidateRecoveryToken reports whether token can still reset a password.
func (as *Service) ValidateRecoveryToken(tokenStr string) error {
	_, err := as.consumableToken(tokenStr, PurposeRecoverPassword)
	return err
}

// ResetPassword sets a new password and ends every session of the user.
func (as *Service) ResetPassword(tokenStr, password string) error {
	t, err := as.consumableToken(tokenStr, PurposeRecoverPassword)
	if err != nil {
		return err
	}
	if err := users.ValidatePasswordStrength(password); err != nil {
		return apperrors.Wrapf(apperrors.ErrBadRequest, "%s", err.Error())
	}
	user, err := as.repos.Users.GetByEmail(t.Email)
	if err != nil {
		return errors.Wrap(err, "[ResetPassword] GetByEmail")
	}
	if user.PasswordHash, err = users.HashPassword(password); err != nil {
		return errors.Wrap(err, "[ResetPassword] HashPassword")
	}
	if err := as.repos.Users.Upsert(user); err != nil {
		return errors.Wrap(err, "[ResetPassword] Upsert")
	}
	_ = as.repos.ActionTokens.Delete(t.Token)
	as.refreshes.DeleteForUser(user.ID)
	return nil
}

// UpdateProfile changes the user's own data after checking the current password.
func (as *Service) UpdateProfile(userID string, req model.UpdateUserRequest) (*users.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrBadRequest, "%s", err.Error())
	}
	user, err := as.repos.Users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return nil, UserPasswordsDontMatchErr
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Surname != nil {
		user.Surname = strings.TrimSpace(*req.Surname)
	}
	if req.NewPassword != nil {
		if err := users.ValidatePasswordStrength(*req.NewPassword); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrBadRequest, "%s", err.Error())
		}
		if user.PasswordHash, err = users.HashPassword(*req.NewPassword); err != nil {
			return nil, errors.Wrap(err, "[UpdateProfile] HashPassword")
		}
	}
	if err := as.repos.Users.Upsert(user); err != nil {
		return nil, errors.Wrap(err, "[UpdateProfile] Upsert")
	}
	return user, nil
}

func (as *Service) User(userID string) (*users.User, error) {
	return as.repos.Users.GetByID(userID)
}

func (as *Service) ListUsers() ([]*users.User, error) {
	return as.repos.Users.List(0, 0)
}

// AdminUpdateUser changes role and flags. Blocking a user drops their refresh token.
func (as *Service) AdminUpdateUser(userID string, update model.AdminUserUpdate) (*users.User, error) {
	user, err := as.repos.Users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if update.Role != nil {
		role := users.RoleType(*update.Role)
		if !role.Valid() {
			return nil, apperrors.Wrapf(apperrors.ErrBadRequest, "unknown role %q", *update.Role)
		}
		user.Role = role
	}
	if update.Blocked != nil {
		user.Blocked = *update.Blocked
		if user.Blocked {
			as.refreshes.DeleteForUser(user.ID)
		}
	}
	if update.Verified != nil {
		user.Verified = *update.Verified
	}
	if err := as.repos.Users.Upsert(user); err != nil {
		return nil, errors.Wrap(err, "[AdminUpdateUser] Upsert")
	}
	return user, nil
}

// SeedAdmin makes sure a verified admin with email exists.
func (as *Service) SeedAdmin(email, password string) (*users.User, error) {
	if user, err := as.repos.Users.GetByEmail(email); err == nil {
		return user, nil
	}
	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "[SeedAdmin] HashPassword")
	}
	user := &users.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Admin",
		Role:         users.RoleAdmin,
		Verified:     true,
		DateJoined:   as.nowTime(),
	}
	account, err := as.bank.OpenAccount(user.ID, user.Name)
	if err != nil {
		return nil, errors.Wrap(err, "[SeedAdmin] OpenAccount")
	}
	user.AccountID = account.ID
	if err := as.repos.Users.Upsert(user); err != nil {
		return nil, errors.Wrap(err, "[SeedAdmin] Upsert")
	}
	return user, nil
}

func (as *Service) checkCooldown(email string, purpose ActionPurpose) error {
	latest, err := as.repos.ActionTokens.Latest(email, purpose)
	if err != nil {
		return nil
	}
	if as.nowTime().Sub(latest.IssuedAt) < as.config.GetResendCooldown() {
		return ResendTooSoonErr
	}
	return nil
}

func (as *Service) sendActionToken(ctx context.Context, email string, purpose ActionPurpose) error {
	now := as.nowTime()
	t := &ActionToken{
		Token:    uuid.New().String(),
		Email:    email,
		Purpose:  purpose,
		IssuedAt: now,
	}
	subject := "Confirm your ArCash account"
	if purpose == PurposeRecoverPassword {
		t.ExpiresAt = now.Add(as.config.GetRecoveryTokenExpiry())
		subject = "Reset your ArCash password"
	}
	if err := as.repos.ActionTokens.Upsert(t); err != nil {
		return errors.Wrap(err, "[sendActionToken] Upsert")
	}
	if err := as.mailer.Send(ctx, email, subject, fmt.Sprintf("Your code is %s", t.Token)); err != nil {
		return errors.Wrap(err, "[sendActionToken] Send")
	}
	return nil
}

func (as *Service) consumableToken(tokenStr string, purpose ActionPurpose) (*ActionToken, error) {
	if tokenStr == "" {
		return nil, InvalidActionTokenErr
	}
	t, err := as.repos.ActionTokens.Get(tokenStr)
	if err != nil || t.Purpose != purpose {
		return nil, InvalidActionTokenErr
	}
	if !t.ExpiresAt.IsZero() && as.nowTime().After(t.ExpiresAt) {
		_ = as.repos.ActionTokens.Delete(t.Token)
		return nil, InvalidActionTokenErr
	}
	return t, nil
}
