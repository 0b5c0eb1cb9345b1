package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jrsteele09/arcash/internal/config"
	apperrors "github.com/jrsteele09/arcash/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Manager handles refresh token creation and validation
type Manager struct {
	repo   Repo
	config config.TokenConfig
}

// NewManager creates a new refresh token manager
func NewManager(repo Repo, cfg config.TokenConfig) *Manager {
	return &Manager{
		repo:   repo,
		config: cfg,
	}
}

// Create generates a new refresh token and stores it
func (m *Manager) Create(userID string) (string, error) {
	// single refresh token per user
	if existingToken, err := m.repo.GetByUserID(userID); err == nil && existingToken != nil {
		if err := m.repo.Delete(existingToken.Token); err != nil {
			return "", fmt.Errorf("failed to delete existing refresh token: %w", err)
		}
	}

	tokenBytes := make([]byte, m.config.GetRefreshTokenLength())
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.repo.Upsert(&StoredRefreshToken{
		Token:  tokenStr,
		UserID: userID,
		Iat:    NowTimeFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return tokenStr, nil
}

// Validate returns the stored token. Expired tokens are deleted and reported as
// ErrRefreshTokenExpired.
func (m *Manager) Validate(token string) (*StoredRefreshToken, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	rt, err := m.repo.Get(token)
	if err != nil {
		return nil, err
	}
	if m.IsExpired(rt) {
		_ = m.repo.Delete(token)
		return nil, apperrors.ErrRefreshTokenExpired
	}
	return rt, nil
}

// Delete removes a refresh token from storage
func (m *Manager) Delete(token string) error {
	return m.repo.Delete(token)
}

// DeleteForUser removes the user's refresh token, if any.
func (m *Manager) DeleteForUser(userID string) {
	if rt, err := m.repo.GetByUserID(userID); err == nil && rt != nil {
		_ = m.repo.Delete(rt.Token)
	}
}

// IsExpired checks if a refresh token has expired
func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return NowTimeFunc().Sub(rt.Iat) > m.config.GetRefreshTokenExpiry()
}
