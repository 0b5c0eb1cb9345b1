package refresh_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/arcash/internal/config"
	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/token/refresh"
	refreshrepofake "github.com/jrsteele09/arcash/token/refresh/repofake"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	refresh.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { refresh.NowTimeFunc = time.Now })

	m := refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), config.Token{RefreshTokenExpiry: time.Hour, RefreshTokenLength: 16})

	first, err := m.Create("user-1")
	require.NoError(t, err)
	require.Len(t, first, 32)

	rt, err := m.Validate(first)
	require.NoError(t, err)
	require.Equal(t, "user-1", rt.UserID)

	t.Run("one token per user", func(t *testing.T) {
		second, err := m.Create("user-1")
		require.NoError(t, err)
		require.NotEqual(t, first, second)

		_, err = m.Validate(first)
		require.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
		_, err = m.Validate(second)
		require.NoError(t, err)

		m.DeleteForUser("user-1")
		_, err = m.Validate(second)
		require.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("expiry", func(t *testing.T) {
		tok, err := m.Create("user-2")
		require.NoError(t, err)

		now = now.Add(time.Hour)
		_, err = m.Validate(tok)
		require.NoError(t, err)

		now = now.Add(time.Second)
		_, err = m.Validate(tok)
		require.ErrorIs(t, err, apperrors.ErrRefreshTokenExpired)
		_, err = m.Validate(tok)
		require.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := m.Validate("")
		require.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}
