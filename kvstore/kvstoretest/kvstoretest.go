// Package kvstoretest holds behaviour tests every kvstore.Store must pass.
package kvstoretest

import (
	"context"
	"testing"

	"github.com/jrsteele09/arcash/kvstore"
	"github.com/stretchr/testify/require"
)

// Run exercises store created by newStore. Each sub-test gets a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) kvstore.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		v, ok, err := s.Get(ctx, "arcash_token")
		require.NoError(t, err)
		require.False(t, ok)
		require.Nil(t, v)
	})

	t.Run("set get overwrite", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "arcash_token", []byte("one")))
		require.NoError(t, s.Set(ctx, "arcash_token", []byte("two")))
		v, ok, err := s.Get(ctx, "arcash_token")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "two", string(v))
	})

	t.Run("empty key rejected", func(t *testing.T) {
		s := newStore(t)
		require.ErrorIs(t, s.Set(ctx, "", []byte("x")), kvstore.ErrEmptyKey)
		_, _, err := s.Get(ctx, "")
		require.ErrorIs(t, err, kvstore.ErrEmptyKey)
		require.ErrorIs(t, s.Delete(ctx, ""), kvstore.ErrEmptyKey)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "arcash_role", []byte("USER")))
		require.NoError(t, s.Delete(ctx, "arcash_role"))
		require.NoError(t, s.Delete(ctx, "arcash_role"))
		_, ok, err := s.Get(ctx, "arcash_role")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("prefix scan and delete", func(t *testing.T) {
		s := newStore(t)
		for _, k := range []string{"arcash_token", "arcash_cache_favorites", "arcash_cache_transactions_7", "other_key", "arcash"} {
			require.NoError(t, s.Set(ctx, k, []byte(k)))
		}

		keys, err := s.Keys(ctx, "arcash_cache_")
		require.NoError(t, err)
		require.Equal(t, []string{"arcash_cache_favorites", "arcash_cache_transactions_7"}, keys)

		removed, err := s.DeletePrefix(ctx, "arcash_")
		require.NoError(t, err)
		require.Equal(t, 3, removed)

		keys, err = s.Keys(ctx, "")
		require.NoError(t, err)
		require.Equal(t, []string{"arcash", "other_key"}, keys)
	})

	t.Run("prefix with like wildcards is literal", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "a%b", []byte("1")))
		require.NoError(t, s.Set(ctx, "axb", []byte("2")))
		keys, err := s.Keys(ctx, "a%")
		require.NoError(t, err)
		require.Equal(t, []string{"a%b"}, keys)
	})
}
