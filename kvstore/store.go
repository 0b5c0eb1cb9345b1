// Package kvstore defines the persistent key-value storage the client keeps its
// session and cache state in.
package kvstore

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned when an operation is given an empty key.
var ErrEmptyKey = errors.New("key is required")

// Store is a string-keyed byte store with prefix scans.
type Store interface {
	// Get returns the value for key and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set creates or replaces the value for key
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the keys starting with prefix in lexical order
	Keys(ctx context.Context, prefix string) ([]string, error)

	// DeletePrefix removes every key starting with prefix and returns how many were removed
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}
