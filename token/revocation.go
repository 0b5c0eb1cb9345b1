package token

import (
	"sync"
	"time"
)

// RevocationList remembers the jti of access tokens ended by a logout until they would
// have expired on their own.
type RevocationList interface {
	Revoke(jti string, expiresAt time.Time)
	IsRevoked(jti string) bool
	// Prune forgets expired entries and reports how many were removed.
	Prune() int
}

type memoryRevocationList struct {
	mu      sync.RWMutex
	expires map[string]time.Time // jti to token expiry
	nowFunc func() time.Time
}

// NewMemoryRevocationList keeps revocations in process memory. They are lost on restart,
// which only matters for tokens younger than the access token expiry.
func NewMemoryRevocationList(now func() time.Time) RevocationList {
	if now == nil {
		now = time.Now
	}
	return &memoryRevocationList{
		expires: map[string]time.Time{},
		nowFunc: now,
	}
}

// Revoke records jti. A token that has already expired is rejected by Verify anyway and is not stored.
func (l *memoryRevocationList) Revoke(jti string, expiresAt time.Time) {
	if jti == "" || !l.nowFunc().Before(expiresAt) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expires[jti] = expiresAt
}

func (l *memoryRevocationList) IsRevoked(jti string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.expires[jti]
	return ok
}

func (l *memoryRevocationList) Prune() int {
	now := l.nowFunc()
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for jti, exp := range l.expires {
		if now.After(exp) {
			delete(l.expires, jti)
			removed++
		}
	}
	return removed
}
