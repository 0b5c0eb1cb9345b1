package fakeactiontokenrepo

import (
	"strings"
	"sync"

	"github.com/jrsteele09/arcash/auth"
	apperrors "github.com/jrsteele09/arcash/internal/errors"
)

var _ auth.ActionTokenRepo = (*FakeActionTokenRepo)(nil)

type FakeActionTokenRepo struct {
	tokens map[string]*auth.ActionToken
	lock   sync.RWMutex
}

func NewFakeActionTokenRepo() auth.ActionTokenRepo {
	return &FakeActionTokenRepo{
		tokens: make(map[string]*auth.ActionToken),
	}
}

func (r *FakeActionTokenRepo) Upsert(token *auth.ActionToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	stored := *token
	r.tokens[token.Token] = &stored
	return nil
}

func (r *FakeActionTokenRepo) Delete(token string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.tokens[token]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r *FakeActionTokenRepo) Get(token string) (*auth.ActionToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (r *FakeActionTokenRepo) Latest(email string, purpose auth.ActionPurpose) (*auth.ActionToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	var latest *auth.ActionToken
	for _, t := range r.tokens {
		if t.Purpose != purpose || !strings.EqualFold(t.Email, email) {
			continue
		}
		if latest == nil || t.IssuedAt.After(latest.IssuedAt) {
			latest = t
		}
	}
	if latest == nil {
		return nil, apperrors.ErrNotFound
	}
	c := *latest
	return &c, nil
}
