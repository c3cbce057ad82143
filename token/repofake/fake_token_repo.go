// Package tokenrepofake provides an in-memory token.Repo. It backs the
// "memory" storage mode and the test suites; the mutex makes every
// operation atomic, so the delete-count race semantics match the real
// stores.
package tokenrepofake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-unique-login/internal/errors"
	"github.com/jrsteele09/go-unique-login/token"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

type FakeTokenRepo struct {
	tokens map[string]token.Token // keyed by value
	lock   sync.RWMutex
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{
		tokens: make(map[string]token.Token),
	}
}

func (r *FakeTokenRepo) Insert(_ context.Context, t *token.Token) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.tokens[t.Value]; ok {
		return errors.ErrDuplicateValue
	}

	t.ID = uuid.NewString()
	r.tokens[t.Value] = *t
	return nil
}

func (r *FakeTokenRepo) GetByValue(_ context.Context, value string) (*token.Token, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	t, ok := r.tokens[value]
	if !ok {
		return nil, errors.ErrTokenNotFound
	}
	return &t, nil
}

func (r *FakeTokenRepo) GetValidByValue(_ context.Context, value string, now time.Time) (*token.Token, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	t, ok := r.tokens[value]
	if !ok || !t.IsValid(now) {
		return nil, errors.ErrTokenNotFound
	}
	return &t, nil
}

func (r *FakeTokenRepo) DeleteByValue(_ context.Context, value string) (int64, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.tokens[value]; !ok {
		return 0, nil
	}
	delete(r.tokens, value)
	return 1, nil
}

func (r *FakeTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	var removed int64
	for value, t := range r.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.tokens, value)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored tokens. Test helper.
func (r *FakeTokenRepo) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.tokens)
}
