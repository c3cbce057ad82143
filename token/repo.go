package token

import (
	"context"
	"time"
)

// Repo is the token store: durable keyed persistence with insert,
// lookup-by-value and conditional delete. All mutation goes through the
// store's atomic primitives; in particular DeleteByValue is the sole
// serialization point for the single-use guarantee, so implementations must
// perform a single conditional delete and report how many rows it removed,
// never a read-then-delete pair.
type Repo interface {
	// Insert stores a freshly issued token and assigns its ID. Returns
	// errors.ErrDuplicateValue if a token with the same value already exists.
	Insert(ctx context.Context, t *Token) error

	// GetByValue returns the token with the given value regardless of
	// expiry, or errors.ErrTokenNotFound. Callers use it to distinguish
	// "never existed" from "expired" for observability.
	GetByValue(ctx context.Context, value string) (*Token, error)

	// GetValidByValue returns the token only if now is before its expiry;
	// otherwise errors.ErrTokenNotFound, even if a row exists.
	GetValidByValue(ctx context.Context, value string, now time.Time) (*Token, error)

	// DeleteByValue removes at most one token and returns 0 or 1. A missing
	// value is not an error. Exactly one concurrent caller observes 1.
	DeleteByValue(ctx context.Context, value string) (int64, error)

	// DeleteExpired removes every token whose expiry has passed and returns
	// the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
