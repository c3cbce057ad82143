// Package token implements the unique login token lifecycle: issuance,
// storage contract, and expiry rules. A token is an opaque single-use
// credential bound to a subject; redemption consumes it (see the auth
// package) and the reaper removes expired leftovers.
package token

import "time"

// Token is the stored representation of a unique login link. Tokens are
// immutable once stored: they are created by the Manager and only ever
// removed, never updated.
type Token struct {
	ID        string    // Store-assigned surrogate key, never exposed externally
	Value     string    // High-entropy public identifier, unique across all tokens
	SubjectID string    // The user this token authenticates as (opaque to the core)
	ExpiresAt time.Time // Absolute expiry; fixed at creation, never extended
	CreatedAt time.Time // Issuance time, for audit/ordering only
}

// IsValid reports whether the token is still redeemable at the given time.
// The boundary is strict: a token whose expiry equals now is already expired.
func (t *Token) IsValid(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}
