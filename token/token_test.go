package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-unique-login/token"
)

func TestIsValidBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tok := &token.Token{ExpiresAt: now}

	require.True(t, tok.IsValid(now.Add(-time.Second)), "before expiry should be valid")
	require.False(t, tok.IsValid(now), "exactly at expiry should be expired")
	require.False(t, tok.IsValid(now.Add(time.Second)), "after expiry should be expired")
}
