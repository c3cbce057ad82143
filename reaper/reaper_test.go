package reaper_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-unique-login/internal/errors"
	"github.com/jrsteele09/go-unique-login/reaper"
	"github.com/jrsteele09/go-unique-login/token"
	tokenrepofake "github.com/jrsteele09/go-unique-login/token/repofake"
)

func TestReapRemovesAllAndOnlyExpired(t *testing.T) {
	repo := tokenrepofake.NewFakeTokenRepo()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tokens := map[string]time.Time{
		"expired-1": now.Add(-25 * time.Hour),
		"expired-2": now.Add(-time.Second),
		"boundary":  now,
		"live":      now.Add(time.Hour),
	}
	for value, expiry := range tokens {
		require.NoError(t, repo.Insert(ctx, &token.Token{
			Value:     value,
			SubjectID: "42",
			ExpiresAt: expiry,
			CreatedAt: now.Add(-48 * time.Hour),
		}))
	}

	count, err := reaper.NewReaper(repo, time.Hour).Reap(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	for _, value := range []string{"expired-1", "expired-2"} {
		_, err := repo.GetByValue(ctx, value)
		require.ErrorIs(t, err, errors.ErrTokenNotFound)
	}
	for _, value := range []string{"boundary", "live"} {
		_, err := repo.GetByValue(ctx, value)
		require.NoError(t, err, "tokens with expiresAt >= now are untouched")
	}
}

func TestReapEmptyStore(t *testing.T) {
	repo := tokenrepofake.NewFakeTokenRepo()

	count, err := reaper.NewReaper(repo, time.Hour).Reap(context.Background(), time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}
