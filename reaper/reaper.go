// Package reaper removes expired, unredeemed tokens. It only ever touches
// rows whose expiry has already passed, so it is safe to run concurrently
// with issuance and redemption.
package reaper

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-unique-login/token"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type Reaper struct {
	repo     token.Repo
	interval time.Duration
}

// NewReaper creates a reaper over the given token store. The interval is
// only used by Run; one-shot callers (the CLI / cron entry point) call
// Reap directly.
func NewReaper(repo token.Repo, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Reaper{
		repo:     repo,
		interval: interval,
	}
}

// Reap deletes every token whose expiry is before now and returns the
// number removed.
func (r *Reaper) Reap(ctx context.Context, now time.Time) (int64, error) {
	return r.repo.DeleteExpired(ctx, now)
}

// Run reaps on a fixed interval until the context is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := r.Reap(ctx, NowTimeFunc())
			if err != nil {
				log.Err(err).Msg("Token reaping failed")
				continue
			}
			if count > 0 {
				log.Info().Int64("count", count).Msg("Reaped expired login tokens")
			}
		}
	}
}
