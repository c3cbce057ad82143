package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-unique-login/internal/config"
	"github.com/jrsteele09/go-unique-login/reaper"
)

var reapCmd = &cobra.Command{
	Use:   "reap",
	Short: "Delete expired, unredeemed login tokens",
	Long: `
Removes every token whose expiry has passed. Intended to be run from cron;
safe to run while the server is issuing and redeeming tokens.
`,
	Args: cobra.NoArgs,
	RunE: runReap,
}

func runReap(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	ctx := cmd.Context()

	repo, closeRepo, err := openTokenRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	count, err := reaper.NewReaper(repo, cfg.GetReapInterval()).Reap(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("reaping failed: %w", err)
	}

	fmt.Printf("Removed %d expired login token(s)\n", count)
	log.Info().Int64("count", count).Msg("Reaped expired login tokens")
	return nil
}
