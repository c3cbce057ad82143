// Command uli issues, redeems and reaps unique login links.
//
//	uli generate <user_id>   issue a one-time login link for a user
//	uli reap                 remove expired, unredeemed tokens (cron entry point)
//	uli serve                run the HTTP redemption server
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-unique-login/internal/config"
	"github.com/jrsteele09/go-unique-login/internal/logging"
	"github.com/jrsteele09/go-unique-login/token"
	"github.com/jrsteele09/go-unique-login/token/postgresrepo"
	"github.com/jrsteele09/go-unique-login/token/redisrepo"
	tokenrepofake "github.com/jrsteele09/go-unique-login/token/repofake"
)

var rootCmd = &cobra.Command{
	Use:           "uli",
	Short:         "Unique login links: one-time, time-limited login tokens",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		c := config.New()
		logging.Setup(c.GetEnv(), c.GetLogFile())
	},
}

func main() {
	rootCmd.AddCommand(generateCmd, reapCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// openTokenRepo builds the token store selected by the STORAGE env var and
// returns it together with a close function.
func openTokenRepo(ctx context.Context, cfg config.Config) (token.Repo, func(), error) {
	switch cfg.GetStorageBackend() {
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.GetRedisAddr()})
		return redisrepo.NewRedisTokenRepo(client, cfg.GetRedisKeyPrefix()), func() { _ = client.Close() }, nil

	case config.StoragePostgres:
		repo, err := postgresrepo.Open(ctx, cfg.GetDatabaseDSN())
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil

	default:
		// Process-local store; only useful for development and for the
		// serve mode, since tokens do not survive the process.
		return tokenrepofake.NewFakeTokenRepo(), func() {}, nil
	}
}
