package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-unique-login/internal/config"
	"github.com/jrsteele09/go-unique-login/internal/errors"
	"github.com/jrsteele09/go-unique-login/server"
	"github.com/jrsteele09/go-unique-login/token"
	"github.com/jrsteele09/go-unique-login/users/jsonfile"
)

var generateCmd = &cobra.Command{
	Use:   "generate <user_id>",
	Short: "Generate a unique login link for a user",
	Long: `
Generates a one-time login link for the specified user ID. The link expires
after the configured TTL (default: 24 hours) and can be redeemed exactly once.
`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	userID := args[0]
	if n, err := strconv.Atoi(userID); err != nil || n <= 0 {
		return fmt.Errorf("user ID must be a positive integer")
	}

	cfg := config.New()
	ctx := cmd.Context()

	directory, err := jsonfile.Load(cfg.GetUsersFile())
	if err != nil {
		return err
	}

	repo, closeRepo, err := openTokenRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	if cfg.GetStorageBackend() == config.StorageMemory {
		log.Warn().Msg("STORAGE=memory: generated token will not survive this process")
	}

	manager := token.NewManager(repo, directory, cfg)
	t, err := manager.Issue(ctx, userID, cfg.GetTokenTTL())
	if err != nil {
		if errors.Is(err, errors.ErrUnknownSubject) {
			return fmt.Errorf("user with ID %s not found", userID)
		}
		return fmt.Errorf("failed to generate unique login link: %w", err)
	}

	user, err := directory.GetByID(userID)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s%s?hash=%s", strings.TrimRight(cfg.GetBaseURL(), "/"), server.RouteUniqueLogin, t.Value)

	fmt.Println("Unique login link generated successfully!")
	fmt.Printf("User: %s (%s)\n", user.Name, user.Username)
	fmt.Printf("Expires: %s\n", t.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("URL: %s\n", url)

	log.Info().
		Str("user_id", userID).
		Str("username", user.Username).
		Time("expires", t.ExpiresAt).
		Msg("Unique login link generated")

	return nil
}
