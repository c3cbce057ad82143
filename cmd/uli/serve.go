package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-unique-login/auth"
	"github.com/jrsteele09/go-unique-login/internal/config"
	"github.com/jrsteele09/go-unique-login/reaper"
	"github.com/jrsteele09/go-unique-login/server"
	"github.com/jrsteele09/go-unique-login/sessions"
	"github.com/jrsteele09/go-unique-login/users/jsonfile"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the unique login HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	ctx := cmd.Context()

	displayAppname(cfg.GetAppName())

	directory, err := jsonfile.Load(cfg.GetUsersFile())
	if err != nil {
		return err
	}

	repo, closeRepo, err := openTokenRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	srv, err := server.New(cfg, auth.Repos{Tokens: repo, Users: directory}, sessions.NewManager(cfg))
	if err != nil {
		return err
	}

	reaperCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go reaper.NewReaper(repo, cfg.GetReapInterval()).Run(reaperCtx)

	httpServer := &http.Server{Addr: cfg.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("Server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
