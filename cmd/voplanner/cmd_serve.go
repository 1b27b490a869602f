package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/varghesereji/VOPlanner/internal/api"
	"github.com/varghesereji/VOPlanner/internal/auth"
	"github.com/varghesereji/VOPlanner/internal/planner"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the planner over HTTP. Health, readiness, metrics and the site list
are public; parse, resolve and plan require a bearer token when
server.auth_token (or VOPLANNER_AUTH_TOKEN) is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(configPath); err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	reg, err := buildRegistry()
	if err != nil {
		return err
	}
	res := buildResolver()
	plans := planner.New(reg, res, logger, planner.WithMaxSamples(cfg.Server.MaxSamples))

	authCfg := auth.Config{Token: cfg.Server.AuthToken}
	srv := api.NewServer(api.Options{
		Addr:       cfg.Server.Addr,
		Auth:       authCfg,
		TrustProxy: cfg.Server.TrustProxy,
		MaxTargets: cfg.Server.MaxTargets,

		MaxInFlightPerIP: cfg.Server.MaxInFlightPerIP,
		MaxInFlight:      cfg.Server.MaxInFlight,
	}, plans, reg, res, logger)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr, "auth_enabled", authCfg.Enabled(), "sites", len(reg.IDs()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
