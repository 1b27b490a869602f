package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/varghesereji/VOPlanner/internal/config"
	"github.com/varghesereji/VOPlanner/internal/resolver"
	"github.com/varghesereji/VOPlanner/internal/site"
)

var (
	logger *slog.Logger
	cfg    *config.Config

	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "voplanner",
	Short: "VOPlanner - target visibility planning for telescope runs",
	Long: `VOPlanner resolves a list of astronomical targets to sky positions and
computes their altitude over an observing window at a known observatory.

Targets come from a CSV table. Rows with usable RA/Dec are parsed locally;
the rest are looked up by name on SIMBAD.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file if one was given, applies VOPLANNER_*
// overrides and sets up the logger. Logs go to stderr so stdout carries
// only command output.
func loadConfig(path string) error {
	bootstrap := newLogger(os.Stderr, slog.LevelInfo)

	if path == "" {
		cfg = config.Default()
	} else {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	cfg.ApplyEnv(bootstrap)
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger = newLogger(os.Stderr, cfg.Log.SlogLevel()).With("run_id", uuid.NewString())
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// buildRegistry merges configured sites over the built-in ones.
func buildRegistry() (*site.Registry, error) {
	reg, err := site.NewRegistry(cfg.Sites)
	if err != nil {
		return nil, fmt.Errorf("site registry: %w", err)
	}
	return reg, nil
}

// buildResolver returns the SIMBAD client, or a stub when lookups are off.
func buildResolver() resolver.Resolver {
	if !cfg.Resolver.IsEnabled() {
		logger.Info("remote name resolution disabled")
		return resolver.Disabled{}
	}
	return resolver.NewSimbad(resolver.Config{
		BaseURL: cfg.Resolver.BaseURL,
		Timeout: cfg.Resolver.Timeout,
	}, logger)
}
