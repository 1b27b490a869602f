package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/varghesereji/VOPlanner/internal/metrics"
	"github.com/varghesereji/VOPlanner/internal/planner"
	"github.com/varghesereji/VOPlanner/internal/targets"
)

var planFormat string

var planCmd = &cobra.Command{
	Use:   "plan [config]",
	Short: "Resolve the target table and compute visibility for the run",
	Long: `Run a batch plan described by a YAML configuration file.

The setups section names the site, the local start and end times
("YYYY-MM-DD HH:MM:SS") and the sampling interval in hours. The inputs
section points at the CSV target table.

Examples:
  voplanner plan run.yaml
  voplanner plan run.yaml --format json
  VOPLANNER_LOCATION=subaru voplanner plan --config run.yaml
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planFormat, "format", "f", "text", "Output format (text, json)")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.New("a configuration file is required")
	}
	if planFormat != "text" && planFormat != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", planFormat)
	}

	if err := loadConfig(path); err != nil {
		return err
	}
	if err := cfg.ValidatePlan(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	records, err := targets.LoadFile(cfg.Inputs.Targets)
	if err != nil {
		return err
	}
	logger.Info("target table loaded", "path", cfg.Inputs.Targets, "targets", len(records))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := planner.New(reg, buildResolver(), logger)
	plan, err := p.Run(ctx, planner.Request{
		Site:          cfg.Setups.Location,
		Start:         cfg.Setups.Start,
		End:           cfg.Setups.End,
		IntervalHours: cfg.Setups.IntervalHrs,
		MinAltitude:   cfg.Setups.AltMin,
		MaxAltitude:   cfg.Setups.AltMax,
		Targets:       records,
	})
	if err != nil {
		return err
	}

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("writing metrics textfile failed", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	out := cmd.OutOrStdout()
	if planFormat == "json" {
		return writePlanJSON(out, plan)
	}
	return writePlanText(out, plan)
}
