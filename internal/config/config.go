// Package config loads the planner's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/varghesereji/VOPlanner/internal/site"
)

// Setups describes the observing run.
type Setups struct {
	Location string `yaml:"location" validate:"required"`
	Start    string `yaml:"start" validate:"required"`
	End      string `yaml:"end" validate:"required"`
	// IntervalHrs is checked by the time-grid builder, not here, so a zero
	// or negative interval surfaces as an invalid-interval error.
	IntervalHrs float64 `yaml:"interval_hrs"`
	AltMin      float64 `yaml:"alt_min" validate:"gte=-90,lte=90"`
	AltMax      float64 `yaml:"alt_max" default:"90" validate:"gte=-90,lte=90,gtfield=AltMin"`
}

// Inputs names the input files.
type Inputs struct {
	Targets string `yaml:"targets" validate:"required"`
}

// Resolver configures remote name resolution.
type Resolver struct {
	Enabled *bool         `yaml:"enabled" default:"true"`
	BaseURL string        `yaml:"base_url" default:"https://simbad.cds.unistra.fr/simbad/sim-tap/sync" validate:"url"`
	Timeout time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
}

// IsEnabled reports whether remote lookups are on.
func (r Resolver) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// Server configures the HTTP API.
type Server struct {
	Addr       string `yaml:"addr" default:":8080"`
	AuthToken  string `yaml:"auth_token"`
	TrustProxy bool   `yaml:"trust_proxy"`
	MaxTargets int    `yaml:"max_targets" default:"200" validate:"gt=0"`
	MaxSamples int    `yaml:"max_samples" default:"5000" validate:"gt=0"`

	// In-flight caps for resolve and plan requests.
	MaxInFlightPerIP int `yaml:"max_in_flight_per_ip" default:"2" validate:"gt=0"`
	MaxInFlight      int `yaml:"max_in_flight" default:"32" validate:"gt=0"`
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
}

// Metrics configures metric export for batch runs.
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// Config is the top-level configuration.
type Config struct {
	Setups   Setups                     `yaml:"setups"`
	Inputs   Inputs                     `yaml:"inputs"`
	Sites    map[string]site.Definition `yaml:"sites" validate:"dive"`
	Resolver Resolver                   `yaml:"resolver"`
	Server   Server                     `yaml:"server"`
	Log      Log                        `yaml:"log"`
	Metrics  Metrics                    `yaml:"metrics"`
}

var validate = validator.New()

// Default returns a configuration with every default applied.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config: defaults: %v", err))
	}
	return &c
}

// Load reads, defaults and validates a YAML configuration file. A relative
// inputs.targets path is resolved against the config file's directory.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c, err := Parse(b)
	if err != nil {
		return nil, err
	}

	if c.Inputs.Targets != "" && !filepath.IsAbs(c.Inputs.Targets) {
		c.Inputs.Targets = filepath.Join(filepath.Dir(path), c.Inputs.Targets)
	}
	return c, nil
}

// Parse decodes YAML bytes, applies defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Validate checks the sections every command needs.
func (c *Config) Validate() error {
	for _, section := range []any{c.Resolver, c.Server, c.Log} {
		if err := validate.Struct(section); err != nil {
			return describe(err)
		}
	}
	for id, d := range c.Sites {
		if err := validate.Struct(d); err != nil {
			return fmt.Errorf("sites.%s: %w", id, describe(err))
		}
	}
	return nil
}

// ValidatePlan checks the sections a planning run needs.
func (c *Config) ValidatePlan() error {
	if err := validate.Struct(c.Setups); err != nil {
		return fmt.Errorf("setups: %w", describe(err))
	}
	if err := validate.Struct(c.Inputs); err != nil {
		return fmt.Errorf("inputs: %w", describe(err))
	}
	return nil
}

// describe flattens validator errors into one readable error.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "gtfield":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid URL", field))
		default:
			if fe.Param() != "" {
				msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
			} else {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
			}
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// ApplyEnv overrides fields from VOPLANNER_* environment variables.
// Unparseable values are logged and ignored.
func (c *Config) ApplyEnv(logger *slog.Logger) {
	c.applyEnv(os.Getenv, logger)
}

func (c *Config) applyEnv(getenv func(string) string, logger *slog.Logger) {
	if v := getenv("VOPLANNER_LOCATION"); v != "" {
		c.Setups.Location = v
	}
	if v := getenv("VOPLANNER_START"); v != "" {
		c.Setups.Start = v
	}
	if v := getenv("VOPLANNER_END"); v != "" {
		c.Setups.End = v
	}
	if v := getenv("VOPLANNER_INTERVAL_HRS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			logger.Warn("invalid VOPLANNER_INTERVAL_HRS value, keeping configured value", "value", v, "configured", c.Setups.IntervalHrs)
		} else {
			c.Setups.IntervalHrs = f
		}
	}
	if v := getenv("VOPLANNER_TARGETS"); v != "" {
		c.Inputs.Targets = v
	}
	if v := getenv("VOPLANNER_RESOLVER_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid VOPLANNER_RESOLVER_ENABLED value, keeping configured value", "value", v)
		} else {
			c.Resolver.Enabled = &enabled
		}
	}
	if v := getenv("VOPLANNER_SIMBAD_URL"); v != "" {
		c.Resolver.BaseURL = v
	}
	if v := getenv("VOPLANNER_RESOLVER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			logger.Warn("invalid VOPLANNER_RESOLVER_TIMEOUT value, keeping configured value", "value", v, "configured", c.Resolver.Timeout.String())
		} else {
			c.Resolver.Timeout = d
		}
	}
	if v := getenv("VOPLANNER_HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("VOPLANNER_AUTH_TOKEN"); v != "" {
		c.Server.AuthToken = v
	}
	if v := getenv("VOPLANNER_LOG_LEVEL"); v != "" {
		switch strings.ToLower(v) {
		case "debug", "info", "warn", "error":
			c.Log.Level = strings.ToLower(v)
		default:
			logger.Warn("invalid VOPLANNER_LOG_LEVEL value, keeping configured value", "value", v, "configured", c.Log.Level)
		}
	}
	if v := getenv("VOPLANNER_METRICS_TEXTFILE"); v != "" {
		c.Metrics.Textfile = v
	}
}

// SlogLevel maps the configured level name to a slog.Level.
func (l Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
