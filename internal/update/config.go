package update

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"

	"github.com/sandeepkv93/playroom/internal/schedule"
)

const EnvPrefix = "PLAYROOM_"

type ClockMode string

const (
	ClockFull    ClockMode = "full"
	ClockMinimal ClockMode = "minimal"
)

type RuntimeConfig struct {
	DatabasePath    string        `koanf:"database_path"`
	TickInterval    time.Duration `koanf:"tick_interval"`
	ShowMagic       bool          `koanf:"show_magic"`
	SelectionPolicy string        `koanf:"selection_policy"`
	MagicRefresh    string        `koanf:"magic_refresh"`
	MagicTimeout    time.Duration `koanf:"magic_timeout"`
	ClockMode       string        `koanf:"clock_mode"`
	LogPath         string        `koanf:"log_path"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DatabasePath:    "playroom.db",
		TickInterval:    time.Second,
		ShowMagic:       true,
		SelectionPolicy: string(schedule.PolicyFirst),
		MagicRefresh:    schedule.DefaultRefreshSpec,
		MagicTimeout:    2 * time.Second,
		ClockMode:       string(ClockFull),
		LogPath:         "playroom.log",
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// LoadRuntimeConfig layers defaults, the optional YAML file at path and
// PLAYROOM_* environment variables, in that order.
func LoadRuntimeConfig(path string) (RuntimeConfig, error) {
	k := koanf.New(".")

	def := DefaultRuntimeConfig()
	if err := k.Load(confmap.Provider(map[string]any{
		"database_path":    def.DatabasePath,
		"tick_interval":    def.TickInterval.String(),
		"show_magic":       def.ShowMagic,
		"selection_policy": def.SelectionPolicy,
		"magic_refresh":    def.MagicRefresh,
		"magic_timeout":    def.MagicTimeout.String(),
		"clock_mode":       def.ClockMode,
		"log_path":         def.LogPath,
		"log_level":        def.LogLevel,
		"log_format":       def.LogFormat,
	}, "."), nil); err != nil {
		return RuntimeConfig{}, fmt.Errorf("load defaults: %w", err)
	}

	if path = strings.TrimSpace(path); path != "" {
		if _, err := os.Stat(path); err != nil {
			return RuntimeConfig{}, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return RuntimeConfig{}, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return RuntimeConfig{}, fmt.Errorf("load env: %w", err)
	}

	var cfg RuntimeConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

// parseClockMode folds case and surrounding space so "Minimal" and "minimal"
// select the same mode.
func parseClockMode(raw string) ClockMode {
	return ClockMode(strings.ToLower(strings.TrimSpace(raw)))
}

func (c RuntimeConfig) Validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, errors.New("tick_interval must be positive"))
	}
	if _, err := schedule.ParsePolicy(c.SelectionPolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := cron.ParseStandard(c.MagicRefresh); err != nil {
		errs = append(errs, fmt.Errorf("magic_refresh: %w", err))
	}
	switch parseClockMode(c.ClockMode) {
	case ClockFull, ClockMinimal:
	default:
		errs = append(errs, fmt.Errorf("clock_mode must be full or minimal, got %q", c.ClockMode))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
