package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// ErrInvalid is returned by Load when a configured value is out of range.
var ErrInvalid = errors.New("invalid configuration")

// Output formats accepted by the output key.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// LayoutConfig holds the layout optimizer knobs.
type LayoutConfig struct {
	MaxRowChanges           int  `mapstructure:"max_row_changes"`
	PreserveWBSGrouping     bool `mapstructure:"preserve_wbs_grouping"`
	PreserveCriticalPath    bool `mapstructure:"preserve_critical_path"`
	MinGapDuration          int  `mapstructure:"min_gap_duration"`
	MaxConcurrentActivities int  `mapstructure:"max_concurrent_activities"`
	TimeWindowDays          int  `mapstructure:"time_window_days"`
	MaxPairs                int  `mapstructure:"max_pairs"`
}

// Config holds all runtime configuration for a planworks invocation.
// Values are populated from .planworks.yaml, PLANWORKS_* env vars, and CLI flags.
type Config struct {
	MaxIterations int          `mapstructure:"max_iterations"`
	StorePath     string       `mapstructure:"store_path"`
	TelemetryPath string       `mapstructure:"telemetry_path"`
	Output        string       `mapstructure:"output"`
	Width         int          `mapstructure:"width"`
	Color         bool         `mapstructure:"color"`
	Verbose       bool         `mapstructure:"verbose"`
	Layout        LayoutConfig `mapstructure:"layout"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("max_iterations", 100)
	viper.SetDefault("store_path", ".planworks/projects.db")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("output", OutputTable)
	viper.SetDefault("width", 100)
	viper.SetDefault("color", true)
	viper.SetDefault("verbose", false)
	viper.SetDefault("layout.max_row_changes", 100)
	viper.SetDefault("layout.preserve_wbs_grouping", true)
	viper.SetDefault("layout.preserve_critical_path", true)
	viper.SetDefault("layout.min_gap_duration", 1)
	viper.SetDefault("layout.max_concurrent_activities", 3)
	viper.SetDefault("layout.time_window_days", 30)
	viper.SetDefault("layout.max_pairs", 10000)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.MaxIterations < 1 {
		return fmt.Errorf("config: max_iterations %d must be at least 1: %w", c.MaxIterations, ErrInvalid)
	}
	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("config: output %q must be %q or %q: %w", c.Output, OutputTable, OutputJSON, ErrInvalid)
	}
	if c.Width < 20 {
		return fmt.Errorf("config: width %d must be at least 20: %w", c.Width, ErrInvalid)
	}
	return nil
}
