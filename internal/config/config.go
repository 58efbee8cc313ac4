package config

import (
	"errors"
	"fmt"
	"time"

	"procview/internal/logging"
	"procview/internal/table"

	"github.com/spf13/viper"
)

const envPrefix = "PROCVIEW"

// Keys understood in config files and as PROCVIEW_<KEY> environment variables.
const (
	KeyInterval   = "interval"
	KeySortBy     = "sort_by"
	KeyDescending = "descending"
	KeyColumns    = "columns"
	KeyLines      = "lines"
	KeyLogLevel   = "log_level"
	KeyLogFormat  = "log_format"
)

const (
	defaultInterval  = 700 * time.Millisecond
	defaultLines     = -1
	defaultLogLevel  = "warn"
	defaultLogFormat = logging.FormatConsole
)

// Config aggregates display defaults and logging settings.
type Config struct {
	Interval   time.Duration `mapstructure:"interval"`
	SortBy     string        `mapstructure:"sort_by"`
	Descending bool          `mapstructure:"descending"`
	Columns    []string      `mapstructure:"columns"`
	Lines      int           `mapstructure:"lines"`
	LogLevel   string        `mapstructure:"log_level"`
	LogFormat  string        `mapstructure:"log_format"`
}

// Default returns the built-in configuration.
func Default() Config {
	cols := make([]string, len(table.DefaultColumns))
	for i, c := range table.DefaultColumns {
		cols[i] = string(c)
	}
	return Config{
		Interval:  defaultInterval,
		SortBy:    string(table.DefaultSortBy),
		Columns:   cols,
		Lines:     defaultLines,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	}
}

// Load builds a Config from defaults, an optional YAML/JSON file and
// PROCVIEW_* environment overrides, in increasing precedence.
func Load(path string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetDefault(KeyInterval, def.Interval)
	v.SetDefault(KeySortBy, def.SortBy)
	v.SetDefault(KeyDescending, def.Descending)
	v.SetDefault(KeyColumns, def.Columns)
	v.SetDefault(KeyLines, def.Lines)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return def, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return def, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return def, err
	}
	return cfg, nil
}

// Validate rejects settings no component could run with.
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return errors.New("interval must be > 0")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return table.Validate(c.TableOptions())
}

// TableOptions converts the display settings into view options.
func (c Config) TableOptions() table.Options {
	cols := make([]table.Column, 0, len(c.Columns))
	for _, name := range c.Columns {
		cols = append(cols, table.Column(name))
	}
	return table.Options{
		SortBy:     table.Column(c.SortBy),
		Descending: c.Descending,
		Columns:    cols,
		Limit:      c.Lines,
	}
}
