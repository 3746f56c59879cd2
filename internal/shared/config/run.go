package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nemanja-m/chunkstat/pkg/chunk"
)

// RunConfig contains all configuration for a statistics run.
type RunConfig struct {
	Input      string        `mapstructure:"input"`
	Year       int           `mapstructure:"year"`
	ChunkSize  int           `mapstructure:"chunk_size"`
	Workers    int           `mapstructure:"workers"`
	BufferSize int           `mapstructure:"buffer_size"`
	Tasks      []string      `mapstructure:"tasks"`
	Output     string        `mapstructure:"output"`
	Remote     RemoteConfig  `mapstructure:"remote"`
	Logging    LoggingConfig `mapstructure:"logging"`
}

// RemoteConfig lists chunk workers to dispatch to. An empty list runs
// every chunk in process.
type RemoteConfig struct {
	Workers []string      `mapstructure:"workers"`
	Timeout time.Duration `mapstructure:"timeout"`
}

var runFlags = map[string]string{
	"input":          "input",
	"year":           "year",
	"chunk-size":     "chunk_size",
	"workers":        "workers",
	"buffer-size":    "buffer_size",
	"tasks":          "tasks",
	"output":         "output",
	"remote-workers": "remote.workers",
	"remote-timeout": "remote.timeout",
	"log-level":      "logging.level",
	"log-format":     "logging.format",
}

// LoadRun loads the run configuration from the given path.
// If configPath is empty, it looks for chunkstat.yaml in the config/ directory.
// Environment variables with CHUNKSTAT_ prefix override config file values,
// and flags set on the command line override both.
func LoadRun(configPath string, flags *pflag.FlagSet) (*RunConfig, error) {
	v := viper.New()

	v.SetDefault("input", "")
	v.SetDefault("year", time.Now().Year())
	v.SetDefault("chunk_size", chunk.DefaultChunkSize)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("buffer_size", chunk.DefaultBufferSize)
	v.SetDefault("tasks", []string{})
	v.SetDefault("output", "text")
	v.SetDefault("remote.workers", []string{})
	v.SetDefault("remote.timeout", 5*time.Minute)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	var cfg RunConfig
	if err := load(v, configPath, "chunkstat", flags, runFlags, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *RunConfig) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("input must be set"))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be > 0, got %d", c.ChunkSize))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be > 0, got %d", c.Workers))
	}
	if c.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("buffer_size must be > 0, got %d", c.BufferSize))
	}
	if err := validateYear(c.Year); err != nil {
		errs = append(errs, err)
	}
	switch c.Output {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q (use text or json)", c.Output))
	}
	return errors.Join(errs...)
}

func validateYear(year int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("year must be in [1, 9999], got %d", year)
	}
	return nil
}
