package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nemanja-m/chunkstat/pkg/chunk"
)

// WorkerConfig contains all configuration for the chunk worker service.
type WorkerConfig struct {
	Server     ServerConfig  `mapstructure:"server"`
	Year       int           `mapstructure:"year"`
	BufferSize int           `mapstructure:"buffer_size"`
	Logging    LoggingConfig `mapstructure:"logging"`
}

// ServerConfig contains worker server configuration.
type ServerConfig struct {
	Addr             string        `mapstructure:"addr"`
	KeepaliveMinTime time.Duration `mapstructure:"keepalive_min_time"`
}

var workerFlags = map[string]string{
	"addr":        "server.addr",
	"year":        "year",
	"buffer-size": "buffer_size",
	"log-level":   "logging.level",
	"log-format":  "logging.format",
}

// LoadWorker loads the worker configuration from the given path.
// If configPath is empty, it looks for worker.yaml in the config/ directory.
// Environment variables with CHUNKSTAT_ prefix override config file values.
func LoadWorker(configPath string, flags *pflag.FlagSet) (*WorkerConfig, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":50051")
	v.SetDefault("server.keepalive_min_time", 30*time.Second)
	v.SetDefault("year", time.Now().Year())
	v.SetDefault("buffer_size", chunk.DefaultBufferSize)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	var cfg WorkerConfig
	if err := load(v, configPath, "worker", flags, workerFlags, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *WorkerConfig) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must be set"))
	}
	if c.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("buffer_size must be > 0, got %d", c.BufferSize))
	}
	if err := validateYear(c.Year); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
