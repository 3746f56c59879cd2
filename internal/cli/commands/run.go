package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nemanja-m/chunkstat/internal/remote"
	"github.com/nemanja-m/chunkstat/internal/report"
	"github.com/nemanja-m/chunkstat/internal/shared/config"
	"github.com/nemanja-m/chunkstat/internal/shared/logging"
	"github.com/nemanja-m/chunkstat/pkg/local"
	"github.com/nemanja-m/chunkstat/pkg/tasks"
)

// NewRunCommand creates the run command. Flag values override the config
// file and CHUNKSTAT_* environment variables.
func NewRunCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run [input]",
		Short: "Compute statistics over syslog files",
		Long: `Compute statistics over one or more syslog files.

The input is a file path or a doublestar pattern (e.g. "logs/**/*.log").
Every matching file is split into chunks of --chunk-size lines which are
processed on --workers goroutines, or on remote chunk workers when
--remote-workers is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("input", args[0]); err != nil {
					return err
				}
			}
			return runRun(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringP("input", "i", "", "Input file or pattern")
	cmd.Flags().Int("year", 0, "Year of the records (default current year)")
	cmd.Flags().Int("chunk-size", 0, "Lines per chunk (default 102400)")
	cmd.Flags().IntP("workers", "w", 0, "Number of local workers (default number of CPUs)")
	cmd.Flags().Int("buffer-size", 0, "Maximum line length in bytes (default 1MiB)")
	cmd.Flags().StringSliceP("tasks", "t", nil, "Statistics to compute: "+strings.Join(tasks.Names(), ", ")+" (default all)")
	cmd.Flags().StringP("output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringSlice("remote-workers", nil, "Addresses of chunk workers")
	cmd.Flags().Duration("remote-timeout", 0, "Per-chunk timeout for remote workers (default 5m)")
	cmd.Flags().String("log-level", "info", "Log level (debug|info|warn|error)")
	cmd.Flags().String("log-format", "text", "Log format (text|json)")

	return cmd
}

func runRun(cmd *cobra.Command, configPath string) error {
	cfg, err := config.LoadRun(configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}

	kinds, err := tasks.ParseKinds(cfg.Tasks)
	if err != nil {
		return err
	}

	formatter, err := report.New(cfg.Output)
	if err != nil {
		return err
	}

	engineCfg := local.Config{
		Inputs:     []string{cfg.Input},
		Kinds:      kinds,
		NumWorkers: cfg.Workers,
		ChunkSize:  cfg.ChunkSize,
		Year:       cfg.Year,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
	}

	if len(cfg.Remote.Workers) > 0 {
		client, err := remote.NewClient(cfg.Remote.Workers, cfg.Remote.Timeout)
		if err != nil {
			return err
		}
		defer client.Close()
		engineCfg.Runner = client
		logger.Info("Dispatching chunks to remote workers", "workers", cfg.Remote.Workers)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := local.NewEngine(engineCfg).Run(ctx)
	if err != nil {
		return err
	}
	return formatter.Format(cmd.OutOrStdout(), rep)
}

func newLogger(cfg config.LoggingConfig) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(os.Stderr, level, cfg.Format)
}
