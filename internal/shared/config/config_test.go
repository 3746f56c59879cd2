package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/nemanja-m/chunkstat/pkg/chunk"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunkstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRun_Defaults(t *testing.T) {
	path := writeConfig(t, "input: /var/log/*.log\n")

	cfg, err := LoadRun(path, nil)
	require.NoError(t, err)

	require.Equal(t, "/var/log/*.log", cfg.Input)
	require.Equal(t, time.Now().Year(), cfg.Year)
	require.Equal(t, chunk.DefaultChunkSize, cfg.ChunkSize)
	require.Equal(t, runtime.NumCPU(), cfg.Workers)
	require.Equal(t, chunk.DefaultBufferSize, cfg.BufferSize)
	require.Empty(t, cfg.Tasks)
	require.Equal(t, "text", cfg.Output)
	require.Empty(t, cfg.Remote.Workers)
	require.Equal(t, 5*time.Minute, cfg.Remote.Timeout)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRun_FileValues(t *testing.T) {
	path := writeConfig(t, `
input: data/*.log
year: 2021
chunk_size: 500
workers: 3
tasks: [time-range, severity-count]
output: json
remote:
  workers: ["w1:50051", "w2:50051"]
  timeout: 30s
logging:
  level: debug
  format: json
`)

	cfg, err := LoadRun(path, nil)
	require.NoError(t, err)

	require.Equal(t, 2021, cfg.Year)
	require.Equal(t, 500, cfg.ChunkSize)
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, []string{"time-range", "severity-count"}, cfg.Tasks)
	require.Equal(t, "json", cfg.Output)
	require.Equal(t, []string{"w1:50051", "w2:50051"}, cfg.Remote.Workers)
	require.Equal(t, 30*time.Second, cfg.Remote.Timeout)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRun_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "input: a.log\nchunk_size: 500\n")
	t.Setenv("CHUNKSTAT_CHUNK_SIZE", "42")
	t.Setenv("CHUNKSTAT_LOGGING_LEVEL", "warn")

	cfg, err := LoadRun(path, nil)
	require.NoError(t, err)
	require.Equal(t, 42, cfg.ChunkSize)
	require.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRun_FlagsOverrideEnv(t *testing.T) {
	path := writeConfig(t, "input: a.log\n")
	t.Setenv("CHUNKSTAT_WORKERS", "2")

	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flags.Int("workers", 1, "")
	flags.Int("chunk-size", 9, "")
	require.NoError(t, flags.Parse([]string{"--workers", "7"}))

	cfg, err := LoadRun(path, flags)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Workers)
	// Unset flags do not shadow defaults.
	require.Equal(t, chunk.DefaultChunkSize, cfg.ChunkSize)
}

func TestLoadRun_Invalid(t *testing.T) {
	path := writeConfig(t, "chunk_size: 0\nworkers: -1\nyear: 0\noutput: xml\n")

	_, err := LoadRun(path, nil)
	require.Error(t, err)
	for _, want := range []string{"input", "chunk_size", "workers", "year", "output"} {
		require.Contains(t, err.Error(), want)
	}
}

func TestLoadRun_MissingExplicitFile(t *testing.T) {
	_, err := LoadRun(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}

func TestLoadWorker_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.yaml")
	require.NoError(t, os.WriteFile(path, []byte("year: 2020\n"), 0o644))

	cfg, err := LoadWorker(path, nil)
	require.NoError(t, err)
	require.Equal(t, ":50051", cfg.Server.Addr)
	require.Equal(t, 30*time.Second, cfg.Server.KeepaliveMinTime)
	require.Equal(t, 2020, cfg.Year)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadWorker_FlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7000\"\n"), 0o644))

	flags := pflag.NewFlagSet("worker", pflag.ContinueOnError)
	flags.String("addr", "", "")
	require.NoError(t, flags.Parse([]string{"--addr", "127.0.0.1:9000"}))

	cfg, err := LoadWorker(path, flags)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}
