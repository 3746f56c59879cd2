package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nemanja-m/chunkstat/internal/generate"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRunCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.log")
	_, err := generate.WriteFile(path, generate.Options{Blocks: 2, Repeat: 1})
	require.NoError(t, err)
	return path
}

func TestNewRunCommand(t *testing.T) {
	cmd := NewRunCommand()
	require.Equal(t, "run [input]", cmd.Use)

	for _, flag := range []string{"config", "input", "year", "chunk-size", "workers", "buffer-size", "tasks", "output", "remote-workers", "remote-timeout", "log-level", "log-format"} {
		require.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestRunCommand_JSON(t *testing.T) {
	path := writeSample(t)

	out, err := execute(t, path, "--chunk-size", "5", "--workers", "3", "-o", "json", "--log-level", "error", "--year", "2023")
	require.NoError(t, err)

	var rep struct {
		Chunks        int `json:"chunks"`
		Lines         int `json:"lines"`
		SeverityCount struct {
			Emergency int64 `json:"emergency"`
			Alert     int64 `json:"alert"`
		} `json:"severity_count"`
		TimeRange struct {
			Oldest string `json:"oldest"`
			Newest string `json:"newest"`
		} `json:"time_range"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Equal(t, 23, rep.Lines)
	require.Equal(t, 5, rep.Chunks)
	require.EqualValues(t, 5, rep.SeverityCount.Emergency)
	require.EqualValues(t, 2, rep.SeverityCount.Alert)
	require.Equal(t, "2023-01-01T01:01:01Z", rep.TimeRange.Oldest)
	require.Equal(t, "2023-12-31T23:23:23Z", rep.TimeRange.Newest)
}

func TestRunCommand_TaskSubset(t *testing.T) {
	path := writeSample(t)

	out, err := execute(t, "--input", path, "--tasks", "severity-count", "--log-level", "error")
	require.NoError(t, err)
	require.Contains(t, out, "Global emergency: 5")
	require.NotContains(t, out, "Global average")
	require.NotContains(t, out, "Global oldest")
}

func TestRunCommand_Errors(t *testing.T) {
	path := writeSample(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing input", []string{"--log-level", "error"}},
		{"unknown task", []string{path, "--tasks", "median", "--log-level", "error"}},
		{"unknown output", []string{path, "-o", "xml", "--log-level", "error"}},
		{"no match", []string{filepath.Join(t.TempDir(), "*.log"), "--log-level", "error"}},
		{"bad chunk size", []string{path, "--chunk-size", "-1", "--log-level", "error"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestGenerateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.log")

	cmd := NewGenerateCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--out", path, "--blocks", "1", "--repeat", "2"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "Wrote 22 lines to "+path)
}

func TestGenerateCommand_RequiresOut(t *testing.T) {
	cmd := NewGenerateCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(nil)
	require.Error(t, cmd.Execute())
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	require.Equal(t, "chunkstat dev\n", out.String())
}
