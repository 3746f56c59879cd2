package chunk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeLines(t *testing.T, n int, trailingNewline bool) string {
	t.Helper()
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	content := strings.Join(lines, "\n")
	if trailingNewline && n > 0 {
		content += "\n"
	}
	path := filepath.Join(t.TempDir(), "input.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requirePartition(t *testing.T, ranges []Range, total, size int) {
	t.Helper()
	next := 0
	for i, r := range ranges {
		require.Equal(t, next, r.Start, "range %d must start where the previous ended", i)
		require.Greater(t, r.End, r.Start)
		require.LessOrEqual(t, r.Len(), size)
		if i < len(ranges)-1 {
			require.Equal(t, size, r.Len())
		}
		next = r.End
	}
	require.Equal(t, total, next)
}

func TestPlanner_PartitionLaw(t *testing.T) {
	for _, total := range []int{1, 2, 9, 10, 11, 100} {
		for _, size := range []int{1, 3, 7, 10, total, total + 1} {
			for _, trailing := range []bool{true, false} {
				name := fmt.Sprintf("lines=%d size=%d trailing=%v", total, size, trailing)
				t.Run(name, func(t *testing.T) {
					path := writeLines(t, total, trailing)
					ranges, err := NewPlanner(NewFileSource(path), size).Plan(context.Background())
					require.NoError(t, err)
					requirePartition(t, ranges, total, size)
				})
			}
		}
	}
}

func TestPlanner_ExactMultiple(t *testing.T) {
	path := writeLines(t, 12, true)

	ranges, err := NewPlanner(NewFileSource(path), 4).Plan(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Range{{0, 4}, {4, 8}, {8, 12}}, ranges)
}

func TestPlanner_ShortFinalRange(t *testing.T) {
	path := writeLines(t, 10, false)

	ranges, err := NewPlanner(NewFileSource(path), 4).Plan(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Range{{0, 4}, {4, 8}, {8, 10}}, ranges)
}

func TestPlanner_EmptySource(t *testing.T) {
	path := writeLines(t, 0, false)

	ranges, err := NewPlanner(NewFileSource(path), 4).Plan(context.Background())
	require.NoError(t, err)
	require.Empty(t, ranges)
}

func TestPlanner_DefaultChunkSize(t *testing.T) {
	require.Equal(t, DefaultChunkSize, NewPlanner(NewFileSource("x"), 0).ChunkSize())
	require.Equal(t, 5, NewPlanner(NewFileSource("x"), 5).ChunkSize())
}

func TestPlanner_UnreadableSource(t *testing.T) {
	_, err := NewPlanner(NewFileSource("/no/such/file.log"), 4).Plan(context.Background())
	require.ErrorIs(t, err, ErrSourceUnreadable)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPlanner_RangesStopsEarly(t *testing.T) {
	path := writeLines(t, 100, true)

	var seen []Range
	for r, err := range NewPlanner(NewFileSource(path), 10).Ranges(context.Background()) {
		require.NoError(t, err)
		seen = append(seen, r)
		if len(seen) == 2 {
			break
		}
	}
	require.Equal(t, []Range{{0, 10}, {10, 20}}, seen)
}

func TestPlanner_CanceledContext(t *testing.T) {
	path := writeLines(t, 10, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPlanner(NewFileSource(path), 4).Plan(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
