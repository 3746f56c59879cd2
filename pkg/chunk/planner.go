package chunk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
)

const probeBufferSize = 64 * 1024

type Planner struct {
	source    Source
	chunkSize int
}

// NewPlanner returns a planner striding over source in chunkSize lines.
// A non-positive chunkSize selects DefaultChunkSize.
func NewPlanner(source Source, chunkSize int) *Planner {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Planner{source: source, chunkSize: chunkSize}
}

func (p *Planner) ChunkSize() int {
	return p.chunkSize
}

// Ranges yields ranges lazily while scanning the source once. A range is
// emitted as soon as its last line has been seen; the final range holds
// whatever remains and is never longer than the chunk size. An empty source
// yields nothing. Iteration stops after the first error.
func (p *Planner) Ranges(ctx context.Context) iter.Seq2[Range, error] {
	return func(yield func(Range, error) bool) {
		rc, err := p.source.Open()
		if err != nil {
			yield(Range{}, err)
			return
		}
		defer rc.Close()

		var (
			buf      = make([]byte, probeBufferSize)
			lines    int
			next     int
			lastByte byte = '\n'
		)
		for {
			if err := ctx.Err(); err != nil {
				yield(Range{}, err)
				return
			}

			n, err := rc.Read(buf)
			if n > 0 {
				lines += bytes.Count(buf[:n], []byte{'\n'})
				lastByte = buf[n-1]
				for ; next+p.chunkSize <= lines; next += p.chunkSize {
					if !yield(Range{Start: next, End: next + p.chunkSize}, nil) {
						return
					}
				}
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				yield(Range{}, fmt.Errorf("%w: reading %s: %w", ErrSourceUnreadable, p.source.Name(), err))
				return
			}
		}

		// A final line without a trailing newline still counts.
		if lastByte != '\n' {
			lines++
		}
		if next < lines {
			yield(Range{Start: next, End: lines}, nil)
		}
	}
}

// Plan collects every range of the source.
func (p *Planner) Plan(ctx context.Context) ([]Range, error) {
	var ranges []Range
	for r, err := range p.Ranges(ctx) {
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}
