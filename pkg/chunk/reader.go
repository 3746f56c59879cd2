package chunk

import (
	"bufio"
	"context"
	"fmt"
)

const cancelCheckInterval = 4096

// LineFunc receives the 0-based line index and the line without its
// terminator. The slice is only valid until LineFunc returns.
type LineFunc func(index int, line []byte) error

// ReadRange opens source, skips to r.Start and calls fn for every line in r.
// Lines longer than bufferSize fail the read, and so does a source that ends
// before r.End.
func ReadRange(ctx context.Context, source Source, r Range, bufferSize int, fn LineFunc) error {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	rc, err := source.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, min(bufferSize, 64*1024)), bufferSize)

	i := 0
	for ; i < r.End && scanner.Scan(); i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if i < r.Start {
			continue
		}
		if err := fn(i, scanner.Bytes()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: reading %s: %w", ErrSourceUnreadable, source.Name(), err)
	}
	if i < r.End {
		return fmt.Errorf("%w: %w: %s has %d lines, range %s", ErrSourceUnreadable, ErrShortRange, source.Name(), i, r)
	}

	return nil
}
