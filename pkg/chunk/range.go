// Package chunk partitions a line-oriented source into contiguous line ranges
// and reads those ranges back, without physically splitting the source.
package chunk

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	DefaultChunkSize  = 100 * 1024
	DefaultBufferSize = 1024 * 1024 // 1MB
)

var (
	ErrSourceUnreadable = errors.New("source unreadable")
	ErrShortRange       = errors.New("source ends inside range")
)

// Range is the half-open line interval [Start, End), 0-based.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Source can be opened any number of times. Every Open returns an
// independent reader positioned at the first line.
type Source interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type FileSource struct {
	Path string
}

func NewFileSource(path string) FileSource {
	return FileSource{Path: path}
}

func (s FileSource) Name() string {
	return s.Path
}

func (s FileSource) Open() (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	return f, nil
}
