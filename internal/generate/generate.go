// Package generate writes sample BSD syslog files for local runs and tests.
package generate

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Baseline records carry no emergency or alert severity.
var Baseline = []string{
	"<47>Sep 22 15:38:21 mymachine myproc% fatal error, terminating!",
	"<34>Jan 25 05:06:34 10.1.2.3 su: 'su root' failed for sprinkles on /dev/pts/8",
	"<13>Oct  7 10:09:00 unicorn sched# invalid operation",
	"<165>Aug  3 22:14:15 FEDC:BA98:7654:3210:FEDC:BA98:7654:3210 awesomeapp starting up version 3.0.1...",
}

// Extremes holds emergency records for every baseline host and the oldest
// record of the file.
var Extremes = []string{
	"<0>Sep 22 15:38:21 mymachine myproc% fatal error, terminating!",
	"<8>Jan  1 01:01:01 10.1.2.3 su: 'su root' failed for sprinkles on /dev/pts/8",
	"<64>Oct  7 10:09:00 unicorn sched# invalid operation",
	"<128>Aug  3 22:14:15 FEDC:BA98:7654:3210:FEDC:BA98:7654:3210 awesomeapp starting up version 3.0.1...",
}

const (
	AlertRecord  = "<33>Sep 21 22:22:22 monty_pythonhost99 Life of Brian"
	NewestRecord = "<24>Dec 31 23:23:23 monty_python_host42 always look on the bride side of your life"
)

type Options struct {
	// Blocks is the number of outer blocks in each half of the file.
	Blocks int
	// Repeat is how many times the baseline is written per block.
	Repeat int
}

func DefaultOptions() Options {
	return Options{Blocks: 100, Repeat: 500}
}

// Lines is the number of lines Write produces for opts.
func (o Options) Lines() int {
	baseline := o.Blocks * o.Repeat * len(Baseline)
	return 2*baseline + len(Extremes) + o.Blocks + 1
}

// Write emits the baseline, the extremes, the baseline again with one alert
// record closing every block, and finally the newest record.
func Write(w io.Writer, opts Options) (int, error) {
	if opts.Blocks < 0 || opts.Repeat < 0 {
		return 0, fmt.Errorf("blocks and repeat must be >= 0, got %d and %d", opts.Blocks, opts.Repeat)
	}

	bw := bufio.NewWriter(w)
	n := 0
	emit := func(lines ...string) {
		for _, line := range lines {
			bw.WriteString(line)
			bw.WriteByte('\n')
			n++
		}
	}

	for range opts.Blocks {
		for range opts.Repeat {
			emit(Baseline...)
		}
	}
	emit(Extremes...)
	for range opts.Blocks {
		for range opts.Repeat {
			emit(Baseline...)
		}
		emit(AlertRecord)
	}
	emit(NewestRecord)

	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return n, nil
}

func WriteFile(path string, opts Options) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := Write(f, opts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}
