package syslog

import (
	"fmt"
	"time"
)

const (
	timestampLen    = len("Jan _2 15:04:05")
	timestampLayout = "2006 Jan _2 15:04:05"
	maxPriorityLen  = 3
)

// Parser turns raw lines into Records. It is stateless apart from the
// configured year and safe for concurrent use.
type Parser struct {
	Year int
}

func NewParser(year int) Parser {
	return Parser{Year: year}
}

// Parse extracts a full Record from line or fails with ErrMalformedRecord.
// The line must not contain its trailing newline.
func (p Parser) Parse(line []byte) (Record, error) {
	priority, pos, err := parsePriority(line)
	if err != nil {
		return Record{}, err
	}

	if len(line)-pos < timestampLen {
		return Record{}, fmt.Errorf("%w: truncated timestamp", ErrMalformedRecord)
	}
	raw := line[pos : pos+timestampLen]
	if err := checkTimestamp(raw); err != nil {
		return Record{}, err
	}
	ts, err := time.ParseInLocation(timestampLayout, fmt.Sprintf("%04d %s", p.Year, raw), time.UTC)
	if err != nil {
		return Record{}, fmt.Errorf("%w: timestamp %q: %v", ErrMalformedRecord, raw, err)
	}
	pos += timestampLen

	if pos >= len(line) || line[pos] != ' ' {
		return Record{}, fmt.Errorf("%w: missing space after timestamp", ErrMalformedRecord)
	}
	pos++

	hostStart := pos
	for pos < len(line) && line[pos] != ' ' {
		pos++
	}
	if pos == len(line) {
		return Record{}, fmt.Errorf("%w: unterminated hostname", ErrMalformedRecord)
	}
	if pos == hostStart {
		return Record{}, fmt.Errorf("%w: empty hostname", ErrMalformedRecord)
	}

	return Record{
		Facility:  priority / 8,
		Severity:  priority % 8,
		Timestamp: ts,
		Host:      string(line[hostStart:pos]),
		Message:   string(line[pos+1:]),
	}, nil
}

var months = map[string]bool{
	"Jan": true, "Feb": true, "Mar": true, "Apr": true, "May": true, "Jun": true,
	"Jul": true, "Aug": true, "Sep": true, "Oct": true, "Nov": true, "Dec": true,
}

// checkTimestamp enforces the exact "Mmm dd hh:mm:ss" shape of raw. The day
// may be space or zero padded; every clock field is two digits. Calendar
// ranges are left to time.ParseInLocation.
func checkTimestamp(raw []byte) error {
	if !months[string(raw[0:3])] {
		return fmt.Errorf("%w: bad month %q", ErrMalformedRecord, raw[0:3])
	}
	if raw[3] != ' ' || raw[6] != ' ' || raw[9] != ':' || raw[12] != ':' {
		return fmt.Errorf("%w: bad timestamp layout %q", ErrMalformedRecord, raw)
	}
	if (raw[4] != ' ' && !isDigit(raw[4])) || !isDigit(raw[5]) {
		return fmt.Errorf("%w: bad day %q", ErrMalformedRecord, raw[4:6])
	}
	for _, i := range []int{7, 8, 10, 11, 13, 14} {
		if !isDigit(raw[i]) {
			return fmt.Errorf("%w: bad clock %q", ErrMalformedRecord, raw[7:])
		}
	}
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parsePriority reads "<PRI>" and returns the value and the offset just past '>'.
func parsePriority(line []byte) (int, int, error) {
	if len(line) == 0 || line[0] != '<' {
		return 0, 0, fmt.Errorf("%w: missing '<'", ErrMalformedRecord)
	}

	priority := 0
	pos := 1
	for ; pos < len(line) && line[pos] != '>'; pos++ {
		c := line[pos]
		if c < '0' || c > '9' {
			return 0, 0, fmt.Errorf("%w: non-digit %q in priority", ErrMalformedRecord, c)
		}
		if pos > maxPriorityLen {
			return 0, 0, fmt.Errorf("%w: priority longer than %d digits", ErrMalformedRecord, maxPriorityLen)
		}
		priority = priority*10 + int(c-'0')
	}

	switch {
	case pos == len(line):
		return 0, 0, fmt.Errorf("%w: missing '>'", ErrMalformedRecord)
	case pos == 1:
		return 0, 0, fmt.Errorf("%w: empty priority", ErrMalformedRecord)
	case priority > MaxPriority:
		return 0, 0, fmt.Errorf("%w: priority %d out of range", ErrMalformedRecord, priority)
	}

	return priority, pos + 1, nil
}
