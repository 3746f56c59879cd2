package syslog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParser_Parse_Example(t *testing.T) {
	p := NewParser(2023)

	rec, err := p.Parse([]byte("<13>Sep 22 15:38:21 mymachine myproc% fatal error, terminating!"))
	require.NoError(t, err)

	require.Equal(t, 1, rec.Facility)
	require.Equal(t, 5, rec.Severity)
	require.Equal(t, time.Date(2023, time.September, 22, 15, 38, 21, 0, time.UTC), rec.Timestamp)
	require.Equal(t, "mymachine", rec.Host)
	require.Equal(t, "myproc% fatal error, terminating!", rec.Message)
}

func TestParser_Parse_PriorityDecomposition(t *testing.T) {
	p := NewParser(2023)

	for pri := 0; pri <= MaxPriority; pri++ {
		line := fmt.Sprintf("<%d>Jan  1 00:00:00 host msg", pri)
		rec, err := p.Parse([]byte(line))
		require.NoError(t, err, line)
		require.Equal(t, pri/8, rec.Facility)
		require.Equal(t, pri%8, rec.Severity)
		require.Equal(t, pri, rec.Priority())
	}
}

func TestParser_Parse_DayPadding(t *testing.T) {
	p := NewParser(2021)

	spaced, err := p.Parse([]byte("<13>Oct  7 10:09:00 unicorn sched# invalid operation"))
	require.NoError(t, err)
	require.Equal(t, time.Date(2021, time.October, 7, 10, 9, 0, 0, time.UTC), spaced.Timestamp)

	zeroed, err := p.Parse([]byte("<13>Oct 07 10:09:00 unicorn sched# invalid operation"))
	require.NoError(t, err)
	require.Equal(t, spaced.Timestamp, zeroed.Timestamp)
}

func TestParser_Parse_MessageVerbatim(t *testing.T) {
	p := NewParser(2023)

	rec, err := p.Parse([]byte("<34>Jan 25 05:06:34 10.1.2.3   su:  spaced  "))
	require.NoError(t, err)
	require.Equal(t, "10.1.2.3", rec.Host)
	require.Equal(t, "  su:  spaced  ", rec.Message)

	empty, err := p.Parse([]byte("<34>Jan 25 05:06:34 host "))
	require.NoError(t, err)
	require.Equal(t, "host", empty.Host)
	require.Empty(t, empty.Message)
}

func TestParser_Parse_IPv6Host(t *testing.T) {
	p := NewParser(2023)

	rec, err := p.Parse([]byte("<165>Aug  3 22:14:15 FEDC:BA98:7654:3210:FEDC:BA98:7654:3210 awesomeapp starting up version 3.0.1..."))
	require.NoError(t, err)
	require.Equal(t, 20, rec.Facility)
	require.Equal(t, 5, rec.Severity)
	require.Equal(t, "FEDC:BA98:7654:3210:FEDC:BA98:7654:3210", rec.Host)
	require.Equal(t, "awesomeapp starting up version 3.0.1...", rec.Message)
}

func TestParser_Parse_Malformed(t *testing.T) {
	p := NewParser(2023)

	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"no open bracket", "13>Sep 22 15:38:21 host msg"},
		{"no close bracket", "<13Sep 22 15:38:21 host msg"},
		{"empty priority", "<>Sep 22 15:38:21 host msg"},
		{"non-digit priority", "<1a>Sep 22 15:38:21 host msg"},
		{"priority out of range", "<192>Sep 22 15:38:21 host msg"},
		{"priority too long", "<0013>Sep 22 15:38:21 host msg"},
		{"bad month", "<13>Foo 22 15:38:21 host msg"},
		{"bad clock", "<13>Sep 22 25:38:21 host msg"},
		{"truncated timestamp", "<13>Sep 22 15:38"},
		{"no space after timestamp", "<13>Sep 22 15:38:21host msg"},
		{"unterminated host", "<13>Sep 22 15:38:21 host"},
		{"empty host", "<13>Sep 22 15:38:21  msg"},
		{"feb 29 in non-leap year", "<13>Feb 29 00:00:00 host msg"},
		{"lowercase month", "<13>sep 22 15:38:21 host msg"},
		{"uppercase month", "<13>SEP 22 15:38:21 host msg"},
		{"single digit day and hour", "<13>Sep 2 1:38:21.5 host msg"},
		{"single digit hour", "<13>Sep 22 5:38:21 host msg"},
		{"fractional seconds", "<13>Sep 22 15:38:2.5 host msg"},
		{"day without digit", "<13>Sep  x 15:38:21 host msg"},
		{"clock separator", "<13>Sep 22 15-38-21 host msg"},
		{"day zero", "<13>Sep 00 15:38:21 host msg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse([]byte(tt.line))
			require.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestParser_Parse_LeapDay(t *testing.T) {
	rec, err := NewParser(2024).Parse([]byte("<13>Feb 29 12:00:00 host msg"))
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC), rec.Timestamp)
}
