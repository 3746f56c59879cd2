// Package syslog parses BSD syslog lines of the form
//
//	<PRI>Mmm dd hh:mm:ss HOSTNAME MESSAGE
//
// The wire format carries no year, so every record of a run shares the year
// given to the Parser.
package syslog

import (
	"errors"
	"time"
)

const (
	MaxPriority = 191

	SeverityEmergency = 0
	SeverityAlert     = 1
)

var ErrMalformedRecord = errors.New("malformed record")

type Record struct {
	Facility  int
	Severity  int
	Timestamp time.Time
	Host      string
	Message   string
}

func (r Record) Priority() int {
	return r.Facility*8 + r.Severity
}
