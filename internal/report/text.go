package report

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cheynewallace/tabby"
	"github.com/dustin/go-humanize"

	"github.com/nemanja-m/chunkstat/pkg/local"
	"github.com/nemanja-m/chunkstat/pkg/tasks"
)

type TextFormatter struct{}

func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

func (f *TextFormatter) Name() string {
	return "text"
}

func (f *TextFormatter) Format(w io.Writer, r *local.Report) error {
	res := r.Results
	if res.AverageLength != nil {
		if err := f.averageLength(w, res.AverageLength); err != nil {
			return err
		}
	}
	if res.SeverityCount != nil {
		f.severityCount(w, res.SeverityCount)
	}
	if res.TimeRange != nil {
		f.timeRange(w, res.TimeRange)
	}

	fmt.Fprintf(w, "Processed %s lines in %s chunks from %d file(s) in %s (run %s)\n",
		humanize.Comma(int64(r.Lines)),
		humanize.Comma(int64(r.Chunks)),
		len(r.Inputs),
		r.Elapsed.Round(time.Millisecond),
		r.RunID,
	)
	return nil
}

func (f *TextFormatter) averageLength(w io.Writer, res *tasks.AverageLengthResult) error {
	fmt.Fprintln(w, "=== Average length of the MSG part of the messages ===")
	avg, err := res.Average()
	switch {
	case errors.Is(err, tasks.ErrDivisionUndefined):
		fmt.Fprintln(w, "Global average: no data")
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "Global average: %.3f\n", avg)
	}

	t := table(w)
	t.AddHeader("HOST", "LINES", "AVERAGE")
	averages := res.HostAverages()
	for _, host := range sortedHosts(res.PerHost) {
		t.AddLine(host, humanize.Comma(res.PerHost[host].Lines), fmt.Sprintf("%.3f", averages[host]))
	}
	t.Print()
	fmt.Fprintln(w)
	return nil
}

func (f *TextFormatter) severityCount(w io.Writer, res *tasks.SeverityCountResult) {
	fmt.Fprintln(w, "=== Emergency and Alert severity level messages ===")
	fmt.Fprintf(w, "Global emergency: %s\n", humanize.Comma(res.Emergency))
	fmt.Fprintf(w, "Global alert: %s\n", humanize.Comma(res.Alert))

	t := table(w)
	t.AddHeader("HOST", "EMERGENCY", "ALERT")
	for _, host := range sortedHosts(res.PerHost) {
		c := res.PerHost[host]
		t.AddLine(host, humanize.Comma(c.Emergency), humanize.Comma(c.Alert))
	}
	t.Print()
	fmt.Fprintln(w)
}

func (f *TextFormatter) timeRange(w io.Writer, res *tasks.TimeRangeResult) {
	fmt.Fprintln(w, "=== Timestamp of the oldest and newest message ===")
	if res.Empty() {
		fmt.Fprintln(w, "No messages")
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "Global oldest: %s\n", res.Oldest.Format(timeLayout))
	fmt.Fprintf(w, "Global newest: %s\n", res.Newest.Format(timeLayout))

	t := table(w)
	t.AddHeader("HOST", "OLDEST", "NEWEST")
	for _, host := range sortedHosts(res.PerHost) {
		s := res.PerHost[host]
		t.AddLine(host, s.Oldest.Format(timeLayout), s.Newest.Format(timeLayout))
	}
	t.Print()
	fmt.Fprintln(w)
}

func table(w io.Writer) *tabby.Tabby {
	return tabby.NewCustom(tabwriter.NewWriter(w, 0, 0, 2, ' ', 0))
}
