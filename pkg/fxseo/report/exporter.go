package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// Report file names.
const (
	KeywordsFile     = "keywords.csv"
	ClustersFile     = "clusters.json"
	ReportFile       = "report.json"
	SummaryFile      = "executive-summary.md"
	CalendarCSVFile  = "content-calendar.csv"
	CalendarJSONFile = "content-calendar.json"
)

// Exporter renders a Report into its files and hands them to a Sink.
type Exporter struct {
	Sink Sink
}

type artifact struct {
	name        string
	contentType string
	render      func(io.Writer, Report) error
}

var artifacts = []artifact{
	{KeywordsFile, "text/csv", func(w io.Writer, r Report) error { return WriteKeywordsCSV(w, r.Keywords) }},
	{ClustersFile, "application/json", func(w io.Writer, r Report) error { return WriteJSON(w, r.ClusterData) }},
	{ReportFile, "application/json", func(w io.Writer, r Report) error { return WriteJSON(w, r) }},
	{SummaryFile, "text/markdown", WriteSummary},
	{CalendarCSVFile, "text/csv", func(w io.Writer, r Report) error { return WriteCalendarCSV(w, r.Items) }},
	{CalendarJSONFile, "application/json", func(w io.Writer, r Report) error { return WriteJSON(w, r.Items) }},
}

// Export writes every report file and returns their names in write order.
// It stops at the first failure.
func (e *Exporter) Export(ctx context.Context, r Report) ([]string, error) {
	if e.Sink == nil {
		return nil, fmt.Errorf("report exporter: nil sink")
	}

	var written []string
	for _, a := range artifacts {
		var buf bytes.Buffer
		if err := a.render(&buf, r); err != nil {
			return written, fmt.Errorf("render %s: %w", a.name, err)
		}
		if err := e.Sink.Put(ctx, a.name, a.contentType, buf.Bytes()); err != nil {
			return written, fmt.Errorf("write %s: %w", a.name, err)
		}
		written = append(written, a.name)
	}
	return written, nil
}
