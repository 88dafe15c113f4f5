package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
	"github.com/cognicore/fxseo/pkg/fxseo/plan"
)

// KeywordsHeader is the header row of keywords.csv.
var KeywordsHeader = []string{"Keyword", "Category", "Intent", "Difficulty", "Volume", "Score"}

// CalendarHeader is the header row of content-calendar.csv.
var CalendarHeader = []string{
	"ID", "Publish Date", "Deadline", "Pillar", "Content Type", "Keyword", "Category",
	"Title", "Target Word Count", "Read Time", "Priority", "Status",
}

// WriteKeywordsCSV writes one row per keyword.
func WriteKeywordsCSV(w io.Writer, keywords []keyword.Keyword) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(KeywordsHeader); err != nil {
		return err
	}
	for _, k := range keywords {
		row := []string{
			k.Text,
			string(k.Category),
			string(k.Intent),
			strconv.Itoa(k.Difficulty),
			strconv.Itoa(k.Volume),
			strconv.Itoa(k.Score),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCalendarCSV writes one row per content item.
func WriteCalendarCSV(w io.Writer, items []plan.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CalendarHeader); err != nil {
		return err
	}
	for _, it := range items {
		row := []string{
			it.ID,
			it.PublishDate.Format(time.DateOnly),
			it.Deadline.Format(time.DateOnly),
			it.Pillar,
			string(it.ContentType),
			it.Keyword.Text,
			string(it.Keyword.Category),
			it.Title,
			strconv.Itoa(it.TargetWordCount),
			strconv.Itoa(it.ReadTimeMinutes),
			strconv.Itoa(it.Priority),
			string(it.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var summaryFuncs = template.FuncMap{
	"f1":    func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
	"date":  func(t time.Time) string { return t.Format(time.DateOnly) },
	"title": func(s string) string { return strings.ReplaceAll(s, "_", " ") },
	"pct": func(part, total int) string {
		if total == 0 {
			return "0.0%"
		}
		return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(total))
	},
}

var summaryTemplate = template.Must(template.New("summary").Funcs(summaryFuncs).Parse(`# Forex SEO Keyword Research: Executive Summary

Run ` + "`{{.RunID}}`" + ` generated {{date .GeneratedAt}}.

## Overview

- Keywords generated: {{.Summary.Generated}}
- Candidates after long-tail expansion: {{.Summary.Candidates}}
- Keywords kept: {{.Summary.Kept}} ({{.Summary.Discarded}} discarded)
- Clusters: {{.Summary.Clusters}}
- Total estimated monthly volume: {{.Summary.TotalVolume}}
- Average score: {{f1 .Summary.AvgScore}}
- Average difficulty: {{f1 .Summary.AvgDifficulty}}

## Top Keywords

| Keyword | Category | Intent | Difficulty | Volume | Score |
|---|---|---|---|---|---|
{{range .Top}}| {{.Text}} | {{title (print .Category)}} | {{.Intent}} | {{.Difficulty}} | {{.Volume}} | {{.Score}} |
{{end}}
## Cluster Priorities

| Category | Keywords | Avg Score | Volume | Avg Difficulty | Priority |
|---|---|---|---|---|---|
{{range .Clusters}}| {{title (print .Category)}} | {{.Size}} | {{f1 .AvgScore}} | {{.TotalVolume}} | {{f1 .AvgDifficulty}} | {{f1 .PriorityScore}} |
{{end}}
## Quick Wins
{{if .QuickWins}}
Keywords with difficulty at or below 60, best score first:
{{range .QuickWins}}
- {{.Text}} (difficulty {{.Difficulty}}, score {{.Score}}){{end}}
{{else}}
No low-difficulty keywords this run.
{{end}}
## Search Intent
{{range $intent, $n := .Breakdown.ByIntent}}
- {{$intent}}: {{$n}} ({{pct $n $.Summary.Kept}}){{end}}

## Content Pillars

| Pillar | Frequency | Clusters | Keywords | Avg Priority | Scheduled |
|---|---|---|---|---|---|
{{range .Pillars}}| {{.Name}} | {{.PublishingFrequency}} | {{.Clusters}} | {{.Keywords}} | {{f1 .AvgPriorityScore}} | {{.ScheduledItems}} |
{{end}}
## Content Calendar
{{if .Calendar.Items}}
{{.Calendar.Items}} items scheduled from {{date .Calendar.First}} to {{date .Calendar.Last}}.
{{else}}
No content items scheduled.
{{end}}
## Persistence

{{.Persisted.Written}} keywords stored, {{.Persisted.Failed}} failed across {{.Persisted.Batches}} batches.
`))

// TopKeywordCount is the number of keywords listed in the summary.
const TopKeywordCount = 20

// WriteSummary renders the Markdown executive summary.
func WriteSummary(w io.Writer, r Report) error {
	data := struct {
		Report
		Top []keyword.Keyword
	}{r, r.TopKeywords(TopKeywordCount)}
	return summaryTemplate.Execute(w, data)
}
