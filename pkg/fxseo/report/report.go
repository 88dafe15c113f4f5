// Package report assembles the research report and renders it as CSV, JSON
// and Markdown files.
package report

import (
	"sort"
	"time"

	"github.com/cognicore/fxseo/pkg/fxseo/cluster"
	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
	"github.com/cognicore/fxseo/pkg/fxseo/plan"
	"github.com/cognicore/fxseo/pkg/fxseo/store"
)

// QuickWinLimit caps the quick wins listed in a report.
const QuickWinLimit = 25

// Report is the full output of one pipeline run.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Summary   Summary           `json:"summary"`
	Breakdown cluster.Breakdown `json:"breakdown"`
	QuickWins []keyword.Keyword `json:"quick_wins"`
	Clusters  []ClusterRank     `json:"clusters"`
	Pillars   []PillarSummary   `json:"pillars"`
	Calendar  CalendarSummary   `json:"calendar"`
	Persisted store.WriteStats  `json:"persisted"`

	// Detail rows, written to their own files.
	Keywords    []keyword.Keyword `json:"keywords"`
	ClusterData []cluster.Cluster `json:"-"`
	Items       []plan.Item       `json:"-"`
}

// Summary holds run-level totals.
type Summary struct {
	Generated     int     `json:"generated"`
	Candidates    int     `json:"candidates"`
	Kept          int     `json:"kept"`
	Discarded     int     `json:"discarded"`
	Clusters      int     `json:"clusters"`
	TotalVolume   int     `json:"total_volume"`
	AvgScore      float64 `json:"avg_score"`
	AvgDifficulty float64 `json:"avg_difficulty"`
}

// ClusterRank is a cluster without its members, annotated with planning
// scores.
type ClusterRank struct {
	Category         keyword.Category `json:"category"`
	Size             int              `json:"size"`
	AvgScore         float64          `json:"avg_score"`
	TotalVolume      int              `json:"total_volume"`
	AvgDifficulty    float64          `json:"avg_difficulty"`
	ContentPotential float64          `json:"content_potential"`
	PriorityScore    float64          `json:"priority_score"`
	TopKeyword       string           `json:"top_keyword"`
}

// PillarSummary is a pillar without its clusters.
type PillarSummary struct {
	Name                string             `json:"name"`
	Categories          []keyword.Category `json:"categories"`
	ContentTypes        []plan.ContentType `json:"content_types"`
	PublishingFrequency string             `json:"publishing_frequency"`
	Clusters            int                `json:"clusters"`
	Keywords            int                `json:"keywords"`
	AvgPriorityScore    float64            `json:"avg_priority_score"`
	ScheduledItems      int                `json:"scheduled_items"`
}

// CalendarSummary describes the scheduled horizon.
type CalendarSummary struct {
	Items     int            `json:"items"`
	First     time.Time      `json:"first,omitempty"`
	Last      time.Time      `json:"last,omitempty"`
	PerPillar map[string]int `json:"per_pillar"`
	PerType   map[string]int `json:"per_content_type"`
}

// Input carries the values produced by the pipeline phases.
type Input struct {
	RunID      string
	At         time.Time
	Generated  int
	Candidates int
	Discarded  int
	Keywords   []keyword.Keyword
	Clusters   []cluster.Cluster
	Pillars    []plan.Pillar
	Items      []plan.Item
	Persisted  store.WriteStats
}

// Build assembles a Report from in.
func Build(in Input) Report {
	totals := cluster.Summary(in.Clusters)
	r := Report{
		RunID:       in.RunID,
		GeneratedAt: in.At,
		Summary: Summary{
			Generated:   in.Generated,
			Candidates:  in.Candidates,
			Kept:        len(in.Keywords),
			Discarded:   in.Discarded,
			Clusters:    totals.Clusters,
			TotalVolume: totals.TotalVolume,
			AvgScore:    totals.AvgScore,
		},
		Breakdown:   cluster.Count(in.Keywords),
		QuickWins:   cluster.QuickWins(in.Keywords, QuickWinLimit),
		Persisted:   in.Persisted,
		Keywords:    in.Keywords,
		ClusterData: in.Clusters,
		Items:       in.Items,
	}

	if len(in.Keywords) > 0 {
		var diff int
		for _, k := range in.Keywords {
			diff += k.Difficulty
		}
		r.Summary.AvgDifficulty = float64(diff) / float64(len(in.Keywords))
	}

	for _, c := range in.Clusters {
		rank := ClusterRank{
			Category:         c.Category,
			Size:             c.Size(),
			AvgScore:         c.AvgScore,
			TotalVolume:      c.TotalVolume,
			AvgDifficulty:    c.AvgDifficulty,
			ContentPotential: cluster.ContentPotential(c),
			PriorityScore:    cluster.PriorityScore(c),
		}
		if c.Size() > 0 {
			rank.TopKeyword = c.Keywords[0].Text
		}
		r.Clusters = append(r.Clusters, rank)
	}
	sort.SliceStable(r.Clusters, func(i, j int) bool {
		return r.Clusters[i].PriorityScore > r.Clusters[j].PriorityScore
	})

	r.Calendar = summarizeCalendar(in.Items)

	for _, p := range in.Pillars {
		r.Pillars = append(r.Pillars, PillarSummary{
			Name:                p.Name,
			Categories:          p.Categories,
			ContentTypes:        p.ContentTypes,
			PublishingFrequency: p.PublishingFrequency,
			Clusters:            len(p.TargetClusters),
			Keywords:            len(p.AvailableKeywords()),
			AvgPriorityScore:    p.AvgPriorityScore,
			ScheduledItems:      r.Calendar.PerPillar[p.Name],
		})
	}
	return r
}

func summarizeCalendar(items []plan.Item) CalendarSummary {
	cs := CalendarSummary{
		Items:     len(items),
		PerPillar: make(map[string]int),
		PerType:   make(map[string]int),
	}
	for i, it := range items {
		if i == 0 || it.PublishDate.Before(cs.First) {
			cs.First = it.PublishDate
		}
		if i == 0 || it.PublishDate.After(cs.Last) {
			cs.Last = it.PublishDate
		}
		cs.PerPillar[it.Pillar]++
		cs.PerType[string(it.ContentType)]++
	}
	return cs
}

// TopKeywords returns the n best keywords by score.
func (r Report) TopKeywords(n int) []keyword.Keyword {
	out := make([]keyword.Keyword, len(r.Keywords))
	copy(out, r.Keywords)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Text < out[j].Text
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
