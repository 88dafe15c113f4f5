package plan

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
)

// Status is the lifecycle state of a content item.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusDrafting  Status = "drafting"
	StatusPublished Status = "published"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusDrafting, StatusPublished:
		return true
	}
	return false
}

// DeadlineLeadDays is how many calendar days before publication a draft is due.
const DeadlineLeadDays = 3

// Item is one scheduled piece of content.
type Item struct {
	ID              string          `json:"id"`
	PublishDate     time.Time       `json:"publish_date"`
	Deadline        time.Time       `json:"deadline"`
	Pillar          string          `json:"pillar"`
	ContentType     ContentType     `json:"content_type"`
	Keyword         keyword.Keyword `json:"keyword"`
	Title           string          `json:"title"`
	TargetWordCount int             `json:"target_word_count"`
	ReadTimeMinutes int             `json:"read_time_minutes"`
	Priority        int             `json:"priority"`
	Status          Status          `json:"status"`
}

var wordCounts = map[ContentType]int{
	Review:     2500,
	Comparison: 3000,
	Guide:      2000,
	Tutorial:   1800,
	Analysis:   1500,
	News:       800,
}

var readTimes = map[ContentType]int{
	Review:     12,
	Comparison: 15,
	Guide:      10,
	Tutorial:   9,
	Analysis:   8,
	News:       4,
}

// TargetWordCount returns the word count target for a content type.
func TargetWordCount(ct ContentType) int {
	if n, ok := wordCounts[ct]; ok {
		return n
	}
	return wordCounts[Guide]
}

// ReadTime returns the estimated reading time in minutes for a content type.
func ReadTime(ct ContentType) int {
	if n, ok := readTimes[ct]; ok {
		return n
	}
	return readTimes[Guide]
}

// {kw} is the title-cased keyword, {year} the publication year.
var titleTemplates = map[ContentType][]string{
	Review: {
		"{kw} Review {year}: Fees, Platforms and Verdict",
		"{kw}: Honest Review After Real Trading",
		"Is {kw} Worth It? Full {year} Review",
	},
	Comparison: {
		"{kw}: Side-by-Side Comparison ({year})",
		"{kw} Compared: Which One Wins?",
	},
	Guide: {
		"The Complete Guide to {kw} ({year})",
		"{kw}: Everything You Need to Know",
		"{kw} Explained for Traders",
	},
	Tutorial: {
		"{kw}: Step-by-Step Tutorial",
		"How to Get Started with {kw}",
	},
	Analysis: {
		"{kw}: In-Depth Analysis for {year}",
		"What the Data Says About {kw}",
	},
	News: {
		"{kw}: Latest Updates for {year}",
		"{kw} News: What Traders Should Know",
	},
}

// Chooser picks an index in [0, n). *math/rand/v2.Rand satisfies it.
type Chooser interface {
	IntN(n int) int
}

// FixedChooser always returns the same index, clamped to range.
type FixedChooser int

// IntN implements Chooser.
func (f FixedChooser) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	idx := int(f) % n
	if idx < 0 {
		idx += n
	}
	return idx
}

// Title renders a title for kw using one of ct's templates picked by chooser.
func Title(ct ContentType, kw string, year int, chooser Chooser) string {
	templates, ok := titleTemplates[ct]
	if !ok {
		templates = titleTemplates[Guide]
	}
	tmpl := templates[chooser.IntN(len(templates))]
	r := strings.NewReplacer("{kw}", cases.Title(language.English).String(kw), "{year}", strconv.Itoa(year))
	return r.Replace(tmpl)
}

// Priority weighs keyword score by log-volume and the pillar priority.
func Priority(k keyword.Keyword, pillarAvgPriority float64) int {
	volumeFactor := math.Log(float64(k.Volume)+1) / math.Log(1000)
	return int(math.Round(float64(k.Score) * volumeFactor * (pillarAvgPriority / 100)))
}

// SlotID returns the ID of the content item in the given slot: a ULID whose
// timestamp is the publish date and whose entropy is derived from the pillar
// name and the slot's position on that day. Regenerating a plan reproduces
// the same IDs. Dates before the Unix epoch are an error.
func SlotID(date time.Time, pillar string, slot int) (string, error) {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%d", pillar, slot)))
	id, err := ulid.New(ulid.Timestamp(date), bytes.NewReader(sum[:]))
	if err != nil {
		return "", fmt.Errorf("item id for %s %s: %w", date.Format(time.DateOnly), pillar, err)
	}
	return id.String(), nil
}

type itemBuilder struct {
	chooser Chooser
}

func (b *itemBuilder) build(date time.Time, slot int, p Pillar, ct ContentType, k keyword.Keyword) (Item, error) {
	id, err := SlotID(date, p.Name, slot)
	if err != nil {
		return Item{}, err
	}
	return Item{
		ID:              id,
		PublishDate:     date,
		Deadline:        date.AddDate(0, 0, -DeadlineLeadDays),
		Pillar:          p.Name,
		ContentType:     ct,
		Keyword:         k,
		Title:           Title(ct, k.Text, date.Year(), b.chooser),
		TargetWordCount: TargetWordCount(ct),
		ReadTimeMinutes: ReadTime(ct),
		Priority:        Priority(k, p.AvgPriorityScore),
		Status:          StatusPlanned,
	}, nil
}
