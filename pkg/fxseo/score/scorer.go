package score

import (
	"math"
	"strings"

	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
)

// DefaultThreshold is the score at or below which keywords are discarded.
const DefaultThreshold = 30

// Scorer turns raw keyword strings into scored keywords.
type Scorer struct {
	rules     RuleSet
	threshold int
	pinned    map[string]keyword.Category
}

// NewScorer creates a scorer over rules. A negative threshold selects
// DefaultThreshold.
func NewScorer(rules RuleSet, threshold int) *Scorer {
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	return &Scorer{rules: rules, threshold: threshold}
}

// Threshold returns the discard threshold in use.
func (s *Scorer) Threshold() int {
	return s.threshold
}

// WithCategories returns a copy of s that assigns the given categories to
// exactly matching keywords instead of running the category rules. Keys are
// normalized. Intent, difficulty and volume are still rule-based.
func (s *Scorer) WithCategories(pins map[string]keyword.Category) *Scorer {
	out := &Scorer{rules: s.rules, threshold: s.threshold, pinned: make(map[string]keyword.Category, len(s.pinned)+len(pins))}
	for text, cat := range s.pinned {
		out.pinned[text] = cat
	}
	for text, cat := range pins {
		out.pinned[keyword.Normalize(text)] = cat
	}
	return out
}

// Rules returns the rule set in use.
func (s *Scorer) Rules() RuleSet {
	return s.rules
}

// Score computes the full scoring tuple for raw. It is a pure function of
// its input.
func (s *Scorer) Score(raw string) keyword.Keyword {
	text := keyword.Normalize(raw)
	k := keyword.Keyword{
		Text:     text,
		Category: s.rules.Categorize(text),
		Intent:   s.rules.ClassifyIntent(text),
	}
	if cat, ok := s.pinned[text]; ok {
		k.Category = cat
	}
	k.Difficulty = s.Difficulty(text)
	k.Volume = s.Volume(text)
	k.Score = s.composite(k)
	return k
}

// Difficulty estimates ranking difficulty on a 0-100 scale.
func (s *Scorer) Difficulty(text string) int {
	lower := strings.ToLower(text)
	d := s.rules.BaseDifficulty
	for _, b := range s.rules.DifficultyBonuses {
		if containsAny(lower, b.Substrings) {
			d += b.Points
		}
	}
	// Character length, not word count.
	if len(text) > s.rules.LengthThreshold {
		d += s.rules.LengthBonus
	}
	return clamp(d, 0, 100)
}

// Volume estimates monthly search volume. The estimate is additive and
// uncalibrated.
func (s *Scorer) Volume(text string) int {
	lower := strings.ToLower(text)
	v := s.rules.BaseVolume
	for _, b := range s.rules.VolumeBonuses {
		if containsAny(lower, b.Substrings) {
			v += b.Points
		}
	}
	if v < 0 {
		v = 0
	}
	return v
}

func (s *Scorer) composite(k keyword.Keyword) int {
	total := 50 + 10*math.Log(float64(k.Volume)+1)

	switch k.Intent {
	case keyword.Commercial:
		total += 20
	case keyword.Transactional:
		total += 15
	}

	if k.Difficulty >= 40 && k.Difficulty <= 70 {
		total += 10
	}

	words := k.WordCount()
	if words >= 3 {
		total += 15
	}
	if words >= 4 {
		total += 10
	}

	if s.rules.isHighValue(k.Category) {
		total += 15
	} else if s.rules.isMediumValue(k.Category) {
		total += 10
	}

	rounded := int(math.Round(total))
	if rounded < 0 {
		return 0
	}
	return rounded
}

// Result holds the outcome of scoring a batch of raw keywords.
type Result struct {
	Kept      []keyword.Keyword
	Discarded []keyword.Keyword
}

// ScoreAll normalizes, dedupes and scores texts, discarding keywords whose
// score does not exceed the threshold. Input order is preserved.
func (s *Scorer) ScoreAll(texts []string) Result {
	unique := keyword.NormalizeAll(texts)
	res := Result{Kept: make([]keyword.Keyword, 0, len(unique))}
	for _, text := range unique {
		k := s.Score(text)
		if k.Score <= s.threshold {
			res.Discarded = append(res.Discarded, k)
			continue
		}
		res.Kept = append(res.Kept, k)
	}
	return res
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
