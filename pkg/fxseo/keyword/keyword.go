package keyword

import (
	"strings"
	"unicode"
)

// Category is the topical bucket a keyword belongs to.
type Category string

const (
	GeneralForex      Category = "general_forex"
	BrokerReviews     Category = "broker_reviews"
	TradingPlatforms  Category = "trading_platforms"
	TradingStrategies Category = "trading_strategies"
	ForexEducation    Category = "forex_education"
	RegulationSafety  Category = "regulation_safety"
	AccountTypes      Category = "account_types"
	PaymentMethods    Category = "payment_methods"
	Geographic        Category = "geographic"
	ExperienceLevel   Category = "experience_level"
	ProblemSolution   Category = "problem_solution"
)

// Categories lists every known category in declaration order.
var Categories = []Category{
	GeneralForex,
	BrokerReviews,
	TradingPlatforms,
	TradingStrategies,
	ForexEducation,
	RegulationSafety,
	AccountTypes,
	PaymentMethods,
	Geographic,
	ExperienceLevel,
	ProblemSolution,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Intent classifies why a searcher issues a query.
type Intent string

const (
	Informational Intent = "informational"
	Commercial    Intent = "commercial"
	Transactional Intent = "transactional"
	Navigational  Intent = "navigational"
)

// Intents lists every known search intent.
var Intents = []Intent{Informational, Commercial, Transactional, Navigational}

// Valid reports whether i is one of the known intents.
func (i Intent) Valid() bool {
	for _, known := range Intents {
		if i == known {
			return true
		}
	}
	return false
}

// Keyword is a scored search phrase. Values are never mutated after scoring.
type Keyword struct {
	Text       string   `json:"keyword"`
	Category   Category `json:"category"`
	Intent     Intent   `json:"search_intent"`
	Difficulty int      `json:"difficulty"`
	Volume     int      `json:"estimated_volume"`
	Score      int      `json:"score"`
}

// WordCount returns the number of whitespace separated words in the keyword.
func (k Keyword) WordCount() int {
	return len(Words(k.Text))
}

// Normalize lowercases raw, trims it and collapses runs of whitespace to a
// single space.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	pendingSpace := false
	for _, r := range raw {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Words splits text on whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// Dedupe drops empty and repeated strings, keeping first-seen order.
func Dedupe(in []string) []string {
	set := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, val := range in {
		if val == "" {
			continue
		}
		if _, ok := set[val]; ok {
			continue
		}
		set[val] = struct{}{}
		out = append(out, val)
	}
	return out
}

// NormalizeAll normalizes every entry and dedupes the result.
func NormalizeAll(in []string) []string {
	normalized := make([]string, len(in))
	for i, raw := range in {
		normalized[i] = Normalize(raw)
	}
	return Dedupe(normalized)
}
