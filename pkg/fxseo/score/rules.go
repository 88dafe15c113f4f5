package score

import (
	"strings"

	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
)

// CategoryRule assigns Category when any of Substrings occurs in a keyword.
type CategoryRule struct {
	Category   keyword.Category
	Substrings []string
}

// IntentRule assigns Intent when any of Substrings occurs in a keyword.
type IntentRule struct {
	Intent     keyword.Intent
	Substrings []string
}

// Bonus adds Points once when any of Substrings occurs in a keyword.
type Bonus struct {
	Substrings []string
	Points     int
}

// RuleSet is the ordered heuristic used to categorize and score keywords.
// Category and intent rules are first-match: earlier rules win.
type RuleSet struct {
	Categories      []CategoryRule
	Intents         []IntentRule
	DefaultCategory keyword.Category
	DefaultIntent   keyword.Intent

	BaseDifficulty    int
	DifficultyBonuses []Bonus
	// LengthBonus applies when the keyword is longer than LengthThreshold
	// characters.
	LengthThreshold int
	LengthBonus     int

	BaseVolume    int
	VolumeBonuses []Bonus

	HighValue   []keyword.Category
	MediumValue []keyword.Category
}

// NewRuleSet returns an empty rule set with the default fallbacks.
func NewRuleSet() RuleSet {
	return RuleSet{
		DefaultCategory: keyword.GeneralForex,
		DefaultIntent:   keyword.Informational,
	}
}

// AddCategory appends a category rule after all existing ones.
func (r *RuleSet) AddCategory(cat keyword.Category, substrings []string) {
	r.Categories = append(r.Categories, CategoryRule{Category: cat, Substrings: lowerAll(substrings)})
}

// AddIntent appends an intent rule after all existing ones.
func (r *RuleSet) AddIntent(intent keyword.Intent, substrings []string) {
	r.Intents = append(r.Intents, IntentRule{Intent: intent, Substrings: lowerAll(substrings)})
}

// AddDifficultyBonus registers an additive difficulty bonus.
func (r *RuleSet) AddDifficultyBonus(points int, substrings []string) {
	r.DifficultyBonuses = append(r.DifficultyBonuses, Bonus{Substrings: lowerAll(substrings), Points: points})
}

// AddVolumeBonus registers an additive volume bonus.
func (r *RuleSet) AddVolumeBonus(points int, substrings []string) {
	r.VolumeBonuses = append(r.VolumeBonuses, Bonus{Substrings: lowerAll(substrings), Points: points})
}

// DefaultRules returns the built-in forex rule set.
func DefaultRules() RuleSet {
	r := NewRuleSet()

	r.AddCategory(keyword.BrokerReviews, []string{"broker", "review"})
	r.AddCategory(keyword.TradingPlatforms, []string{"platform", "mt4", "mt5", "metatrader", "ctrader"})
	r.AddCategory(keyword.TradingStrategies, []string{"strategy", "scalping", "swing trading", "day trading", "technical analysis", "indicator"})
	r.AddCategory(keyword.RegulationSafety, []string{"regulat", "fca", "asic", "cysec", "scam", "safe"})
	r.AddCategory(keyword.AccountTypes, []string{"account", "demo", "ecn", "islamic", "leverage"})
	r.AddCategory(keyword.PaymentMethods, []string{"deposit", "withdraw", "payment", "paypal", "skrill", "neteller", "credit card"})
	r.AddCategory(keyword.ForexEducation, []string{"learn", "tutorial", "course", "how to", "what is", "guide", "basics"})
	r.AddCategory(keyword.Geographic, []string{"uk", "australia", "india", "south africa", "nigeria", "usa", "canada", "singapore", "dubai", "europe"})
	r.AddCategory(keyword.ExperienceLevel, []string{"beginner", "intermediate", "advanced", "professional", "expert"})
	r.AddCategory(keyword.ProblemSolution, []string{"problem", "mistake", "losing", "why", "fix", "avoid"})

	r.AddIntent(keyword.Commercial, []string{"review", "best", "top", "vs", "comparison"})
	r.AddIntent(keyword.Informational, []string{"how to", "learn", "tutorial"})
	r.AddIntent(keyword.Transactional, []string{"buy", "open", "account"})

	r.BaseDifficulty = 50
	r.AddDifficultyBonus(20, []string{"best", "top"})
	r.AddDifficultyBonus(15, []string{"forex trading", "currency trading"})
	r.LengthThreshold = 5
	r.LengthBonus = 10
	r.AddDifficultyBonus(10, []string{"broker"})

	r.BaseVolume = 100
	r.AddVolumeBonus(500, []string{"forex trading"})
	r.AddVolumeBonus(300, []string{"broker"})
	r.AddVolumeBonus(200, []string{"review"})
	r.AddVolumeBonus(150, []string{"best"})
	r.AddVolumeBonus(100, []string{"platform"})

	r.HighValue = []keyword.Category{keyword.BrokerReviews, keyword.TradingPlatforms, keyword.AccountTypes}
	r.MediumValue = []keyword.Category{keyword.TradingStrategies, keyword.RegulationSafety, keyword.PaymentMethods}

	return r
}

// Categorize returns the category of the first rule that matches text.
func (r RuleSet) Categorize(text string) keyword.Category {
	lower := strings.ToLower(text)
	for _, rule := range r.Categories {
		if containsAny(lower, rule.Substrings) {
			return rule.Category
		}
	}
	return r.DefaultCategory
}

// ClassifyIntent returns the intent of the first rule that matches text.
func (r RuleSet) ClassifyIntent(text string) keyword.Intent {
	lower := strings.ToLower(text)
	for _, rule := range r.Intents {
		if containsAny(lower, rule.Substrings) {
			return rule.Intent
		}
	}
	return r.DefaultIntent
}

func (r RuleSet) isHighValue(c keyword.Category) bool {
	return containsCategory(r.HighValue, c)
}

func (r RuleSet) isMediumValue(c keyword.Category) bool {
	return containsCategory(r.MediumValue, c)
}

func containsAny(text string, substrings []string) bool {
	for _, s := range substrings {
		if s != "" && strings.Contains(text, s) {
			return true
		}
	}
	return false
}

func containsCategory(list []keyword.Category, c keyword.Category) bool {
	for _, item := range list {
		if item == c {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
