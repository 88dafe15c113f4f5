package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/fxseo/pkg/fxseo/internalerr"
	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
	"github.com/cognicore/fxseo/pkg/fxseo/score"
)

// Rules is the YAML form of a score.RuleSet. Omitted sections keep the
// built-in rules.
type Rules struct {
	Categories      []MatchRule `yaml:"categories"`
	Intents         []MatchRule `yaml:"intents"`
	DefaultCategory string      `yaml:"default_category"`
	DefaultIntent   string      `yaml:"default_intent"`
	Difficulty      *Difficulty `yaml:"difficulty"`
	Volume          *Volume     `yaml:"volume"`
	ValueTiers      *ValueTiers `yaml:"value_tiers"`
}

// MatchRule maps substrings to a category or intent name.
type MatchRule struct {
	Name  string   `yaml:"name"`
	Match []string `yaml:"match"`
}

// BonusRule adds Points when any of Match occurs.
type BonusRule struct {
	Points int      `yaml:"points"`
	Match  []string `yaml:"match"`
}

// Difficulty configures the difficulty estimate.
type Difficulty struct {
	Base            int         `yaml:"base"`
	LengthThreshold int         `yaml:"length_threshold"`
	LengthBonus     int         `yaml:"length_bonus"`
	Bonuses         []BonusRule `yaml:"bonuses"`
}

// Volume configures the search volume estimate.
type Volume struct {
	Base    int         `yaml:"base"`
	Bonuses []BonusRule `yaml:"bonuses"`
}

// ValueTiers lists the categories earning the value bonus.
type ValueTiers struct {
	High   []string `yaml:"high"`
	Medium []string `yaml:"medium"`
}

// LoadRules loads a scoring rule set from a YAML file.
func LoadRules(path string) (score.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return score.RuleSet{}, err
	}

	var raw Rules
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return score.RuleSet{}, fmt.Errorf("parse %s: %v: %w", path, err, internalerr.ErrInvalidConfig)
	}
	rs, err := raw.RuleSet()
	if err != nil {
		return score.RuleSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// RuleSet converts r into a score.RuleSet layered over score.DefaultRules.
func (r Rules) RuleSet() (score.RuleSet, error) {
	rs := score.DefaultRules()

	if len(r.Categories) > 0 {
		rs.Categories = nil
		for _, c := range r.Categories {
			cat, err := parseCategory(c.Name)
			if err != nil {
				return score.RuleSet{}, err
			}
			rs.AddCategory(cat, c.Match)
		}
	}
	if len(r.Intents) > 0 {
		rs.Intents = nil
		for _, i := range r.Intents {
			intent, err := parseIntent(i.Name)
			if err != nil {
				return score.RuleSet{}, err
			}
			rs.AddIntent(intent, i.Match)
		}
	}
	if r.DefaultCategory != "" {
		cat, err := parseCategory(r.DefaultCategory)
		if err != nil {
			return score.RuleSet{}, err
		}
		rs.DefaultCategory = cat
	}
	if r.DefaultIntent != "" {
		intent, err := parseIntent(r.DefaultIntent)
		if err != nil {
			return score.RuleSet{}, err
		}
		rs.DefaultIntent = intent
	}

	if d := r.Difficulty; d != nil {
		rs.BaseDifficulty = d.Base
		rs.LengthThreshold = d.LengthThreshold
		rs.LengthBonus = d.LengthBonus
		rs.DifficultyBonuses = nil
		for _, b := range d.Bonuses {
			rs.AddDifficultyBonus(b.Points, b.Match)
		}
	}
	if v := r.Volume; v != nil {
		rs.BaseVolume = v.Base
		rs.VolumeBonuses = nil
		for _, b := range v.Bonuses {
			rs.AddVolumeBonus(b.Points, b.Match)
		}
	}
	if t := r.ValueTiers; t != nil {
		high, err := parseCategories(t.High)
		if err != nil {
			return score.RuleSet{}, err
		}
		medium, err := parseCategories(t.Medium)
		if err != nil {
			return score.RuleSet{}, err
		}
		rs.HighValue, rs.MediumValue = high, medium
	}
	return rs, nil
}

func parseCategory(name string) (keyword.Category, error) {
	c := keyword.Category(name)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q: %w", name, internalerr.ErrInvalidConfig)
	}
	return c, nil
}

func parseCategories(names []string) ([]keyword.Category, error) {
	out := make([]keyword.Category, 0, len(names))
	for _, n := range names {
		c, err := parseCategory(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func parseIntent(name string) (keyword.Intent, error) {
	i := keyword.Intent(name)
	if !i.Valid() {
		return "", fmt.Errorf("unknown intent %q: %w", name, internalerr.ErrInvalidConfig)
	}
	return i, nil
}
