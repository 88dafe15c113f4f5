package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/fxseo/pkg/fxseo/score"
)

// RulesFromSet converts rs into its YAML form. Every section is filled, so
// loading the result reproduces rs exactly.
func RulesFromSet(rs score.RuleSet) Rules {
	r := Rules{
		DefaultCategory: string(rs.DefaultCategory),
		DefaultIntent:   string(rs.DefaultIntent),
		Difficulty: &Difficulty{
			Base:            rs.BaseDifficulty,
			LengthThreshold: rs.LengthThreshold,
			LengthBonus:     rs.LengthBonus,
			Bonuses:         bonusRules(rs.DifficultyBonuses),
		},
		Volume: &Volume{
			Base:    rs.BaseVolume,
			Bonuses: bonusRules(rs.VolumeBonuses),
		},
		ValueTiers: &ValueTiers{},
	}
	for _, c := range rs.Categories {
		r.Categories = append(r.Categories, MatchRule{Name: string(c.Category), Match: c.Substrings})
	}
	for _, i := range rs.Intents {
		r.Intents = append(r.Intents, MatchRule{Name: string(i.Intent), Match: i.Substrings})
	}
	for _, c := range rs.HighValue {
		r.ValueTiers.High = append(r.ValueTiers.High, string(c))
	}
	for _, c := range rs.MediumValue {
		r.ValueTiers.Medium = append(r.ValueTiers.Medium, string(c))
	}
	return r
}

func bonusRules(in []score.Bonus) []BonusRule {
	out := make([]BonusRule, 0, len(in))
	for _, b := range in {
		out = append(out, BonusRule{Points: b.Points, Match: b.Substrings})
	}
	return out
}

// ExportRules writes rs as a YAML rules file that LoadRules accepts.
func ExportRules(w io.Writer, rs score.RuleSet) error {
	if w == nil {
		return fmt.Errorf("export rules: nil writer")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(RulesFromSet(rs)); err != nil {
		return fmt.Errorf("export rules: %w", err)
	}
	return enc.Close()
}
