package generate

import "github.com/cognicore/fxseo/pkg/fxseo/keyword"

// Caps on the combinatorial space of ExpandLongTail.
const (
	MaxBaseKeywords = 100
	MaxModifiers    = 15
	MinLongTailLen  = 10
	MaxLongTailLen  = 80
)

// ExpandLongTail joins each base keyword with each modifier. Only the first
// MaxBaseKeywords bases and MaxModifiers modifiers participate, and only
// variations whose byte length lies strictly between MinLongTailLen and
// MaxLongTailLen are kept. Output is deduped and ordered base-major.
func ExpandLongTail(base, modifiers []string) []string {
	if len(base) > MaxBaseKeywords {
		base = base[:MaxBaseKeywords]
	}
	if len(modifiers) > MaxModifiers {
		modifiers = modifiers[:MaxModifiers]
	}

	variations := make([]string, 0, len(base)*len(modifiers))
	for _, b := range base {
		if b == "" {
			continue
		}
		for _, m := range modifiers {
			if m == "" {
				continue
			}
			v := b + " " + m
			if len(v) > MinLongTailLen && len(v) < MaxLongTailLen {
				variations = append(variations, v)
			}
		}
	}
	return keyword.Dedupe(variations)
}
