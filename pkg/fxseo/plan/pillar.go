package plan

import (
	"github.com/cognicore/fxseo/pkg/fxseo/cluster"
	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
)

// ContentType is the editorial format of a content item.
type ContentType string

const (
	Review     ContentType = "review"
	Comparison ContentType = "comparison"
	Guide      ContentType = "guide"
	Tutorial   ContentType = "tutorial"
	Analysis   ContentType = "analysis"
	News       ContentType = "news"
)

// Pillar names used by the default day rules.
const (
	PillarBrokerReviews = "Broker Reviews & Comparisons"
	PillarEducation     = "Trading Education"
	PillarStrategies    = "Trading Strategies"
	PillarPlatforms     = "Platforms & Tools"
	PillarSafety        = "Safety & Regulation"
	PillarPayments      = "Payments & Regional Guides"
)

// Pillar is an editorial theme covering one or more keyword categories.
type Pillar struct {
	Name                string             `json:"name"`
	Categories          []keyword.Category `json:"categories"`
	ContentTypes        []ContentType      `json:"content_types"`
	PublishingFrequency string             `json:"publishing_frequency"`
	TargetClusters      []cluster.Cluster  `json:"target_clusters,omitempty"`
	AvgPriorityScore    float64            `json:"avg_priority_score"`
}

// DefaultPillars returns the six built-in pillars without clusters.
func DefaultPillars() []Pillar {
	return []Pillar{
		{
			Name:                PillarBrokerReviews,
			Categories:          []keyword.Category{keyword.BrokerReviews, keyword.AccountTypes},
			ContentTypes:        []ContentType{Review, Comparison},
			PublishingFrequency: "3x per week",
		},
		{
			Name:                PillarEducation,
			Categories:          []keyword.Category{keyword.ForexEducation, keyword.ExperienceLevel, keyword.GeneralForex},
			ContentTypes:        []ContentType{Guide, Tutorial},
			PublishingFrequency: "2x per week",
		},
		{
			Name:                PillarStrategies,
			Categories:          []keyword.Category{keyword.TradingStrategies},
			ContentTypes:        []ContentType{Guide, Analysis},
			PublishingFrequency: "2x per week",
		},
		{
			Name:                PillarPlatforms,
			Categories:          []keyword.Category{keyword.TradingPlatforms},
			ContentTypes:        []ContentType{Review, Tutorial},
			PublishingFrequency: "1x per week",
		},
		{
			Name:                PillarSafety,
			Categories:          []keyword.Category{keyword.RegulationSafety, keyword.ProblemSolution},
			ContentTypes:        []ContentType{Guide, News},
			PublishingFrequency: "1x per week",
		},
		{
			Name:                PillarPayments,
			Categories:          []keyword.Category{keyword.PaymentMethods, keyword.Geographic},
			ContentTypes:        []ContentType{Guide, Comparison},
			PublishingFrequency: "1x per week",
		},
	}
}

// Covers reports whether the pillar includes category c.
func (p Pillar) Covers(c keyword.Category) bool {
	for _, cat := range p.Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// AvailableKeywords flattens the pillar's clusters in cluster order.
func (p Pillar) AvailableKeywords() []keyword.Keyword {
	var out []keyword.Keyword
	for _, c := range p.TargetClusters {
		out = append(out, c.Keywords...)
	}
	return out
}

// MapPillars attaches every cluster to each pillar covering its category and
// computes AvgPriorityScore as the mean cluster priority. The input pillars
// are not modified.
func MapPillars(pillars []Pillar, clusters []cluster.Cluster) []Pillar {
	out := make([]Pillar, len(pillars))
	for i, p := range pillars {
		mapped := p
		mapped.TargetClusters = nil
		var prioritySum float64
		for _, c := range clusters {
			if !p.Covers(c.Category) {
				continue
			}
			mapped.TargetClusters = append(mapped.TargetClusters, c)
			prioritySum += cluster.PriorityScore(c)
		}
		mapped.AvgPriorityScore = 0
		if n := len(mapped.TargetClusters); n > 0 {
			mapped.AvgPriorityScore = prioritySum / float64(n)
		}
		out[i] = mapped
	}
	return out
}
