package cluster

import (
	"math"
	"sort"

	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
)

// Cluster groups scored keywords that share a category.
type Cluster struct {
	Category      keyword.Category  `json:"category"`
	Keywords      []keyword.Keyword `json:"keywords"`
	AvgScore      float64           `json:"avg_score"`
	TotalVolume   int               `json:"total_volume"`
	AvgDifficulty float64           `json:"avg_difficulty"`
}

// Size returns the number of keywords in the cluster.
func (c Cluster) Size() int {
	return len(c.Keywords)
}

// Build partitions keywords by category and computes aggregates per
// partition. Keywords inside a cluster are ordered by score (desc, ties by
// text) and clusters are ordered by average score (desc, ties by category).
// The input slice is not modified.
func Build(keywords []keyword.Keyword) []Cluster {
	groups := make(map[keyword.Category][]keyword.Keyword)
	for _, k := range keywords {
		groups[k.Category] = append(groups[k.Category], k)
	}

	clusters := make([]Cluster, 0, len(groups))
	for cat, members := range groups {
		if len(members) == 0 {
			continue
		}
		sorted := append([]keyword.Keyword(nil), members...)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Score != sorted[j].Score {
				return sorted[i].Score > sorted[j].Score
			}
			return sorted[i].Text < sorted[j].Text
		})
		clusters = append(clusters, aggregate(cat, sorted))
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].AvgScore != clusters[j].AvgScore {
			return clusters[i].AvgScore > clusters[j].AvgScore
		}
		return clusters[i].Category < clusters[j].Category
	})
	return clusters
}

func aggregate(cat keyword.Category, members []keyword.Keyword) Cluster {
	var scoreSum, diffSum float64
	volume := 0
	for _, k := range members {
		scoreSum += float64(k.Score)
		diffSum += float64(k.Difficulty)
		volume += k.Volume
	}
	n := float64(len(members))
	return Cluster{
		Category:      cat,
		Keywords:      members,
		AvgScore:      scoreSum / n,
		TotalVolume:   volume,
		AvgDifficulty: diffSum / n,
	}
}

// ContentPotential blends log-volume, score, keyword count and inverse
// difficulty into a single figure, roughly on a 0-100 scale.
func ContentPotential(c Cluster) float64 {
	if c.Size() == 0 {
		return 0
	}
	volumeTerm := 10 * math.Log10(float64(c.TotalVolume)+1)
	countTerm := math.Min(float64(c.Size()), 50)
	return 0.3*volumeTerm + 0.4*c.AvgScore + 0.2*countTerm + 0.1*(100-c.AvgDifficulty)
}

// CommercialFraction is the share of keywords with commercial intent.
func CommercialFraction(c Cluster) float64 {
	if c.Size() == 0 {
		return 0
	}
	commercial := 0
	for _, k := range c.Keywords {
		if k.Intent == keyword.Commercial {
			commercial++
		}
	}
	return float64(commercial) / float64(c.Size())
}

// PriorityScore ranks clusters for content planning.
func PriorityScore(c Cluster) float64 {
	if c.Size() == 0 {
		return 0
	}
	p := ContentPotential(c) + 20*CommercialFraction(c)
	if c.AvgDifficulty < 50 {
		p += 10
	}
	return p
}

// Totals summarizes a set of clusters.
type Totals struct {
	Clusters    int     `json:"clusters"`
	Keywords    int     `json:"keywords"`
	TotalVolume int     `json:"total_volume"`
	AvgScore    float64 `json:"avg_score"`
}

// Summary aggregates across clusters. AvgScore is the keyword-weighted mean.
func Summary(clusters []Cluster) Totals {
	t := Totals{Clusters: len(clusters)}
	var scoreSum float64
	for _, c := range clusters {
		t.Keywords += c.Size()
		t.TotalVolume += c.TotalVolume
		scoreSum += c.AvgScore * float64(c.Size())
	}
	if t.Keywords > 0 {
		t.AvgScore = scoreSum / float64(t.Keywords)
	}
	return t
}

// QuickWinMaxDifficulty bounds the difficulty of quick-win keywords.
const QuickWinMaxDifficulty = 60

// QuickWins returns up to limit keywords with difficulty at or below
// QuickWinMaxDifficulty, best score first. A non-positive limit returns all.
func QuickWins(keywords []keyword.Keyword, limit int) []keyword.Keyword {
	var wins []keyword.Keyword
	for _, k := range keywords {
		if k.Difficulty <= QuickWinMaxDifficulty {
			wins = append(wins, k)
		}
	}
	sort.SliceStable(wins, func(i, j int) bool {
		if wins[i].Score != wins[j].Score {
			return wins[i].Score > wins[j].Score
		}
		return wins[i].Text < wins[j].Text
	})
	if limit > 0 && len(wins) > limit {
		wins = wins[:limit]
	}
	return wins
}

// Breakdown counts keywords per category and per intent.
type Breakdown struct {
	ByCategory map[keyword.Category]int `json:"by_category"`
	ByIntent   map[keyword.Intent]int   `json:"by_intent"`
}

// Count builds a Breakdown over keywords.
func Count(keywords []keyword.Keyword) Breakdown {
	b := Breakdown{
		ByCategory: make(map[keyword.Category]int),
		ByIntent:   make(map[keyword.Intent]int),
	}
	for _, k := range keywords {
		b.ByCategory[k.Category]++
		b.ByIntent[k.Intent]++
	}
	return b
}
