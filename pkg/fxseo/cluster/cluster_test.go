package cluster

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
)

func sampleKeywords() []keyword.Keyword {
	return []keyword.Keyword{
		{Text: "best forex broker", Category: keyword.BrokerReviews, Intent: keyword.Commercial, Difficulty: 90, Volume: 550, Score: 150},
		{Text: "ecn broker review", Category: keyword.BrokerReviews, Intent: keyword.Commercial, Difficulty: 70, Volume: 600, Score: 160},
		{Text: "forex trading", Category: keyword.GeneralForex, Intent: keyword.Informational, Difficulty: 75, Volume: 600, Score: 114},
		{Text: "pip value", Category: keyword.GeneralForex, Intent: keyword.Informational, Difficulty: 60, Volume: 100, Score: 106},
		{Text: "mt4 download", Category: keyword.TradingPlatforms, Intent: keyword.Informational, Difficulty: 60, Volume: 100, Score: 121},
	}
}

func TestBuildAggregates(t *testing.T) {
	clusters := Build(sampleKeywords())
	if len(clusters) != 3 {
		t.Fatalf("expected 3 clusters, got %d", len(clusters))
	}

	for _, c := range clusters {
		var scoreSum, diffSum float64
		volume := 0
		for _, k := range c.Keywords {
			if k.Category != c.Category {
				t.Errorf("keyword %q in wrong cluster %s", k.Text, c.Category)
			}
			scoreSum += float64(k.Score)
			diffSum += float64(k.Difficulty)
			volume += k.Volume
		}
		n := float64(len(c.Keywords))
		if math.Abs(c.AvgScore-scoreSum/n) > 1e-9 {
			t.Errorf("%s: avg score %f, want %f", c.Category, c.AvgScore, scoreSum/n)
		}
		if math.Abs(c.AvgDifficulty-diffSum/n) > 1e-9 {
			t.Errorf("%s: avg difficulty %f, want %f", c.Category, c.AvgDifficulty, diffSum/n)
		}
		if c.TotalVolume != volume {
			t.Errorf("%s: total volume %d, want %d", c.Category, c.TotalVolume, volume)
		}
	}
}

func TestBuildOrdering(t *testing.T) {
	clusters := Build(sampleKeywords())

	got := make([]keyword.Category, len(clusters))
	for i, c := range clusters {
		got[i] = c.Category
	}
	want := []keyword.Category{keyword.BrokerReviews, keyword.TradingPlatforms, keyword.GeneralForex}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cluster order mismatch (-want +got):\n%s", diff)
	}

	broker := clusters[0]
	if broker.Keywords[0].Text != "ecn broker review" {
		t.Errorf("expected highest score first, got %q", broker.Keywords[0].Text)
	}
}

func TestBuildEmpty(t *testing.T) {
	if clusters := Build(nil); len(clusters) != 0 {
		t.Fatalf("expected no clusters, got %d", len(clusters))
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	in := sampleKeywords()
	before := append([]keyword.Keyword(nil), in...)
	Build(in)
	if diff := cmp.Diff(before, in); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestPriorityScore(t *testing.T) {
	c := Cluster{
		Category: keyword.BrokerReviews,
		Keywords: []keyword.Keyword{
			{Intent: keyword.Commercial},
			{Intent: keyword.Informational},
		},
		AvgScore:      100,
		TotalVolume:   999,
		AvgDifficulty: 40,
	}
	// potential = 0.3*10*log10(1000) + 0.4*100 + 0.2*2 + 0.1*60 = 9 + 40 + 0.4 + 6
	wantPotential := 55.4
	if got := ContentPotential(c); math.Abs(got-wantPotential) > 1e-9 {
		t.Errorf("ContentPotential = %f, want %f", got, wantPotential)
	}
	// + 20*0.5 commercial + 10 low difficulty
	if got := PriorityScore(c); math.Abs(got-(wantPotential+20)) > 1e-9 {
		t.Errorf("PriorityScore = %f, want %f", got, wantPotential+20)
	}
	if PriorityScore(Cluster{}) != 0 {
		t.Error("empty cluster should have zero priority")
	}
}

func TestSummary(t *testing.T) {
	clusters := Build(sampleKeywords())
	totals := Summary(clusters)

	want := Totals{Clusters: 3, Keywords: 5, TotalVolume: 1950, AvgScore: (150 + 160 + 114 + 106 + 121) / 5.0}
	if diff := cmp.Diff(want, totals, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestQuickWins(t *testing.T) {
	wins := QuickWins(sampleKeywords(), 1)
	if len(wins) != 1 || wins[0].Text != "mt4 download" {
		t.Fatalf("expected mt4 download as top quick win, got %+v", wins)
	}
	all := QuickWins(sampleKeywords(), 0)
	if len(all) != 2 {
		t.Fatalf("expected 2 quick wins, got %d", len(all))
	}
	for _, k := range all {
		if k.Difficulty > QuickWinMaxDifficulty {
			t.Errorf("quick win %q too difficult: %d", k.Text, k.Difficulty)
		}
	}
}

func TestCount(t *testing.T) {
	b := Count(sampleKeywords())
	if b.ByCategory[keyword.BrokerReviews] != 2 || b.ByCategory[keyword.GeneralForex] != 2 {
		t.Errorf("unexpected category counts: %v", b.ByCategory)
	}
	if b.ByIntent[keyword.Commercial] != 2 || b.ByIntent[keyword.Informational] != 3 {
		t.Errorf("unexpected intent counts: %v", b.ByIntent)
	}
}
