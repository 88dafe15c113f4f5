package keyword

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Best   Forex\tBroker ": "best forex broker",
		"MT4":                    "mt4",
		"":                       "",
		"   ":                    "",
		"forex\n\ntrading":       "forex trading",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDedupeKeepsFirstOrder(t *testing.T) {
	got := Dedupe([]string{"b", "a", "", "b", "c", "a"})
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestNormalizeAllMergesCaseVariants(t *testing.T) {
	got := NormalizeAll([]string{"Forex Broker", "forex  broker", "FOREX BROKER "})
	if len(got) != 1 || got[0] != "forex broker" {
		t.Fatalf("expected single normalized entry, got %v", got)
	}
}

func TestWordCount(t *testing.T) {
	k := Keyword{Text: "best forex broker review"}
	if k.WordCount() != 4 {
		t.Errorf("expected 4 words, got %d", k.WordCount())
	}
}

func TestEnumValidity(t *testing.T) {
	if !BrokerReviews.Valid() {
		t.Error("broker_reviews should be valid")
	}
	if Category("crypto").Valid() {
		t.Error("unknown category should be invalid")
	}
	if !Navigational.Valid() {
		t.Error("navigational should be valid")
	}
	if Intent("curious").Valid() {
		t.Error("unknown intent should be invalid")
	}
}

func TestNormalizeAllFoldsCase(t *testing.T) {
	got := NormalizeAll([]string{"Forex Broker", "forex  broker", "FOREX BROKER review"})
	want := []string{"forex broker", "forex broker review"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeAll = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeAll[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
