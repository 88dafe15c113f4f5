package seeds

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seeds.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMixedFormats(t *testing.T) {
	path := writeFile(t, `# extra seeds
Forex Broker Kenya
{"keyword": "pepperstone vs ic markets", "category": "broker_reviews"}

forex broker kenya
{"keyword": ""}
{not json
`)
	core, logs := observer.New(zap.WarnLevel)

	loaded, err := Load(path, zap.New(core))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := loaded.Keywords
	want := []string{"forex broker kenya", "pepperstone vs ic markets"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("seed %d: got %q, want %q", i, got[i], want[i])
		}
	}
	if logs.Len() != 2 {
		t.Errorf("expected 2 warnings for malformed lines, got %d", logs.Len())
	}
}

func TestLoadEmpty(t *testing.T) {
	path := writeFile(t, "# only comments\n\n")
	if _, err := Load(path, nil); err == nil {
		t.Fatal("expected error for file without seeds")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadCategoryHints(t *testing.T) {
	path := writeFile(t, `{"keyword": "Kenya Forex Guide", "category": "geographic"}
{"keyword": "pip calculator", "category": "not_a_category"}
{"keyword": "swap rates"}
leverage explained
`)
	core, logs := observer.New(zap.WarnLevel)

	loaded, err := Load(path, zap.New(core))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Keywords) != 4 {
		t.Fatalf("expected 4 seeds, got %v", loaded.Keywords)
	}
	if len(loaded.Categories) != 1 || loaded.Categories["kenya forex guide"] != keyword.Geographic {
		t.Errorf("unexpected category pins %v", loaded.Categories)
	}
	if logs.FilterMessage("ignoring unknown seed category").Len() != 1 {
		t.Errorf("expected a warning for the unknown category")
	}
}
