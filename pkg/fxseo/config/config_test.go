package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/fxseo/pkg/fxseo/internalerr"
	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
)

// isolate points the loader at an empty directory so a developer's .env or
// fxseo.yaml does not leak into the test.
func isolate(t *testing.T) Loader {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "SUPABASE_DB_URL", "FXSEO_STORE_DRIVER", "FXSEO_STORE_DSN", "FXSEO_STORE_BATCH_SIZE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	dir := t.TempDir()
	return Loader{ConfigFile: "", EnvFile: filepath.Join(dir, "missing.env")}
}

func TestLoadDefaults(t *testing.T) {
	l := isolate(t)
	t.Chdir(t.TempDir())

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != "memory" || cfg.Store.BatchSize != 100 {
		t.Errorf("unexpected store defaults %+v", cfg.Store)
	}
	if cfg.Scoring.Threshold != 30 || cfg.Plan.Days != 91 {
		t.Errorf("unexpected scoring/plan defaults %+v %+v", cfg.Scoring, cfg.Plan)
	}
	if cfg.Output.Dir != "output" || cfg.Log.Level != "info" {
		t.Errorf("unexpected output/log defaults %+v %+v", cfg.Output, cfg.Log)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	l := isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "fxseo.yaml")
	content := `store:
  driver: sqlite
  dsn: /tmp/fxseo.db
  batch_size: 50
plan:
  start_date: "2025-01-06"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	l.ConfigFile = path
	t.Setenv("FXSEO_STORE_BATCH_SIZE", "25")

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.DSN != "/tmp/fxseo.db" {
		t.Errorf("file values not applied: %+v", cfg.Store)
	}
	if cfg.Store.BatchSize != 25 {
		t.Errorf("env should override file, got batch size %d", cfg.Store.BatchSize)
	}
	start, err := cfg.StartDate(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if start.Year() != 2025 || start.Month() != time.January || start.Day() != 6 {
		t.Errorf("unexpected start date %v", start)
	}
}

func TestLoadEnvFile(t *testing.T) {
	l := isolate(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte("DATABASE_URL=postgres://localhost:5432/fxseo\nFXSEO_STORE_DRIVER=postgres\n"), 0644); err != nil {
		t.Fatal(err)
	}
	l.EnvFile = envPath
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("FXSEO_STORE_DRIVER")
	})

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != "postgres" {
		t.Errorf("expected driver from .env, got %q", cfg.Store.Driver)
	}
	if cfg.Store.DSN != "postgres://localhost:5432/fxseo" {
		t.Errorf("expected DSN from DATABASE_URL, got %q", cfg.Store.DSN)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Store: Store{Driver: "memory", BatchSize: 100},
			Plan:  Plan{Days: 91},
		}
	}

	cases := map[string]func(*Config){
		"unknown driver":     func(c *Config) { c.Store.Driver = "mysql" },
		"missing dsn":        func(c *Config) { c.Store.Driver = "postgres" },
		"zero batch":         func(c *Config) { c.Store.BatchSize = 0 },
		"negative threshold": func(c *Config) { c.Scoring.Threshold = -1 },
		"zero days":          func(c *Config) { c.Plan.Days = 0 },
		"bad start date":     func(c *Config) { c.Plan.StartDate = "06/01/2025" },
		"start before epoch": func(c *Config) { c.Plan.StartDate = "1969-12-01" },
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	for name, mutate := range cases {
		cfg := valid()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	l := isolate(t)
	t.Chdir(t.TempDir())
	t.Setenv("FXSEO_STORE_DRIVER", "sqlite")

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig before the dsn is set, got %v", err)
	}
	cfg.Store.DSN = filepath.Join(t.TempDir(), "fxseo.db")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate after override: %v", err)
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `categories:
  - name: trading_platforms
    match: [MT4, ctrader]
  - name: broker_reviews
    match: [broker]
intents:
  - name: navigational
    match: [login]
difficulty:
  base: 40
  length_threshold: 10
  length_bonus: 5
  bonuses:
    - points: 30
      match: [best]
value_tiers:
  high: [trading_platforms]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rs, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if got := rs.Categorize("mt4 broker"); got != keyword.TradingPlatforms {
		t.Errorf("expected custom rule order to win, got %s", got)
	}
	if got := rs.ClassifyIntent("oanda login"); got != keyword.Navigational {
		t.Errorf("expected navigational intent, got %s", got)
	}
	if rs.BaseDifficulty != 40 || rs.LengthThreshold != 10 || len(rs.DifficultyBonuses) != 1 {
		t.Errorf("difficulty section not applied: %+v", rs)
	}
	// Volume section omitted: built-in values survive.
	if rs.BaseVolume != 100 || len(rs.VolumeBonuses) != 5 {
		t.Errorf("expected default volume rules, got base %d with %d bonuses", rs.BaseVolume, len(rs.VolumeBonuses))
	}
	if len(rs.HighValue) != 1 || len(rs.MediumValue) != 0 {
		t.Errorf("value tiers not applied: high=%v medium=%v", rs.HighValue, rs.MediumValue)
	}
}

func TestLoadRulesUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("categories:\n  - name: crypto\n    match: [btc]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
