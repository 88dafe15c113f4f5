package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/cognicore/fxseo/pkg/fxseo/internalerr"
)

// DateLayout is the format of plan.start_date.
const DateLayout = "2006-01-02"

// Config holds the runtime configuration of an fxseo run.
type Config struct {
	Store    Store    `mapstructure:"store"`
	Output   Output   `mapstructure:"output"`
	Input    Input    `mapstructure:"input"`
	Scoring  Scoring  `mapstructure:"scoring"`
	Plan     Plan     `mapstructure:"plan"`
	Metrics  Metrics  `mapstructure:"metrics"`
	Log      Log      `mapstructure:"log"`
	Schedule Schedule `mapstructure:"schedule"`
}

// Store selects the persistence backend.
type Store struct {
	Driver    string `mapstructure:"driver"`
	DSN       string `mapstructure:"dsn"`
	BatchSize int    `mapstructure:"batch_size"`
}

// Output configures report destinations. When GCSBucket is set reports go
// to Cloud Storage instead of Dir.
type Output struct {
	Dir       string `mapstructure:"dir"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	GCSPrefix string `mapstructure:"gcs_prefix"`
}

// Input names optional extra seed keywords.
type Input struct {
	SeedsFile string `mapstructure:"seeds_file"`
}

// Scoring configures the keyword filter and rule file.
type Scoring struct {
	Threshold int    `mapstructure:"threshold"`
	RulesFile string `mapstructure:"rules_file"`
}

// Plan configures the content calendar horizon.
type Plan struct {
	StartDate string `mapstructure:"start_date"`
	Days      int    `mapstructure:"days"`
}

// Metrics configures the Pushgateway target; empty disables pushing.
type Metrics struct {
	Pushgateway string `mapstructure:"pushgateway"`
	Job         string `mapstructure:"job"`
}

// Log configures the zap logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Schedule holds the cron expression used by `fxseo schedule`.
type Schedule struct {
	Cron string `mapstructure:"cron"`
}

// Drivers lists the supported store drivers.
var Drivers = []string{"memory", "sqlite", "postgres"}

// Loader reads configuration from defaults, an optional YAML file, an
// optional .env file and the environment, in increasing precedence.
type Loader struct {
	// ConfigFile is an explicit config path. Empty searches for fxseo.yaml in
	// the working directory.
	ConfigFile string

	// EnvFile is loaded with godotenv when present. Empty selects ".env".
	EnvFile string
}

// Load builds a Config without validating it, so callers can apply
// overrides first and then call Validate.
func (l Loader) Load() (*Config, error) {
	envFile := l.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	if l.ConfigFile != "" {
		v.SetConfigFile(l.ConfigFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("fxseo")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("FXSEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || l.ConfigFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	bindDatabaseURL(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.batch_size", 100)

	v.SetDefault("output.dir", "output")
	v.SetDefault("output.gcs_bucket", "")
	v.SetDefault("output.gcs_prefix", "")

	v.SetDefault("input.seeds_file", "")

	v.SetDefault("scoring.threshold", 30)
	v.SetDefault("scoring.rules_file", "")

	v.SetDefault("plan.start_date", "")
	v.SetDefault("plan.days", 91)

	v.SetDefault("metrics.pushgateway", "")
	v.SetDefault("metrics.job", "fxseo")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("schedule.cron", "0 6 * * 1")
}

// bindDatabaseURL fills store.dsn from the conventional hosting variables
// when FXSEO_STORE_DSN and the config file leave it empty.
func bindDatabaseURL(v *viper.Viper) {
	if v.GetString("store.dsn") != "" {
		return
	}
	for _, key := range []string{"DATABASE_URL", "SUPABASE_DB_URL"} {
		if value := os.Getenv(key); value != "" {
			v.Set("store.dsn", value)
			return
		}
	}
}

// Validate checks value ranges and required combinations.
func (c *Config) Validate() error {
	known := false
	for _, d := range Drivers {
		if c.Store.Driver == d {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("store.driver %q not one of %v: %w", c.Store.Driver, Drivers, internalerr.ErrInvalidConfig)
	}
	if c.Store.Driver != "memory" && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn required for driver %s: %w", c.Store.Driver, internalerr.ErrInvalidConfig)
	}
	if c.Store.BatchSize <= 0 {
		return fmt.Errorf("store.batch_size must be positive, got %d: %w", c.Store.BatchSize, internalerr.ErrInvalidConfig)
	}
	if c.Scoring.Threshold < 0 {
		return fmt.Errorf("scoring.threshold must not be negative: %w", internalerr.ErrInvalidConfig)
	}
	if c.Plan.Days <= 0 {
		return fmt.Errorf("plan.days must be positive, got %d: %w", c.Plan.Days, internalerr.ErrInvalidConfig)
	}
	start, err := c.StartDate(time.Now())
	if err != nil {
		return err
	}
	if start.Before(time.Unix(0, 0)) {
		return fmt.Errorf("plan.start_date %q is before 1970-01-01: %w", c.Plan.StartDate, internalerr.ErrInvalidConfig)
	}
	return nil
}

// StartDate returns plan.start_date, or now when it is empty.
func (c *Config) StartDate(now time.Time) (time.Time, error) {
	if c.Plan.StartDate == "" {
		return now, nil
	}
	t, err := time.ParseInLocation(DateLayout, c.Plan.StartDate, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("plan.start_date %q: %v: %w", c.Plan.StartDate, err, internalerr.ErrInvalidConfig)
	}
	return t, nil
}
