package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/fxseo/internal/logging"
	"github.com/cognicore/fxseo/internal/seeds"
	"github.com/cognicore/fxseo/pkg/fxseo"
	"github.com/cognicore/fxseo/pkg/fxseo/config"
	"github.com/cognicore/fxseo/pkg/fxseo/metrics"
	"github.com/cognicore/fxseo/pkg/fxseo/plan"
	"github.com/cognicore/fxseo/pkg/fxseo/report"
	"github.com/cognicore/fxseo/pkg/fxseo/score"
	"github.com/cognicore/fxseo/pkg/fxseo/store"
	"github.com/cognicore/fxseo/pkg/fxseo/store/memstore"
	"github.com/cognicore/fxseo/pkg/fxseo/store/postgres"
	"github.com/cognicore/fxseo/pkg/fxseo/store/sqlite"
)

// app carries state shared by all subcommands once the root pre-run has
// loaded configuration.
type app struct {
	configFile string
	envFile    string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "fxseo",
		Short: "Forex keyword research and content calendar planner",
		Long: `fxseo generates forex keyword candidates, scores and clusters them,
maps clusters onto content pillars and schedules a 13-week weekday content
calendar. Results are stored (memory, SQLite or Postgres) and written as
CSV, JSON and Markdown reports to a directory or a Cloud Storage bucket.

Examples:
  fxseo run --output reports/
  fxseo research --driver sqlite --dsn fxseo.db
  fxseo score "best forex broker review" "mt4 vs mt5"
  fxseo schedule --cron "0 6 * * 1"
  fxseo migrate
  fxseo rules > rules.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is ./fxseo.yaml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the environment")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "override log.format (json|console)")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newResearchCmd(a))
	root.AddCommand(newScoreCmd(a))
	root.AddCommand(newScheduleCmd(a))
	root.AddCommand(newMigrateCmd(a))
	root.AddCommand(newRulesCmd(a))
	return root
}

func (a *app) init() error {
	cfg, err := config.Loader{ConfigFile: a.configFile, EnvFile: a.envFile}.Load()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

func (a *app) scorer() (*score.Scorer, error) {
	rules := score.DefaultRules()
	if a.cfg.Scoring.RulesFile != "" {
		var err error
		if rules, err = config.LoadRules(a.cfg.Scoring.RulesFile); err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
	}
	return score.NewScorer(rules, a.cfg.Scoring.Threshold), nil
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	switch a.cfg.Store.Driver {
	case "sqlite":
		return sqlite.OpenSQLite(ctx, a.cfg.Store.DSN)
	case "postgres":
		pg, err := postgres.Open(ctx, a.cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return memstore.New(), nil
	}
}

// openSink returns the report sink and a release func.
func (a *app) openSink(ctx context.Context) (report.Sink, func(), error) {
	if a.cfg.Output.GCSBucket != "" {
		gcs, err := report.NewGCSSink(ctx, a.cfg.Output.GCSBucket, a.cfg.Output.GCSPrefix)
		if err != nil {
			return nil, nil, err
		}
		return gcs, func() { gcs.Close() }, nil
	}
	return report.DirSink{Dir: a.cfg.Output.Dir}, func() {}, nil
}

// pipeline assembles a Pipeline from configuration. The returned func
// releases the store and sink.
func (a *app) pipeline(ctx context.Context, rec *metrics.Recorder) (*fxseo.Pipeline, func(), error) {
	sc, err := a.scorer()
	if err != nil {
		return nil, nil, err
	}

	var extra []string
	if a.cfg.Input.SeedsFile != "" {
		loaded, err := seeds.Load(a.cfg.Input.SeedsFile, a.logger)
		if err != nil {
			return nil, nil, err
		}
		extra = loaded.Keywords
		sc = sc.WithCategories(loaded.Categories)
	}

	var start time.Time
	if a.cfg.Plan.StartDate != "" {
		if start, err = a.cfg.StartDate(time.Now()); err != nil {
			return nil, nil, err
		}
	}

	st, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	sink, closeSink, err := a.openSink(ctx)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	p := fxseo.New(fxseo.Options{
		Store:      st,
		Sink:       sink,
		Scorer:     sc,
		ExtraSeeds: extra,
		Plan:       plan.Options{Start: start, Days: a.cfg.Plan.Days},
		BatchSize:  a.cfg.Store.BatchSize,
		Metrics:    rec,
		Logger:     a.logger,
	})
	cleanup := func() {
		closeSink()
		if err := p.Close(); err != nil {
			a.logger.Warn("close store", zap.Error(err))
		}
	}
	return p, cleanup, nil
}

// runOnce executes one pipeline run and pushes metrics when configured.
func (a *app) runOnce(ctx context.Context, ro fxseo.RunOptions, out io.Writer) error {
	rec := metrics.NewRecorder()
	p, cleanup, err := a.pipeline(ctx, rec)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := p.Run(ctx, ro)
	if err != nil {
		return err
	}
	if err := rec.Push(ctx, a.cfg.Metrics.Pushgateway, a.cfg.Metrics.Job); err != nil {
		a.logger.Warn("metrics push failed", zap.Error(err))
	}

	s := res.Report.Summary
	fmt.Fprintf(out, "run %s: %d keywords kept (%d discarded), %d clusters, %d calendar items, %d stored, %d failed\n",
		res.RunID, s.Kept, s.Discarded, s.Clusters, res.Report.Calendar.Items,
		res.Report.Persisted.Written, res.Report.Persisted.Failed)
	for _, f := range res.Files {
		fmt.Fprintf(out, "  wrote %s\n", f)
	}
	return nil
}
