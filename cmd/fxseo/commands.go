package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/fxseo/pkg/fxseo"
	"github.com/cognicore/fxseo/pkg/fxseo/config"
	"github.com/cognicore/fxseo/pkg/fxseo/internalerr"
	"github.com/cognicore/fxseo/pkg/fxseo/store/postgres"
)

// outputFlags are overrides shared by run, research and schedule.
type outputFlags struct {
	outDir string
	start  string
	driver string
	dsn    string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.outDir, "output", "", "report directory (overrides output.dir)")
	cmd.Flags().StringVar(&f.start, "start", "", "first calendar day, YYYY-MM-DD (overrides plan.start_date)")
	cmd.Flags().StringVar(&f.driver, "driver", "", "store driver: memory, sqlite or postgres")
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "store connection string or SQLite path")
}

func (f *outputFlags) apply(cfg *config.Config) error {
	if f.outDir != "" {
		cfg.Output.Dir = f.outDir
	}
	if f.start != "" {
		cfg.Plan.StartDate = f.start
	}
	if f.driver != "" {
		cfg.Store.Driver = f.driver
	}
	if f.dsn != "" {
		cfg.Store.DSN = f.dsn
	}
	return cfg.Validate()
}

func newRunCmd(a *app) *cobra.Command {
	var flags outputFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run keyword research and build the content calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(a.cfg); err != nil {
				return err
			}
			return a.runOnce(cmd.Context(), fxseo.RunOptions{}, cmd.OutOrStdout())
		},
	}
	flags.register(cmd)
	return cmd
}

func newResearchCmd(a *app) *cobra.Command {
	var flags outputFlags
	cmd := &cobra.Command{
		Use:   "research",
		Short: "Run keyword research only, without a content calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(a.cfg); err != nil {
				return err
			}
			return a.runOnce(cmd.Context(), fxseo.RunOptions{SkipCalendar: true}, cmd.OutOrStdout())
		},
	}
	flags.register(cmd)
	return cmd
}

func newScoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "score <keyword>...",
		Short: "Print the category, intent and scores of keywords",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.scorer()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(args))
			for _, raw := range args {
				k := sc.Score(raw)
				kept := "yes"
				if k.Score <= sc.Threshold() {
					kept = "no"
				}
				rows = append(rows, []string{
					k.Text,
					string(k.Category),
					string(k.Intent),
					strconv.Itoa(k.Difficulty),
					strconv.Itoa(k.Volume),
					strconv.Itoa(k.Score),
					kept,
				})
			}

			header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
			cell := lipgloss.NewStyle().Padding(0, 1)
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Keyword", "Category", "Intent", "Difficulty", "Volume", "Score", "Kept").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return header
					}
					return cell
				})
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func newScheduleCmd(a *app) *cobra.Command {
	var (
		flags outputFlags
		expr  string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the full pipeline on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(a.cfg); err != nil {
				return err
			}
			if expr == "" {
				expr = a.cfg.Schedule.Cron
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := newScheduler(ctx, a, expr)
			if err != nil {
				return err
			}
			c.Start()
			a.logger.Info("scheduler started", zap.String("cron", expr))

			<-ctx.Done()
			<-c.Stop().Done()
			a.logger.Info("scheduler stopped")
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&expr, "cron", "", "cron expression (overrides schedule.cron)")
	return cmd
}

// newScheduler registers one pipeline job on expr. A failing run is logged;
// the schedule keeps going.
func newScheduler(ctx context.Context, a *app, expr string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		a.logger.Info("scheduled run starting")
		if err := a.runOnce(ctx, fxseo.RunOptions{}, os.Stdout); err != nil {
			a.logger.Error("scheduled run failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %v: %w", expr, err, internalerr.ErrInvalidConfig)
	}
	return c, nil
}

func newMigrateCmd(a *app) *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded Postgres migrations",
		Long: `Apply all pending Postgres migrations for the comprehensive_keywords and
content_calendar tables. SQLite databases create their schema on open and
need no migration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				dsn = a.cfg.Store.DSN
			}
			if dsn == "" {
				return fmt.Errorf("migrate: no postgres connection string (set --dsn, store.dsn or DATABASE_URL): %w", internalerr.ErrInvalidConfig)
			}
			if err := postgres.RunMigrations(dsn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "postgres connection string (overrides store.dsn)")
	return cmd
}

func newRulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the scoring rules in use as YAML",
		Long: `Print the scoring rules in use (built-in, or scoring.rules_file when set)
as YAML. The output is a valid rules file and can be edited and passed back
through scoring.rules_file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.scorer()
			if err != nil {
				return err
			}
			return config.ExportRules(cmd.OutOrStdout(), sc.Rules())
		},
	}
}
