// Package fxseo runs the forex keyword research and content planning
// pipeline: generate, expand, score, cluster, map pillars, schedule, persist
// and report.
package fxseo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cognicore/fxseo/pkg/fxseo/cluster"
	"github.com/cognicore/fxseo/pkg/fxseo/generate"
	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
	"github.com/cognicore/fxseo/pkg/fxseo/metrics"
	"github.com/cognicore/fxseo/pkg/fxseo/plan"
	"github.com/cognicore/fxseo/pkg/fxseo/report"
	"github.com/cognicore/fxseo/pkg/fxseo/score"
	"github.com/cognicore/fxseo/pkg/fxseo/store"
)

// Options configures a Pipeline. Nil fields select built-in defaults.
type Options struct {
	Store      store.Store
	Sink       report.Sink
	Scorer     *score.Scorer
	Generators []generate.Generator
	Modifiers  []string
	ExtraSeeds []string
	Pillars    []plan.Pillar
	Plan       plan.Options
	BatchSize  int
	Metrics    *metrics.Recorder
	Logger     *zap.Logger
	Now        func() time.Time
}

// Pipeline wires the phases together. It keeps no state between runs.
type Pipeline struct {
	store      store.Store
	sink       report.Sink
	scorer     *score.Scorer
	generators []generate.Generator
	modifiers  []string
	extraSeeds []string
	pillars    []plan.Pillar
	planOpts   plan.Options
	batchSize  int
	metrics    *metrics.Recorder
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		store:      opts.Store,
		sink:       opts.Sink,
		scorer:     opts.Scorer,
		generators: opts.Generators,
		modifiers:  opts.Modifiers,
		extraSeeds: opts.ExtraSeeds,
		pillars:    opts.Pillars,
		planOpts:   opts.Plan,
		batchSize:  opts.BatchSize,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		now:        opts.Now,
	}
	if p.scorer == nil {
		p.scorer = score.NewScorer(score.DefaultRules(), score.DefaultThreshold)
	}
	if p.generators == nil {
		p.generators = generate.Defaults()
	}
	if p.modifiers == nil {
		p.modifiers = generate.DefaultModifiers
	}
	if p.pillars == nil {
		p.pillars = plan.DefaultPillars()
	}
	if p.batchSize <= 0 {
		p.batchSize = store.DefaultBatchSize
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.planOpts.Logger == nil {
		p.planOpts.Logger = p.logger
	}
	return p
}

// Close releases the store.
func (p *Pipeline) Close() error {
	if p.store == nil {
		return nil
	}
	return p.store.Close()
}

// Research is the keyword half of the pipeline.
type Research struct {
	Generated  int
	Candidates []string
	Scored     score.Result
	Clusters   []cluster.Cluster
}

// Research generates, expands, scores and clusters keywords.
func (p *Pipeline) Research(ctx context.Context) (Research, error) {
	gen, err := generate.Run(ctx, p.generators, p.logger)
	if err != nil {
		return Research{}, fmt.Errorf("generate keywords: %w", err)
	}

	base := keyword.NormalizeAll(append(append([]string(nil), gen.Keywords...), p.extraSeeds...))
	longTail := generate.ExpandLongTail(base, p.modifiers)
	candidates := keyword.NormalizeAll(append(base, longTail...))

	scored := p.scorer.ScoreAll(candidates)
	clusters := cluster.Build(scored.Kept)

	p.logger.Info("keyword research complete",
		zap.Int("generated", len(gen.Keywords)),
		zap.Int("seeds", len(p.extraSeeds)),
		zap.Int("long_tail", len(longTail)),
		zap.Int("kept", len(scored.Kept)),
		zap.Int("discarded", len(scored.Discarded)),
		zap.Int("clusters", len(clusters)))

	return Research{
		Generated:  len(gen.Keywords),
		Candidates: candidates,
		Scored:     scored,
		Clusters:   clusters,
	}, nil
}

// Schedule maps clusters onto pillars and builds the content calendar.
func (p *Pipeline) Schedule(clusters []cluster.Cluster) ([]plan.Pillar, []plan.Item, error) {
	pillars := plan.MapPillars(p.pillars, clusters)
	opts := p.planOpts
	if opts.Start.IsZero() {
		opts.Start = p.now()
	}
	items, err := plan.NewGenerator(opts).Generate(pillars)
	if err != nil {
		return nil, nil, fmt.Errorf("schedule content: %w", err)
	}
	return pillars, items, nil
}

// Persist writes keywords in batches and the calendar in one call. Store
// failures are logged and counted, never returned; only cancellation is.
func (p *Pipeline) Persist(ctx context.Context, keywords []keyword.Keyword, items []plan.Item) (store.WriteStats, error) {
	if p.store == nil {
		return store.WriteStats{}, nil
	}
	stats, err := store.WriteKeywords(ctx, p.store, keywords, p.batchSize, p.logger)
	if err != nil {
		return stats, err
	}
	if len(items) > 0 {
		if err := p.store.UpsertContentItems(ctx, items); err != nil {
			p.logger.Warn("content calendar not persisted", zap.Int("items", len(items)), zap.Error(err))
		}
	}
	return stats, nil
}

// RunOptions selects the phases of a run.
type RunOptions struct {
	// SkipCalendar stops after keyword research: no pillars or calendar.
	SkipCalendar bool
}

// Result is the outcome of a full run.
type Result struct {
	RunID    string
	Report   report.Report
	Files    []string
	Duration time.Duration
}

// Run executes the pipeline end to end.
func (p *Pipeline) Run(ctx context.Context, ro RunOptions) (*Result, error) {
	started := p.now()
	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID))
	logger.Info("pipeline started")

	research, err := p.Research(ctx)
	if err != nil {
		return nil, err
	}

	var (
		pillars []plan.Pillar
		items   []plan.Item
	)
	if !ro.SkipCalendar {
		pillars, items, err = p.Schedule(research.Clusters)
		if err != nil {
			return nil, err
		}
	}

	stats, err := p.Persist(ctx, research.Scored.Kept, items)
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}

	rep := report.Build(report.Input{
		RunID:      runID,
		At:         started,
		Generated:  research.Generated,
		Candidates: len(research.Candidates),
		Discarded:  len(research.Scored.Discarded),
		Keywords:   research.Scored.Kept,
		Clusters:   research.Clusters,
		Pillars:    pillars,
		Items:      items,
		Persisted:  stats,
	})

	var files []string
	if p.sink != nil {
		files, err = (&report.Exporter{Sink: p.sink}).Export(ctx, rep)
		if err != nil {
			return nil, fmt.Errorf("export report: %w", err)
		}
	}

	finished := p.now()
	if p.metrics != nil {
		p.metrics.Observe(metrics.RunStats{
			Generated:     research.Generated,
			Kept:          len(research.Scored.Kept),
			Discarded:     len(research.Scored.Discarded),
			Written:       stats.Written,
			Failed:        stats.Failed,
			FailedBatches: stats.FailedBatches,
			Scheduled:     len(items),
			Clusters:      research.Clusters,
			Duration:      finished.Sub(started),
			FinishedAt:    finished,
		})
	}

	logger.Info("pipeline finished",
		zap.Int("keywords", len(research.Scored.Kept)),
		zap.Int("items", len(items)),
		zap.Int("written", stats.Written),
		zap.Int("failed", stats.Failed),
		zap.Strings("files", files),
		zap.Duration("duration", finished.Sub(started)))

	return &Result{RunID: runID, Report: rep, Files: files, Duration: finished.Sub(started)}, nil
}
