package fxseo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cognicore/fxseo/pkg/fxseo/generate"
	"github.com/cognicore/fxseo/pkg/fxseo/metrics"
	"github.com/cognicore/fxseo/pkg/fxseo/plan"
	"github.com/cognicore/fxseo/pkg/fxseo/report"
	"github.com/cognicore/fxseo/pkg/fxseo/store/memstore"
)

var monday = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

type captureSink struct {
	files map[string][]byte
}

func (c *captureSink) Put(ctx context.Context, name, contentType string, data []byte) error {
	c.files[name] = data
	return nil
}

func newTestPipeline(st *memstore.Store, sink report.Sink, rec *metrics.Recorder, logger *zap.Logger) *Pipeline {
	return New(Options{
		Store:     st,
		Sink:      sink,
		Metrics:   rec,
		Logger:    logger,
		BatchSize: 10,
		Plan:      plan.Options{Start: monday, Chooser: plan.FixedChooser(0)},
		Now:       func() time.Time { return monday },
	})
}

func TestRunEndToEnd(t *testing.T) {
	st := memstore.New()
	sink := &captureSink{files: map[string][]byte{}}
	rec := metrics.NewRecorder()

	res, err := newTestPipeline(st, sink, rec, nil).Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	require.NoError(t, err)

	rep := res.Report
	require.NotEmpty(t, rep.Keywords)
	assert.Equal(t, len(rep.Keywords), rep.Summary.Kept)
	assert.Greater(t, rep.Summary.Candidates, rep.Summary.Generated)
	assert.Len(t, rep.Pillars, 6)
	// Every default pillar has keywords, so all 13 weeks x 10 slots fill.
	assert.Equal(t, 130, rep.Calendar.Items)

	for _, k := range rep.Keywords {
		assert.Greater(t, k.Score, 30, k.Text)
	}

	stored, err := st.ListKeywords(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, stored, len(rep.Keywords))
	assert.Equal(t, len(rep.Keywords), rep.Persisted.Written)

	items, err := st.ListContentItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 130)

	assert.Len(t, res.Files, 6)
	for _, name := range res.Files {
		assert.NotEmpty(t, sink.files[name], name)
	}

	assert.Equal(t, float64(rep.Summary.Generated), testutil.ToFloat64(rec.Generated))
	assert.Equal(t, float64(130), testutil.ToFloat64(rec.Scheduled))
}

func TestRunIsDeterministicApartFromRunID(t *testing.T) {
	a, err := newTestPipeline(memstore.New(), nil, nil, nil).Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	b, err := newTestPipeline(memstore.New(), nil, nil, nil).Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Report.Keywords, b.Report.Keywords)
	require.Len(t, b.Report.Items, len(a.Report.Items))
	for i := range a.Report.Items {
		assert.Equal(t, a.Report.Items[i], b.Report.Items[i])
	}
}

func TestRunSkipsFailedBatch(t *testing.T) {
	st := memstore.New()
	core, logs := observer.New(zap.WarnLevel)
	p := newTestPipeline(st, nil, nil, zap.New(core))

	research, err := p.Research(context.Background())
	require.NoError(t, err)
	st.FailOn = research.Scored.Kept[0].Text

	res, err := p.Run(context.Background(), RunOptions{SkipCalendar: true})
	require.NoError(t, err)

	stats := res.Report.Persisted
	assert.Equal(t, 1, stats.FailedBatches)
	assert.Equal(t, 10, stats.Failed)
	assert.Equal(t, len(res.Report.Keywords)-10, stats.Written)
	assert.Equal(t, 1, logs.FilterMessage("keyword batch failed").Len())

	assert.Zero(t, res.Report.Calendar.Items)
	assert.Empty(t, res.Report.Pillars)
}

func TestRunWithCustomInputs(t *testing.T) {
	p := New(Options{
		Store: memstore.New(),
		Generators: []generate.Generator{
			generate.Static("tiny", []string{"forex broker"}),
		},
		Modifiers:  []string{"review"},
		ExtraSeeds: []string{"  MT5 Platform  "},
		Plan:       plan.Options{Start: monday, Days: 1, Chooser: plan.FixedChooser(0)},
	})

	research, err := p.Research(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"forex broker", "mt5 platform", "forex broker review", "mt5 platform review"}, research.Candidates)
	assert.Len(t, research.Scored.Kept, 4)
}

func TestRunGeneratorFailureIsFatal(t *testing.T) {
	boom := errors.New("boom")
	p := New(Options{
		Store: memstore.New(),
		Generators: []generate.Generator{
			{Name: "broken", Fn: func(ctx context.Context) ([]string, error) { return nil, boom }},
		},
	})
	_, err := p.Run(context.Background(), RunOptions{})
	require.ErrorIs(t, err, boom)
}

func TestRunUnknownPillarIsFatal(t *testing.T) {
	p := New(Options{
		Store: memstore.New(),
		Plan:  plan.Options{Start: monday, Rules: plan.DayRules{time.Monday: {"Nope"}}},
	})
	_, err := p.Run(context.Background(), RunOptions{})
	require.Error(t, err)
}

func TestRerunUpsertsCalendar(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	first, err := newTestPipeline(st, nil, nil, nil).Run(ctx, RunOptions{})
	require.NoError(t, err)
	_, err = newTestPipeline(st, nil, nil, nil).Run(ctx, RunOptions{})
	require.NoError(t, err)

	items, err := st.ListContentItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, first.Report.Calendar.Items)

	keywords, err := st.ListKeywords(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, keywords, len(first.Report.Keywords))
}
