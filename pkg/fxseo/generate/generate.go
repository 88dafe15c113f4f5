package generate

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
)

// Func produces candidate keyword strings for one topical group.
type Func func(ctx context.Context) ([]string, error)

// Generator is a named keyword source.
type Generator struct {
	Name string
	Fn   Func
}

// Static wraps a fixed table as a generator. The returned slice is a copy.
func Static(name string, table []string) Generator {
	return Generator{
		Name: name,
		Fn: func(ctx context.Context) ([]string, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return append([]string(nil), table...), nil
		},
	}
}

// Defaults returns the built-in generators in merge order.
func Defaults() []Generator {
	return []Generator{
		Static("core", coreTerms),
		Static("broker", brokerTerms),
		Static("platform", platformTerms),
		Static("strategy", strategyTerms),
		Static("education", educationTerms),
		Static("regulation", regulationTerms),
		Static("account", accountTerms),
		Static("payment", paymentTerms),
		Static("geographic", geographicTerms),
		Static("experience", experienceTerms),
		Static("problem", problemTerms),
	}
}

// Output is the merged result of a generator run.
type Output struct {
	Keywords []string
	// PerGenerator records how many raw strings each generator returned.
	PerGenerator map[string]int
}

// Run executes every generator concurrently. Each generator writes only to
// its own result slot; the merge happens after all have returned, in
// generator order, followed by normalization and dedupe.
func Run(ctx context.Context, gens []Generator, logger *zap.Logger) (Output, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([][]string, len(gens))
	g, gctx := errgroup.WithContext(ctx)
	for i, gen := range gens {
		g.Go(func() error {
			out, err := gen.Fn(gctx)
			if err != nil {
				return fmt.Errorf("generator %s: %w", gen.Name, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Output{}, err
	}

	out := Output{PerGenerator: make(map[string]int, len(gens))}
	var merged []string
	for i, gen := range gens {
		out.PerGenerator[gen.Name] = len(results[i])
		merged = append(merged, results[i]...)
	}
	out.Keywords = keyword.NormalizeAll(merged)

	logger.Debug("generators finished",
		zap.Int("generators", len(gens)),
		zap.Int("raw", len(merged)),
		zap.Int("unique", len(out.Keywords)))
	return out, nil
}
