package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRunMergesInGeneratorOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	gens := []Generator{
		Static("first", []string{"Forex Broker", "mt4"}),
		Static("second", []string{"forex broker", "scalping strategy"}),
		Static("empty", nil),
	}

	out, err := Run(context.Background(), gens, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"forex broker", "mt4", "scalping strategy"}, out.Keywords)
	assert.Equal(t, map[string]int{"first": 2, "second": 2, "empty": 0}, out.PerGenerator)
}

func TestRunPropagatesGeneratorError(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("boom")
	gens := []Generator{
		Static("ok", []string{"forex"}),
		{Name: "broken", Fn: func(ctx context.Context) ([]string, error) { return nil, boom }},
	}

	_, err := Run(context.Background(), gens, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
}

func TestRunHonoursCancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Defaults(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultsCoverAllGroups(t *testing.T) {
	out, err := Run(context.Background(), Defaults(), nil)
	require.NoError(t, err)

	assert.Len(t, out.PerGenerator, 11)
	for name, n := range out.PerGenerator {
		assert.Positivef(t, n, "generator %s returned nothing", name)
	}
	seen := make(map[string]bool)
	for _, k := range out.Keywords {
		assert.Falsef(t, seen[k], "duplicate keyword %q", k)
		seen[k] = true
		assert.Equal(t, strings.ToLower(k), k)
	}
}

func TestStaticReturnsCopy(t *testing.T) {
	table := []string{"forex"}
	gen := Static("t", table)
	got, err := gen.Fn(context.Background())
	require.NoError(t, err)
	got[0] = "mutated"
	assert.Equal(t, "forex", table[0])
}
