package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cognicore/fxseo/pkg/fxseo/cluster"
	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
)

func TestObserve(t *testing.T) {
	r := NewRecorder()
	stats := RunStats{
		Generated:     120,
		Kept:          100,
		Discarded:     20,
		Written:       90,
		Failed:        10,
		FailedBatches: 1,
		Scheduled:     130,
		Duration:      1500 * time.Millisecond,
		FinishedAt:    time.Unix(1736150400, 0),
	}
	r.Observe(stats)
	r.Observe(stats)

	if got := testutil.ToFloat64(r.Generated); got != 240 {
		t.Errorf("generated = %v, want 240", got)
	}
	if got := testutil.ToFloat64(r.Scored.WithLabelValues("discarded")); got != 40 {
		t.Errorf("discarded = %v, want 40", got)
	}
	if got := testutil.ToFloat64(r.Persisted.WithLabelValues("failed")); got != 20 {
		t.Errorf("failed = %v, want 20", got)
	}
	if got := testutil.ToFloat64(r.RunDuration); got != 1.5 {
		t.Errorf("duration gauge = %v, want 1.5", got)
	}
	if got := testutil.ToFloat64(r.LastSuccess); got != 1736150400 {
		t.Errorf("last success = %v", got)
	}
}

func TestClusterCollector(t *testing.T) {
	r := NewRecorder()
	clusters := cluster.Build([]keyword.Keyword{
		{Text: "forex broker", Category: keyword.BrokerReviews, Intent: keyword.Commercial, Difficulty: 60, Volume: 400, Score: 150},
		{Text: "forex basics", Category: keyword.ForexEducation, Intent: keyword.Informational, Difficulty: 45, Volume: 100, Score: 90},
	})
	r.Observe(RunStats{Clusters: clusters})

	if n := testutil.CollectAndCount(r.Clusters); n != 2 {
		t.Fatalf("expected 2 cluster series, got %d", n)
	}
	if n := testutil.CollectAndCount(r.Scored); n != 2 {
		t.Errorf("expected kept and discarded series, got %d", n)
	}
}

func TestPush(t *testing.T) {
	var (
		mu   sync.Mutex
		path string
		body string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		data, _ := io.ReadAll(req.Body)
		mu.Lock()
		path, body = req.URL.Path, string(data)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRecorder()
	r.Observe(RunStats{Generated: 5})
	if err := r.Push(context.Background(), srv.URL, "fxseo"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if path != "/metrics/job/fxseo" {
		t.Errorf("unexpected push path %q", path)
	}
	if body == "" {
		t.Error("expected metrics payload")
	}
}

func TestPushDisabled(t *testing.T) {
	if err := NewRecorder().Push(context.Background(), "", "fxseo"); err != nil {
		t.Fatalf("empty gateway should be a no-op, got %v", err)
	}
}

func TestPushFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := NewRecorder().Push(context.Background(), srv.URL, "fxseo"); err == nil {
		t.Fatal("expected error from failing gateway")
	}
}
