// Package metrics records pipeline counters on a dedicated Prometheus
// registry and pushes them to a Pushgateway at the end of a run.
package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/cognicore/fxseo/pkg/fxseo/cluster"
)

var clusterPriorityDesc = prometheus.NewDesc(
	"fxseo_cluster_priority_score",
	"Content planning priority of each keyword cluster from the latest run",
	[]string{"category"},
	nil,
)

// ClusterCollector exposes the priority of the most recently observed
// clusters on each gather.
type ClusterCollector struct {
	mu       sync.RWMutex
	clusters []cluster.Cluster
}

// Set replaces the observed clusters.
func (c *ClusterCollector) Set(clusters []cluster.Cluster) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clusters = clusters
}

// Describe sends the metric descriptor to the channel.
func (c *ClusterCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- clusterPriorityDesc
}

// Collect emits one gauge per cluster.
func (c *ClusterCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cl := range c.clusters {
		ch <- prometheus.MustNewConstMetric(
			clusterPriorityDesc,
			prometheus.GaugeValue,
			cluster.PriorityScore(cl),
			string(cl.Category),
		)
	}
}

// Recorder holds the counters of a pipeline process.
type Recorder struct {
	Registry *prometheus.Registry

	Generated     prometheus.Counter
	Scored        *prometheus.CounterVec
	Persisted     *prometheus.CounterVec
	FailedBatches prometheus.Counter
	Scheduled     prometheus.Counter
	RunDuration   prometheus.Gauge
	LastSuccess   prometheus.Gauge
	Clusters      *ClusterCollector
}

// NewRecorder registers all fxseo metrics on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		Generated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fxseo_keywords_generated_total",
			Help: "Raw keywords produced by the generators",
		}),
		Scored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxseo_keywords_scored_total",
			Help: "Scored keywords by filter outcome",
		}, []string{"outcome"}),
		Persisted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxseo_keywords_persisted_total",
			Help: "Keyword rows written to the store by outcome",
		}, []string{"outcome"}),
		FailedBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fxseo_store_failed_batches_total",
			Help: "Keyword batches the store rejected",
		}),
		Scheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fxseo_content_items_scheduled_total",
			Help: "Content calendar items produced",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fxseo_run_duration_seconds",
			Help: "Wall time of the last pipeline run",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fxseo_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
		Clusters: &ClusterCollector{},
	}
	r.Registry.MustRegister(
		r.Generated, r.Scored, r.Persisted, r.FailedBatches,
		r.Scheduled, r.RunDuration, r.LastSuccess, r.Clusters,
	)
	return r
}

// RunStats are the per-run values fed into the recorder.
type RunStats struct {
	Generated     int
	Kept          int
	Discarded     int
	Written       int
	Failed        int
	FailedBatches int
	Scheduled     int
	Clusters      []cluster.Cluster
	Duration      time.Duration
	FinishedAt    time.Time
}

// Observe adds one run's values to the counters.
func (r *Recorder) Observe(s RunStats) {
	r.Generated.Add(float64(s.Generated))
	r.Scored.WithLabelValues("kept").Add(float64(s.Kept))
	r.Scored.WithLabelValues("discarded").Add(float64(s.Discarded))
	r.Persisted.WithLabelValues("written").Add(float64(s.Written))
	r.Persisted.WithLabelValues("failed").Add(float64(s.Failed))
	r.FailedBatches.Add(float64(s.FailedBatches))
	r.Scheduled.Add(float64(s.Scheduled))
	r.RunDuration.Set(s.Duration.Seconds())
	if !s.FinishedAt.IsZero() {
		r.LastSuccess.Set(float64(s.FinishedAt.Unix()))
	}
	r.Clusters.Set(s.Clusters)
}

// Push sends the registry to a Pushgateway under job.
func (r *Recorder) Push(ctx context.Context, gatewayURL, job string) error {
	if gatewayURL == "" {
		return nil
	}
	if err := push.New(gatewayURL, job).Gatherer(r.Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
