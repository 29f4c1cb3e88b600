package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implementa ranking.Metrics sobre Prometheus.
type Collector struct {
	refreshTotal    *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	snapshotLogs    prometheus.Gauge
	snapshotAggs    prometheus.Gauge
	snapshotSkipped prometheus.Gauge
	queriesTotal    *prometheus.CounterVec
}

// NewCollector registra las métricas en reg (en tests, un registry propio).
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ranking_refresh_total",
			Help: "Snapshots del Log Store por resultado (ok|error)",
		}, []string{"result"}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ranking_refresh_duration_seconds",
			Help:    "Duración de lectura + agregación de un snapshot",
			Buckets: prometheus.DefBuckets,
		}),
		snapshotLogs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ranking_snapshot_logs",
			Help: "Logs visibles leídos en el último snapshot",
		}),
		snapshotAggs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ranking_snapshot_aggregates",
			Help: "Productos distintos en el último snapshot",
		}),
		snapshotSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ranking_snapshot_skipped",
			Help: "Logs malformados salteados en el último snapshot",
		}),
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ranking_queries_total",
			Help: "Consultas de ranking por modo y uso de cache",
		}, []string{"mode", "cache"}),
	}

	reg.MustRegister(
		c.refreshTotal,
		c.refreshDuration,
		c.snapshotLogs,
		c.snapshotAggs,
		c.snapshotSkipped,
		c.queriesTotal,
	)
	return c
}

func (c *Collector) RecordRefresh(d time.Duration, logs, aggregates, skipped int) {
	c.refreshTotal.WithLabelValues("ok").Inc()
	c.refreshDuration.Observe(d.Seconds())
	c.snapshotLogs.Set(float64(logs))
	c.snapshotAggs.Set(float64(aggregates))
	c.snapshotSkipped.Set(float64(skipped))
}

func (c *Collector) RecordRefreshFailure(d time.Duration) {
	c.refreshTotal.WithLabelValues("error").Inc()
	c.refreshDuration.Observe(d.Seconds())
}

func (c *Collector) RecordQuery(mode string, cacheHit bool) {
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	c.queriesTotal.WithLabelValues(mode, cache).Inc()
}

// Handler expone /metrics para el gatherer dado.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
