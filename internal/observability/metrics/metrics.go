package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "cleanops_"

	resultSuccess = "success"
	resultError   = "error"
)

// Result labels shared by observation helpers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)

var (
	registerOnce sync.Once

	snapshotBuildTotal   *prometheus.CounterVec
	snapshotBuildLatency *prometheus.HistogramVec

	snapshotExportTotal   *prometheus.CounterVec
	snapshotExportLatency *prometheus.HistogramVec

	settlementAnomalies *prometheus.CounterVec

	dataSourceLatency *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		snapshotBuildTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settlement_snapshot_total",
				Help: "Total settlement snapshot builds by result",
			},
			[]string{"result"},
		)
		snapshotBuildLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "settlement_snapshot_latency_seconds",
				Help:    "Settlement snapshot build latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		snapshotExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settlement_export_total",
				Help: "Total settlement snapshot exports by format and result",
			},
			[]string{"format", "result"},
		)
		snapshotExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "settlement_export_latency_seconds",
				Help:    "Settlement snapshot export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)
		settlementAnomalies = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settlement_anomalies_total",
				Help: "Non-fatal settlement configuration anomalies by kind",
			},
			[]string{"kind"},
		)
		dataSourceLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "settlement_datasource_latency_seconds",
				Help:    "Bulk data-source load latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"query"},
		)

		prometheus.MustRegister(
			snapshotBuildTotal,
			snapshotBuildLatency,
			snapshotExportTotal,
			snapshotExportLatency,
			settlementAnomalies,
			dataSourceLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveSnapshotBuild records snapshot build duration and result.
func ObserveSnapshotBuild(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if snapshotBuildTotal != nil {
		snapshotBuildTotal.WithLabelValues(result).Inc()
	}
	if snapshotBuildLatency != nil {
		snapshotBuildLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveSnapshotExport records export duration by format and result.
func ObserveSnapshotExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if snapshotExportTotal != nil {
		snapshotExportTotal.WithLabelValues(format, result).Inc()
	}
	if snapshotExportLatency != nil {
		snapshotExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncSettlementAnomaly increments the anomaly counter for a kind.
func IncSettlementAnomaly(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	if settlementAnomalies != nil {
		settlementAnomalies.WithLabelValues(kind).Inc()
	}
}

// ObserveDataSource records one bulk load duration by query name.
func ObserveDataSource(query string, duration time.Duration) {
	if query == "" {
		query = "unknown"
	}
	if dataSourceLatency != nil {
		dataSourceLatency.WithLabelValues(query).Observe(duration.Seconds())
	}
}
