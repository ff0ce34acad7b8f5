// Package metrics exposes Prometheus metrics for the analysis pipeline:
// ingestion counters, parse failures, run outcomes and latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Ingestion metrics
	LinesRead = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loganalyzer_lines_read_total",
		Help: "Total raw log lines read from the source.",
	})

	LinesDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loganalyzer_lines_dropped_total",
		Help: "Total malformed lines dropped during parsing.",
	})

	ParseFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loganalyzer_parse_failures_total",
		Help: "Total analysis runs aborted by a timestamp parse error.",
	})

	// Analysis metrics
	AnalysesRun = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loganalyzer_analyses_total",
		Help: "Total analysis runs by outcome.",
	}, []string{"outcome"})

	AnomaliesFlagged = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loganalyzer_anomalies_flagged_total",
		Help: "Total records classified anomalous across all runs.",
	})

	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "loganalyzer_analysis_duration_seconds",
		Help:    "Latency of a full parse-featurize-fit-score cycle.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	RecordsLastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "loganalyzer_records_last_run",
		Help: "Number of scored records produced by the most recent run.",
	})
)

func init() {
	prometheus.MustRegister(
		LinesRead,
		LinesDropped,
		ParseFailures,
		AnalysesRun,
		AnomaliesFlagged,
		AnalysisDuration,
		RecordsLastRun,
	)
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
