// Package models defines the core data structures for the log analysis
// pipeline. A record is owned by the analysis run that created it and is
// never shared across runs.
package models

import (
	"time"
)

// Log severity vocabulary. Levels outside this set are kept verbatim on the
// record and handled by the feature extractor's imputation policy.
const (
	LevelInfo     = "INFO"
	LevelWarning  = "WARNING"
	LevelError    = "ERROR"
	LevelCritical = "CRITICAL"
)

// TimestampLayout is the canonical timestamp format of ingested log lines.
const TimestampLayout = "2006-01-02 15:04:05"

// LogRecord represents one parsed log line.
type LogRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// ScoredRecord extends a LogRecord with the model's decision score and the
// batch-relative anomaly classification. Lower scores mean more anomalous.
type ScoredRecord struct {
	LogRecord
	Score     float64 `json:"score"`
	IsAnomaly bool    `json:"is_anomaly"`
}

// AnalysisReport is the output of one full analysis run.
type AnalysisReport struct {
	RunID       string         `json:"run_id"`
	Fingerprint string         `json:"fingerprint"` // BLAKE3 of the raw input lines
	GeneratedAt time.Time      `json:"generated_at"`
	LinesRead   int            `json:"lines_read"`   // raw lines supplied by the source
	LinesParsed int            `json:"lines_parsed"` // lines that produced a record
	Threshold   float64        `json:"threshold"`    // 5th percentile of the score distribution
	Records     []ScoredRecord `json:"records"`
}

// Total returns the number of scored records in the report.
func (r *AnalysisReport) Total() int {
	return len(r.Records)
}

// AnomalyCount returns the number of records classified anomalous.
func (r *AnalysisReport) AnomalyCount() int {
	n := 0
	for i := range r.Records {
		if r.Records[i].IsAnomaly {
			n++
		}
	}
	return n
}

// NormalCount returns the number of records classified normal.
func (r *AnalysisReport) NormalCount() int {
	return r.Total() - r.AnomalyCount()
}

// Anomalies returns the anomalous records in input order.
func (r *AnalysisReport) Anomalies() []ScoredRecord {
	var out []ScoredRecord
	for i := range r.Records {
		if r.Records[i].IsAnomaly {
			out = append(out, r.Records[i])
		}
	}
	return out
}

// AnalysisStats holds per-run summary statistics for the UI and logs.
type AnalysisStats struct {
	Total     int           `json:"total"`
	Anomalies int           `json:"anomalies"`
	Normals   int           `json:"normals"`
	Duration  time.Duration `json:"duration"`
}

// Stats derives summary statistics from the report.
func (r *AnalysisReport) Stats(d time.Duration) AnalysisStats {
	anomalies := r.AnomalyCount()
	return AnalysisStats{
		Total:     r.Total(),
		Anomalies: anomalies,
		Normals:   r.Total() - anomalies,
		Duration:  d,
	}
}
