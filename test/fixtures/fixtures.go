// Package fixtures provides test fixtures and log line generators for the
// analysis pipeline.
package fixtures

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Nikhil-sh2112/azure-webapp/internal/models"
)

// =============================================================================
// Log Line Fixtures
// =============================================================================

// LogFixture generates raw log lines with monotonically increasing
// timestamps.
type LogFixture struct {
	baseTime time.Time
	counter  int
}

// NewLogFixture creates a new log line generator.
func NewLogFixture() *LogFixture {
	base, _ := time.Parse(models.TimestampLayout, "2024-09-10 10:00:00")
	return &LogFixture{baseTime: base}
}

// Line generates a raw log line with the given level and message.
func (lf *LogFixture) Line(level, message string) string {
	lf.counter++
	ts := lf.baseTime.Add(time.Duration(lf.counter) * time.Second)
	return fmt.Sprintf("%s %s %s", ts.Format(models.TimestampLayout), level, message)
}

// InfoLine generates a routine INFO line.
func (lf *LogFixture) InfoLine() string {
	return lf.Line(models.LevelInfo, fmt.Sprintf("Processing batch job %03d", lf.counter+1))
}

// WarningLine generates a WARNING line.
func (lf *LogFixture) WarningLine() string {
	return lf.Line(models.LevelWarning, "Memory usage at 85%")
}

// ErrorLine generates an ERROR line with a failure keyword.
func (lf *LogFixture) ErrorLine() string {
	return lf.Line(models.LevelError, "Failed to connect to external API")
}

// CriticalLine generates a CRITICAL line with a timeout keyword.
func (lf *LogFixture) CriticalLine() string {
	return lf.Line(models.LevelCritical, "Database connection timeout")
}

// MalformedLine generates a line that cannot be parsed into four tokens.
func (lf *LogFixture) MalformedLine() string {
	lf.counter++
	return "garbage"
}

// Batch generates a batch of n routine INFO lines with a few severe lines
// mixed in at the given positions.
func (lf *LogFixture) Batch(n int, severeAt ...int) []string {
	severe := make(map[int]bool, len(severeAt))
	for _, i := range severeAt {
		severe[i] = true
	}
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if severe[i] {
			lines = append(lines, lf.CriticalLine())
		} else {
			lines = append(lines, lf.InfoLine())
		}
	}
	return lines
}

// =============================================================================
// Record Fixtures
// =============================================================================

// RecordFixture generates parsed log records directly, bypassing the
// parser.
type RecordFixture struct {
	baseTime time.Time
	counter  int
}

// NewRecordFixture creates a new record generator.
func NewRecordFixture() *RecordFixture {
	base, _ := time.Parse(models.TimestampLayout, "2024-09-10 10:00:00")
	return &RecordFixture{baseTime: base}
}

// Record generates a record with the given level and message.
func (rf *RecordFixture) Record(level, message string) models.LogRecord {
	rf.counter++
	return models.LogRecord{
		Timestamp: rf.baseTime.Add(time.Duration(rf.counter) * time.Second),
		Level:     level,
		Message:   message,
	}
}

// RoutineBatch generates n INFO records with similar messages.
func (rf *RecordFixture) RoutineBatch(n int) []models.LogRecord {
	records := make([]models.LogRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, rf.Record(models.LevelInfo, fmt.Sprintf("Heartbeat check %03d passed", i)))
	}
	return records
}

// =============================================================================
// Feature Matrix Fixtures
// =============================================================================

// RandomMatrix generates a deterministic rows-by-cols feature matrix.
func RandomMatrix(rows, cols int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = rng.NormFloat64()
		}
	}
	return m
}

// MatrixWithOutlier generates a tight cluster of rows plus one far-off row
// appended at the end.
func MatrixWithOutlier(rows, cols int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	m := make([][]float64, 0, rows+1)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := range row {
			row[j] = rng.Float64() * 0.5
		}
		m = append(m, row)
	}
	outlier := make([]float64, cols)
	for j := range outlier {
		outlier[j] = 10.0
	}
	return append(m, outlier)
}
