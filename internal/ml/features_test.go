package ml

import (
	"errors"
	"testing"
	"time"

	"github.com/Nikhil-sh2112/azure-webapp/internal/models"
)

func record(level, message string) models.LogRecord {
	return models.LogRecord{
		Timestamp: time.Date(2024, 9, 10, 10, 15, 23, 0, time.UTC),
		Level:     level,
		Message:   message,
	}
}

func TestFeatureExtractor_LevelMapping(t *testing.T) {
	extractor := NewFeatureExtractor()

	tests := []struct {
		level string
		want  float64
	}{
		{"INFO", 1},
		{"WARNING", 2},
		{"ERROR", 3},
		{"CRITICAL", 4},
	}

	for _, tt := range tests {
		rec := record(tt.level, "message")
		features, err := extractor.Extract(&rec, 0)
		if err != nil {
			t.Fatalf("Extract(%s) failed: %v", tt.level, err)
		}
		if features.LevelScore != tt.want {
			t.Errorf("Level %s: expected score %v, got %v", tt.level, tt.want, features.LevelScore)
		}
	}
}

func TestFeatureExtractor_UnmappedLevelImputesZero(t *testing.T) {
	extractor := NewFeatureExtractor()

	rec := record("TRACE", "something happened")
	features, err := extractor.Extract(&rec, 0)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if features.LevelScore != 0 {
		t.Errorf("Expected imputed level score 0, got %v", features.LevelScore)
	}
}

func TestFeatureExtractor_StrictLevels(t *testing.T) {
	extractor := &FeatureExtractor{StrictLevels: true}

	rec := record("NOTICE", "something happened")
	_, err := extractor.Extract(&rec, 3)
	if err == nil {
		t.Fatal("Expected error for unmapped level in strict mode")
	}

	var ferr *FeatureError
	if !errors.As(err, &ferr) {
		t.Fatalf("Expected *FeatureError, got %T", err)
	}
	if ferr.Index != 3 {
		t.Errorf("Expected index 3, got %d", ferr.Index)
	}
	if ferr.Level != "NOTICE" {
		t.Errorf("Expected level NOTICE, got %q", ferr.Level)
	}
}

func TestFeatureExtractor_KeywordIndicators(t *testing.T) {
	extractor := NewFeatureExtractor()

	tests := []struct {
		message  string
		hasError float64
		hasFail  float64
		hasTime  float64
	}{
		{"Failed to connect to external API", 0, 1, 0},
		{"Database connection timeout", 0, 0, 1},
		{"An ERROR occurred", 1, 0, 0},
		{"TIMEOUT while waiting, failure and error", 1, 1, 1},
		{"Processing batch job 001", 0, 0, 0},
	}

	for _, tt := range tests {
		rec := record("INFO", tt.message)
		features, err := extractor.Extract(&rec, 0)
		if err != nil {
			t.Fatalf("Extract(%q) failed: %v", tt.message, err)
		}
		if features.ContainsError != tt.hasError {
			t.Errorf("%q: expected contains_error %v, got %v", tt.message, tt.hasError, features.ContainsError)
		}
		if features.ContainsFail != tt.hasFail {
			t.Errorf("%q: expected contains_fail %v, got %v", tt.message, tt.hasFail, features.ContainsFail)
		}
		if features.ContainsTimeout != tt.hasTime {
			t.Errorf("%q: expected contains_timeout %v, got %v", tt.message, tt.hasTime, features.ContainsTimeout)
		}
	}
}

func TestFeatureExtractor_MessageLength(t *testing.T) {
	extractor := NewFeatureExtractor()

	rec := record("INFO", "Memory usage at 85%")
	features, err := extractor.Extract(&rec, 0)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if features.MessageLength != 19 {
		t.Errorf("Expected message length 19, got %v", features.MessageLength)
	}
}

func TestFeatureExtractor_MessageLengthCountsRunes(t *testing.T) {
	extractor := NewFeatureExtractor()

	// 10 characters, more bytes than that in UTF-8
	rec := record("INFO", "Füße kalt…")
	features, err := extractor.Extract(&rec, 0)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if features.MessageLength != 10 {
		t.Errorf("Expected message length 10 (characters, not bytes), got %v", features.MessageLength)
	}
}

func TestLogFeatures_ToSlice(t *testing.T) {
	features := &LogFeatures{
		LevelScore:      4,
		MessageLength:   27,
		ContainsTimeout: 1,
	}

	slice := features.ToSlice()
	if len(slice) != len(FeatureNames) {
		t.Fatalf("Expected %d features, got %d", len(FeatureNames), len(slice))
	}
	if slice[0] != 4 || slice[1] != 27 || slice[4] != 1 {
		t.Errorf("Unexpected slice contents: %v", slice)
	}
	if features.FeatureCount() != 5 {
		t.Errorf("Expected feature count 5, got %d", features.FeatureCount())
	}
}

func TestFeatureExtractor_ExtractBatch(t *testing.T) {
	extractor := NewFeatureExtractor()

	records := []models.LogRecord{
		record("INFO", "Application started successfully"),
		record("CRITICAL", "Database connection timeout"),
		record("WEIRD", "unknown level line"),
	}

	matrix, err := extractor.ExtractBatch(records)
	if err != nil {
		t.Fatalf("ExtractBatch failed: %v", err)
	}
	if len(matrix) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(matrix))
	}

	// Every row has the same fixed dimensionality
	for i, row := range matrix {
		if len(row) != len(FeatureNames) {
			t.Errorf("Row %d: expected %d columns, got %d", i, len(FeatureNames), len(row))
		}
	}

	if matrix[1][0] != 4 {
		t.Errorf("Expected CRITICAL level score 4, got %v", matrix[1][0])
	}
	if matrix[2][0] != 0 {
		t.Errorf("Expected imputed level score 0, got %v", matrix[2][0])
	}
}
