// Package ml provides feature extraction and unsupervised anomaly scoring
// for parsed log records. All state is scoped to a single analysis run;
// nothing in this package is shared across invocations.
package ml

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Nikhil-sh2112/azure-webapp/internal/models"
)

// Keywords whose presence in a message is used as a binary feature.
// Matching is a case-insensitive substring test.
var Keywords = []string{"error", "fail", "timeout"}

// FeatureNames lists the feature columns in model order. The order must
// match LogFeatures.ToSlice exactly.
var FeatureNames = []string{
	"level_score",
	"message_length",
	"contains_error",
	"contains_fail",
	"contains_timeout",
}

// levelScores maps the closed severity vocabulary to numeric ranks.
var levelScores = map[string]float64{
	models.LevelInfo:     1,
	models.LevelWarning:  2,
	models.LevelError:    3,
	models.LevelCritical: 4,
}

// LogFeatures is the fixed-schema feature vector derived from one record.
// Field order is the model column order; adding or reordering fields
// requires updating FeatureNames and ToSlice together.
type LogFeatures struct {
	LevelScore      float64 // severity rank, 0 when the level is imputed
	MessageLength   float64 // character count of the message
	ContainsError   float64 // 1 if "error" occurs in the message
	ContainsFail    float64 // 1 if "fail" occurs in the message
	ContainsTimeout float64 // 1 if "timeout" occurs in the message
}

// ToSlice converts LogFeatures to a float64 slice for model input.
func (f *LogFeatures) ToSlice() []float64 {
	return []float64{
		f.LevelScore,
		f.MessageLength,
		f.ContainsError,
		f.ContainsFail,
		f.ContainsTimeout,
	}
}

// FeatureCount returns the number of features.
func (f *LogFeatures) FeatureCount() int {
	return len(FeatureNames)
}

// FeatureError reports a record whose level falls outside the closed
// severity vocabulary while the extractor runs in strict mode.
type FeatureError struct {
	Index int    // record position within the batch
	Level string // the unmapped level token
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("record %d: level %q outside severity vocabulary", e.Index, e.Level)
}

// FeatureExtractor derives feature vectors from log records.
type FeatureExtractor struct {
	// StrictLevels makes an unmapped level an error instead of imputing
	// a zero level score.
	StrictLevels bool
}

// NewFeatureExtractor creates a feature extractor with the default
// impute-as-zero policy for unmapped levels.
func NewFeatureExtractor() *FeatureExtractor {
	return &FeatureExtractor{}
}

// Extract derives the feature vector for a single record. index is the
// record's position within the batch, used for error reporting.
func (fe *FeatureExtractor) Extract(record *models.LogRecord, index int) (*LogFeatures, error) {
	features := &LogFeatures{}

	score, ok := levelScores[record.Level]
	if !ok {
		if fe.StrictLevels {
			return nil, &FeatureError{Index: index, Level: record.Level}
		}
		score = 0
	}
	features.LevelScore = score
	// Character count, not byte count: multi-byte messages must measure
	// the same regardless of encoding width.
	features.MessageLength = float64(utf8.RuneCountInString(record.Message))

	msg := strings.ToLower(record.Message)
	features.ContainsError = boolToFloat64(strings.Contains(msg, Keywords[0]))
	features.ContainsFail = boolToFloat64(strings.Contains(msg, Keywords[1]))
	features.ContainsTimeout = boolToFloat64(strings.Contains(msg, Keywords[2]))

	return features, nil
}

// ExtractBatch derives the feature matrix for a batch of records,
// preserving record order. Every row has the same dimensionality.
func (fe *FeatureExtractor) ExtractBatch(records []models.LogRecord) ([][]float64, error) {
	matrix := make([][]float64, 0, len(records))
	for i := range records {
		features, err := fe.Extract(&records[i], i)
		if err != nil {
			return nil, err
		}
		matrix = append(matrix, features.ToSlice())
	}
	return matrix, nil
}

func boolToFloat64(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
