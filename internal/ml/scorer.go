package ml

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nikhil-sh2112/azure-webapp/internal/models"
)

// ErrEmptyInput is returned when zero valid records remain after parsing;
// a model cannot be fit on no data.
var ErrEmptyInput = errors.New("ml: empty input batch")

// thresholdPercentile is the percentile of the batch score distribution
// used as the anomaly threshold.
const thresholdPercentile = 5.0

// ScorerConfig holds configuration for one anomaly scorer.
type ScorerConfig struct {
	// Forest holds the isolation forest hyperparameters.
	Forest *ForestConfig
	// StrictLevels makes an unmapped severity level a FeatureError
	// instead of imputing a zero level score.
	StrictLevels bool
}

// DefaultScorerConfig returns the default scorer configuration.
func DefaultScorerConfig() *ScorerConfig {
	return &ScorerConfig{
		Forest: DefaultForestConfig(),
	}
}

// Scorer runs the featurize-normalize-fit-score cycle over one batch of
// records. A Scorer is built per analysis run and must not be shared
// between concurrent invocations: model and scaler derive strictly from
// the data of a single run.
type Scorer struct {
	config    *ScorerConfig
	extractor *FeatureExtractor
	threshold float64
}

// NewScorer creates a scorer for a single analysis run.
func NewScorer(config *ScorerConfig) *Scorer {
	if config == nil {
		config = DefaultScorerConfig()
	}
	if config.Forest == nil {
		config.Forest = DefaultForestConfig()
	}
	return &Scorer{
		config:    config,
		extractor: &FeatureExtractor{StrictLevels: config.StrictLevels},
	}
}

// Threshold returns the batch threshold computed by the last Score call.
func (s *Scorer) Threshold() float64 {
	return s.threshold
}

// Score produces one ScoredRecord per input record, preserving order.
// Classification is relative to the batch: a record is anomalous iff its
// decision score is strictly below the 5th percentile of the batch's
// score distribution; ties at the boundary are normal.
func (s *Scorer) Score(ctx context.Context, records []models.LogRecord) ([]models.ScoredRecord, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matrix, err := s.extractor.ExtractBatch(records)
	if err != nil {
		return nil, fmt.Errorf("feature extraction: %w", err)
	}

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(matrix)
	if err != nil {
		return nil, fmt.Errorf("normalization: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	forest := NewIsolationForest(s.config.Forest)
	if err := forest.Fit(scaled); err != nil {
		return nil, fmt.Errorf("model fit: %w", err)
	}

	scores, err := forest.DecisionFunction(scaled)
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}

	s.threshold = Percentile(scores, thresholdPercentile)

	scored := make([]models.ScoredRecord, len(records))
	for i := range records {
		scored[i] = models.ScoredRecord{
			LogRecord: records[i],
			Score:     scores[i],
			IsAnomaly: scores[i] < s.threshold,
		}
	}
	return scored, nil
}

// ScoreSeverity buckets a decision score into an alert severity. Scores
// sit near zero for inliers and grow more negative for outliers.
func ScoreSeverity(score float64) string {
	switch {
	case score < -0.15:
		return "critical"
	case score < -0.10:
		return "high"
	case score < -0.05:
		return "medium"
	default:
		return "low"
	}
}
