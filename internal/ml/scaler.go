package ml

import (
	"fmt"
	"math"
)

// StandardScaler transforms each feature column to zero mean and unit
// variance (z-scores). Statistics are fit fresh per batch; a scaler is
// never reused across analysis runs.
type StandardScaler struct {
	means []float64
	stds  []float64
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes per-column mean and standard deviation over the batch.
func (s *StandardScaler) Fit(matrix [][]float64) error {
	if len(matrix) == 0 {
		return fmt.Errorf("cannot fit scaler on empty matrix")
	}

	cols := len(matrix[0])
	s.means = make([]float64, cols)
	s.stds = make([]float64, cols)

	n := float64(len(matrix))
	for _, row := range matrix {
		if len(row) != cols {
			return fmt.Errorf("ragged matrix: expected %d columns, got %d", cols, len(row))
		}
		for j, v := range row {
			s.means[j] += v
		}
	}
	for j := range s.means {
		s.means[j] /= n
	}

	for _, row := range matrix {
		for j, v := range row {
			diff := v - s.means[j]
			s.stds[j] += diff * diff
		}
	}
	for j := range s.stds {
		s.stds[j] = math.Sqrt(s.stds[j] / n)
	}

	return nil
}

// Transform returns the z-scored copy of the matrix. A zero-variance
// column normalizes to 0 rather than dividing by zero.
func (s *StandardScaler) Transform(matrix [][]float64) ([][]float64, error) {
	if s.means == nil {
		return nil, fmt.Errorf("scaler not fitted")
	}

	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		if len(row) != len(s.means) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i, len(s.means), len(row))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			if s.stds[j] == 0 {
				scaled[j] = 0
				continue
			}
			scaled[j] = (v - s.means[j]) / s.stds[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits the scaler on the batch and returns its z-scored copy.
func (s *StandardScaler) FitTransform(matrix [][]float64) ([][]float64, error) {
	if err := s.Fit(matrix); err != nil {
		return nil, err
	}
	return s.Transform(matrix)
}

// Mean returns the fitted mean for the given column.
func (s *StandardScaler) Mean(col int) float64 {
	return s.means[col]
}

// Std returns the fitted standard deviation for the given column.
func (s *StandardScaler) Std(col int) float64 {
	return s.stds[col]
}
