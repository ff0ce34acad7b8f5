package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// eulerGamma is the Euler-Mascheroni constant used by the average
// path-length normalizer.
const eulerGamma = 0.5772156649015329

// maxSubsample caps the per-tree subsample size.
const maxSubsample = 256

// ForestConfig holds isolation forest hyperparameters.
type ForestConfig struct {
	// Trees is the ensemble size.
	Trees int
	// Contamination is the expected outlier fraction, used to place the
	// decision-function offset.
	Contamination float64
	// Seed drives every randomized choice: subsampling, split feature and
	// split value. A fixed seed makes fitting fully reproducible.
	Seed int64
	// SubsampleSize overrides the per-tree sample size; 0 means
	// min(256, N).
	SubsampleSize int
}

// DefaultForestConfig returns the tuned hyperparameters: 150 trees, 5%
// contamination, seed 42.
func DefaultForestConfig() *ForestConfig {
	return &ForestConfig{
		Trees:         150,
		Contamination: 0.05,
		Seed:          42,
	}
}

// treeNode is one node of an isolation tree. Leaf nodes keep the number of
// samples that reached them for path-length adjustment.
type treeNode struct {
	feature int
	split   float64
	left    *treeNode
	right   *treeNode
	size    int
}

func (n *treeNode) isLeaf() bool {
	return n.left == nil
}

// IsolationForest is an ensemble of randomized partitioning trees. Points
// that isolate in fewer random splits on average score as more anomalous.
type IsolationForest struct {
	config    *ForestConfig
	trees     []*treeNode
	subsample int
	offset    float64
	fitted    bool
}

// NewIsolationForest creates an unfitted forest.
func NewIsolationForest(config *ForestConfig) *IsolationForest {
	if config == nil {
		config = DefaultForestConfig()
	}
	return &IsolationForest{config: config}
}

// Fit builds the ensemble over the given feature matrix. The matrix must
// have at least one row; N as small as 1 is supported.
func (f *IsolationForest) Fit(matrix [][]float64) error {
	n := len(matrix)
	if n == 0 {
		return fmt.Errorf("cannot fit isolation forest on empty matrix")
	}
	if f.config.Trees <= 0 {
		return fmt.Errorf("invalid ensemble size %d", f.config.Trees)
	}

	f.subsample = f.config.SubsampleSize
	if f.subsample <= 0 || f.subsample > n {
		f.subsample = n
		if f.subsample > maxSubsample {
			f.subsample = maxSubsample
		}
	}

	heightLimit := 0
	if f.subsample > 1 {
		heightLimit = int(math.Ceil(math.Log2(float64(f.subsample))))
	}

	rng := rand.New(rand.NewSource(f.config.Seed))
	f.trees = make([]*treeNode, f.config.Trees)
	for t := 0; t < f.config.Trees; t++ {
		sample := subsampleRows(matrix, f.subsample, rng)
		f.trees[t] = buildTree(sample, 0, heightLimit, rng)
	}
	f.fitted = true

	// Place the decision offset at the contamination percentile of the
	// training scores, matching the decision-function convention where
	// negative means outlier.
	raw := f.scoreSamples(matrix)
	f.offset = Percentile(raw, 100*f.config.Contamination)

	return nil
}

// DecisionFunction returns the decision score for each row: raw sample
// score minus the contamination offset. Lower values indicate higher
// anomalousness; scores below zero lean outlier.
func (f *IsolationForest) DecisionFunction(matrix [][]float64) ([]float64, error) {
	if !f.fitted {
		return nil, fmt.Errorf("isolation forest not fitted")
	}
	raw := f.scoreSamples(matrix)
	for i := range raw {
		raw[i] -= f.offset
	}
	return raw, nil
}

// scoreSamples returns the negated anomaly measure for each row, in
// [-1, 0]: higher (closer to 0) means more normal.
func (f *IsolationForest) scoreSamples(matrix [][]float64) []float64 {
	norm := averagePathLength(f.subsample)
	scores := make([]float64, len(matrix))
	for i, row := range matrix {
		var total float64
		for _, tree := range f.trees {
			total += pathLength(tree, row, 0)
		}
		mean := total / float64(len(f.trees))

		// A subsample of one yields no meaningful path normalizer;
		// every point gets the neutral measure 0.5.
		s := 0.5
		if norm > 0 {
			s = math.Pow(2, -mean/norm)
		}
		scores[i] = -s
	}
	return scores
}

// buildTree grows one isolation tree by recursive random-axis splits.
func buildTree(rows [][]float64, depth, limit int, rng *rand.Rand) *treeNode {
	if depth >= limit || len(rows) <= 1 {
		return &treeNode{size: len(rows)}
	}

	// Only features with spread can be split on.
	cols := len(rows[0])
	candidates := make([]int, 0, cols)
	for j := 0; j < cols; j++ {
		lo, hi := rows[0][j], rows[0][j]
		for _, row := range rows[1:] {
			if row[j] < lo {
				lo = row[j]
			}
			if row[j] > hi {
				hi = row[j]
			}
		}
		if hi > lo {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return &treeNode{size: len(rows)}
	}

	feature := candidates[rng.Intn(len(candidates))]
	lo, hi := rows[0][feature], rows[0][feature]
	for _, row := range rows[1:] {
		if row[feature] < lo {
			lo = row[feature]
		}
		if row[feature] > hi {
			hi = row[feature]
		}
	}
	split := lo + rng.Float64()*(hi-lo)

	var left, right [][]float64
	for _, row := range rows {
		if row[feature] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	return &treeNode{
		feature: feature,
		split:   split,
		left:    buildTree(left, depth+1, limit, rng),
		right:   buildTree(right, depth+1, limit, rng),
	}
}

// pathLength traverses the tree and returns the adjusted path length of x.
func pathLength(node *treeNode, x []float64, depth int) float64 {
	if node.isLeaf() {
		return float64(depth) + averagePathLength(node.size)
	}
	if x[node.feature] < node.split {
		return pathLength(node.left, x, depth+1)
	}
	return pathLength(node.right, x, depth+1)
}

// averagePathLength is c(n), the expected path length of an unsuccessful
// search in a binary search tree over n points.
func averagePathLength(n int) float64 {
	switch {
	case n > 2:
		h := math.Log(float64(n-1)) + eulerGamma
		return 2*h - 2*float64(n-1)/float64(n)
	case n == 2:
		return 1
	default:
		return 0
	}
}

// subsampleRows draws size rows without replacement.
func subsampleRows(matrix [][]float64, size int, rng *rand.Rand) [][]float64 {
	if size >= len(matrix) {
		return matrix
	}
	idx := rng.Perm(len(matrix))[:size]
	sample := make([][]float64, size)
	for i, j := range idx {
		sample[i] = matrix[j]
	}
	return sample
}

// Percentile returns the p-th percentile of values using linear
// interpolation between closest ranks.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
