package preprocessing

import (
	"math"
	"sort"

	"github.com/scamara129/broadband-usage/core/model"
	"github.com/scamara129/broadband-usage/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// KNNImputer fills missing (NaN) cells with the median of the column values
// from the k nearest rows by feature distance.
//
// Each partition fits its own imputer on its own rows, so statistics never
// cross partition boundaries. Distance between two rows is the Euclidean
// distance over the columns observed in both, divided by the number of shared
// columns so rows with few shared columns are not artificially close.
type KNNImputer struct {
	model.BaseEstimator

	// K is the number of neighbors to aggregate. Defaults to 10.
	K int

	reference *mat.Dense
}

// NewKNNImputer creates an unfitted imputer with the given neighbor count.
func NewKNNImputer(k int) *KNNImputer {
	if k < 1 {
		k = 10
	}
	return &KNNImputer{K: k}
}

// Fit stores the partition's rows as the neighbor reference set.
func (im *KNNImputer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("KNNImputer.Fit", "empty data", errors.ErrEmptyData)
	}

	im.reference = mat.DenseCopyOf(X)
	im.SetFitted()
	return nil
}

// Transform returns a copy of X with every NaN cell replaced. Rows without
// missing values are returned unchanged.
func (im *KNNImputer) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !im.IsFitted() {
		return nil, errors.NewNotFittedError("KNNImputer", "Transform")
	}

	r, c := X.Dims()
	_, refCols := im.reference.Dims()
	if c != refCols {
		return nil, errors.NewDimensionError("KNNImputer.Transform", refCols, c, 1)
	}

	result := mat.DenseCopyOf(X)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if !math.IsNaN(X.At(i, j)) {
				continue
			}
			result.Set(i, j, im.imputeCell(X, i, j))
		}
	}

	return result, nil
}

// FitTransform fits on X and fills X's missing values in one call. This is
// the per-partition entry point: calling it once per partition keeps every
// partition's imputation independent.
func (im *KNNImputer) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := im.Fit(X); err != nil {
		return nil, err
	}
	return im.Transform(X)
}

type neighbor struct {
	dist  float64
	value float64
}

// imputeCell picks the K reference rows closest to row i among those that
// observe column j, and returns the median of their column-j values.
func (im *KNNImputer) imputeCell(X mat.Matrix, i, j int) float64 {
	refRows, cols := im.reference.Dims()

	candidates := make([]neighbor, 0, refRows)
	for ref := 0; ref < refRows; ref++ {
		value := im.reference.At(ref, j)
		if math.IsNaN(value) {
			continue
		}

		var sum float64
		shared := 0
		for col := 0; col < cols; col++ {
			a := X.At(i, col)
			b := im.reference.At(ref, col)
			if math.IsNaN(a) || math.IsNaN(b) {
				continue
			}
			diff := a - b
			sum += diff * diff
			shared++
		}
		if shared == 0 {
			continue
		}
		candidates = append(candidates, neighbor{dist: math.Sqrt(sum / float64(shared)), value: value})
	}

	if len(candidates) == 0 {
		return im.columnMedian(j)
	}

	sort.Slice(candidates, func(a, b int) bool { return candidates[a].dist < candidates[b].dist })
	k := im.K
	if k > len(candidates) {
		k = len(candidates)
	}

	values := make([]float64, k)
	for n := 0; n < k; n++ {
		values[n] = candidates[n].value
	}
	return median(values)
}

// columnMedian is the fallback when no reference row observes the column at
// all: the median over whatever the column holds, or 0 for a fully missing
// column.
func (im *KNNImputer) columnMedian(j int) float64 {
	rows, _ := im.reference.Dims()
	values := make([]float64, 0, rows)
	for i := 0; i < rows; i++ {
		if v := im.reference.At(i, j); !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0
	}
	return median(values)
}

func median(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
