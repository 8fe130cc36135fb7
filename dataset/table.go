package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Table is the cleaned, numeric form of the joined county data: one row per
// county, the eight predictors in FeatureColumns order and the broadband
// usage target. Missing numeric values are NaN.
type Table struct {
	States   []string
	Counties []string

	// X is the n×8 feature matrix.
	X *mat.Dense

	// Y is the usage target; NaN marks a missing target.
	Y []float64
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.Y)
}

// Subset returns a new Table holding the given rows. An empty selection
// yields a zero-length table with a nil feature matrix.
func (t *Table) Subset(indices []int) *Table {
	if len(indices) == 0 {
		return &Table{}
	}
	_, cols := t.X.Dims()
	sub := &Table{
		States:   make([]string, len(indices)),
		Counties: make([]string, len(indices)),
		X:        mat.NewDense(len(indices), cols, nil),
		Y:        make([]float64, len(indices)),
	}
	for i, idx := range indices {
		sub.States[i] = t.States[idx]
		sub.Counties[i] = t.Counties[idx]
		for j := 0; j < cols; j++ {
			sub.X.Set(i, j, t.X.At(idx, j))
		}
		sub.Y[i] = t.Y[idx]
	}
	return sub
}

// TargetVec returns the target as a vector.
func (t *Table) TargetVec() *mat.VecDense {
	return mat.NewVecDense(len(t.Y), append([]float64(nil), t.Y...))
}

// TargetMatrix returns the target as an n×1 matrix, the shape the model
// trainers take.
func (t *Table) TargetMatrix() *mat.Dense {
	return mat.NewDense(len(t.Y), 1, append([]float64(nil), t.Y...))
}

// MissingCounts reports the number of NaN cells per column, target included.
func (t *Table) MissingCounts() map[string]int {
	counts := make(map[string]int, len(FeatureColumns)+1)
	rows, _ := t.X.Dims()
	for j, col := range FeatureColumns {
		n := 0
		for i := 0; i < rows; i++ {
			if math.IsNaN(t.X.At(i, j)) {
				n++
			}
		}
		counts[col] = n
	}
	n := 0
	for _, v := range t.Y {
		if math.IsNaN(v) {
			n++
		}
	}
	counts[ColUsage] = n
	return counts
}
