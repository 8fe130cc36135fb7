package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestKFoldSplitCoversEveryRowOnce(t *testing.T) {
	kf := NewKFold(4, true, 11)
	folds, err := kf.Split(10)
	require.NoError(t, err)
	require.Len(t, folds, 4)

	testCount := make(map[int]int, 10)
	for _, fold := range folds {
		inTest := make(map[int]bool, len(fold.TestIndices))
		for _, idx := range fold.TestIndices {
			testCount[idx]++
			inTest[idx] = true
		}
		assert.Len(t, fold.TrainIndices, 10-len(fold.TestIndices))
		for _, idx := range fold.TrainIndices {
			assert.False(t, inTest[idx], "index %d in both train and test", idx)
		}
	}

	require.Len(t, testCount, 10)
	for idx, n := range testCount {
		assert.Equal(t, 1, n, "index %d appears in %d test folds", idx, n)
	}
}

func TestKFoldSplitUnevenFoldSizes(t *testing.T) {
	folds, err := NewKFold(3, false, 0).Split(10)
	require.NoError(t, err)

	// 10 rows over 3 folds: sizes 4, 3, 3.
	assert.Len(t, folds[0].TestIndices, 4)
	assert.Len(t, folds[1].TestIndices, 3)
	assert.Len(t, folds[2].TestIndices, 3)
}

func TestKFoldSplitTooFewRows(t *testing.T) {
	_, err := NewKFold(5, true, 1).Split(4)
	assert.Error(t, err)
}

func TestKFoldSplitDeterministic(t *testing.T) {
	a, err := NewKFold(3, true, 99).Split(12)
	require.NoError(t, err)
	b, err := NewKFold(3, true, 99).Split(12)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSubset(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
		7, 8,
	})
	y := mat.NewDense(4, 1, []float64{10, 20, 30, 40})

	xs, ys := Subset(X, y, []int{3, 0})

	assert.Equal(t, []float64{7, 8}, []float64{xs.At(0, 0), xs.At(0, 1)})
	assert.Equal(t, []float64{1, 2}, []float64{xs.At(1, 0), xs.At(1, 1)})
	assert.Equal(t, 40.0, ys.At(0, 0))
	assert.Equal(t, 10.0, ys.At(1, 0))
}
