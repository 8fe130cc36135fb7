package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestKNNPredictNeighborMean(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{0, 1, 2, 10, 11})
	y := mat.NewDense(5, 1, []float64{0, 10, 20, 100, 110})

	tests := []struct {
		name  string
		k     int
		query float64
		want  float64
	}{
		{"single nearest", 1, 0.9, 10},
		{"mean of two nearest", 2, 10.4, 105},
		{"mean of three nearest", 3, 1.1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewKNN(tt.k)
			require.NoError(t, m.Fit(X, y))

			pred, err := m.Predict(mat.NewDense(1, 1, []float64{tt.query}))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, pred.At(0, 0), 1e-10)
		})
	}
}

func TestKNNFitTooFewRows(t *testing.T) {
	m := NewKNN(5)
	err := m.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(3, 1, []float64{1, 2, 3}))
	assert.Error(t, err)
}

func TestKNNNotFitted(t *testing.T) {
	_, err := NewKNN(3).Predict(mat.NewDense(1, 1, []float64{0}))
	assert.Error(t, err)
}

func TestSearchKNN(t *testing.T) {
	// Smooth 1-D relationship; any small k fits it well.
	n := 30
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		v := float64(i) / 10
		X.Set(i, 0, v)
		y.Set(i, 0, 2*v)
	}

	grid := []int{1, 3, 5}
	m, trace, err := SearchKNN(X, y, grid, 3, 17)
	require.NoError(t, err)

	assert.Contains(t, grid, m.K)
	assert.Equal(t, "knn", trace.Name)
	assert.Equal(t, []float64{1, 3, 5}, trace.Param)
	require.Len(t, trace.Score, 3)

	// Same seed, same outcome.
	again, traceAgain, err := SearchKNN(X, y, grid, 3, 17)
	require.NoError(t, err)
	assert.Equal(t, m.K, again.K)
	assert.Equal(t, trace.Score, traceAgain.Score)
}

func TestSearchKNNEmptyGrid(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	_, _, err := SearchKNN(X, y, nil, 2, 1)
	assert.Error(t, err)
}
