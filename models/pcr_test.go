package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func pcrTestData(n int) (*mat.Dense, *mat.Dense) {
	// Column 0 carries nearly all the variance; the target follows it with a
	// little deterministic ripple so validation error never hits exactly zero.
	X := mat.NewDense(n, 3, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		v := float64(i)
		X.Set(i, 0, 10*v)
		X.Set(i, 1, math.Sin(v))
		X.Set(i, 2, math.Cos(2*v))
		y.Set(i, 0, 10*v+0.05*math.Sin(7*v))
	}
	return X, y
}

func TestPCRFullComponentsMatchesOLS(t *testing.T) {
	// With every component retained, the projection is a rotation and PCR
	// reproduces the plain least squares fit. y = x0 + 2*x1 - x2, exactly.
	X := mat.NewDense(10, 3, nil)
	y := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		v := float64(i)
		X.Set(i, 0, v)
		X.Set(i, 1, math.Sin(v))
		X.Set(i, 2, v*v/10)
		y.Set(i, 0, X.At(i, 0)+2*X.At(i, 1)-X.At(i, 2))
	}

	m := NewPCR(3)
	require.NoError(t, m.Fit(X, y))

	pred, err := m.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		assert.InDelta(t, y.At(i, 0), pred.At(i, 0), 1e-6)
	}
}

func TestPCROneComponentOnDominantDirection(t *testing.T) {
	X, y := pcrTestData(20)

	m := NewPCR(1)
	require.NoError(t, m.Fit(X, y))

	pred, err := m.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		assert.InDelta(t, y.At(i, 0), pred.At(i, 0), 1.0,
			"one component should be enough for row %d", i)
	}
}

func TestPCRValidation(t *testing.T) {
	X, y := pcrTestData(10)

	assert.Error(t, NewPCR(0).Fit(X, y), "component count below range")
	assert.Error(t, NewPCR(4).Fit(X, y), "more components than features")

	smallX, smallY := pcrTestData(3)
	assert.Error(t, NewPCR(2).Fit(smallX, smallY), "too few rows")

	_, err := NewPCR(2).Predict(X)
	assert.Error(t, err, "predict before fit")
}

func TestSearchPCRStopsAtElbow(t *testing.T) {
	X, y := pcrTestData(20)

	m, trace, err := SearchPCR(X, y, 0.2, 0)
	require.NoError(t, err)

	// The second and third components carry almost no signal, so the curve
	// flattens after the first.
	assert.Equal(t, 1, m.NComponents)
	assert.Equal(t, "pcr", trace.Name)
	assert.Equal(t, []float64{1, 2, 3}, trace.Param)
	require.Len(t, trace.Score, 3)

	again, traceAgain, err := SearchPCR(X, y, 0.2, 0)
	require.NoError(t, err)
	assert.Equal(t, m.NComponents, again.NComponents)
	assert.Equal(t, trace.Score, traceAgain.Score)
}

func TestSearchPCRKeepsStrongSecondComponent(t *testing.T) {
	// The target needs both of the two high-variance directions; the third
	// carries nothing, so the search should stop at two components.
	n := 20
	X := mat.NewDense(n, 3, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		v := float64(i)
		X.Set(i, 0, 10*v)
		X.Set(i, 1, 5*math.Sin(3*v))
		X.Set(i, 2, 0.1*math.Cos(v))
		y.Set(i, 0, X.At(i, 0)+X.At(i, 1)+0.05*math.Sin(7*v))
	}

	m, trace, err := SearchPCR(X, y, 0.2, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, m.NComponents)
	assert.Greater(t, trace.Score[0], trace.Score[1],
		"dropping the second direction must cost accuracy")
}

func TestSearchPCRTooFewRows(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})
	_, _, err := SearchPCR(X, y, 0.02, 0)
	assert.Error(t, err)
}
