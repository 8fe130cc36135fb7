package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestKNNImputerFillsWithNeighborMedian(t *testing.T) {
	nan := math.NaN()
	X := mat.NewDense(5, 2, []float64{
		1.0, 10,
		1.1, 12,
		5.0, nan,
		5.1, 50,
		0.9, 11,
	})

	im := NewKNNImputer(2)
	filled, err := im.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	// Nearest rows observing column 1 (by column-0 distance) are rows 3 and
	// 1; the median of {50, 12} is 31.
	if got, want := filled.At(2, 1), 31.0; math.Abs(got-want) > 1e-10 {
		t.Errorf("imputed value = %v, want %v", got, want)
	}
}

func TestKNNImputerLeavesCompleteRowsUntouched(t *testing.T) {
	nan := math.NaN()
	X := mat.NewDense(4, 2, []float64{
		1.0, 2.0,
		3.0, 4.0,
		nan, 6.0,
		7.0, 8.0,
	})

	im := NewKNNImputer(10)
	filled, err := im.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	for _, i := range []int{0, 1, 3} {
		for j := 0; j < 2; j++ {
			if filled.At(i, j) != X.At(i, j) {
				t.Errorf("complete row %d changed: got %v, want %v", i, filled.At(i, j), X.At(i, j))
			}
		}
	}
	if math.IsNaN(filled.At(2, 0)) {
		t.Error("missing cell was not imputed")
	}
}

// Each partition fits its own imputer, so changing the training partition's
// missing values must never change what the test partition imputes to.
func TestKNNImputerNoCrossPartitionLeakage(t *testing.T) {
	nan := math.NaN()
	testPartition := func() *mat.Dense {
		return mat.NewDense(4, 2, []float64{
			2.0, 20,
			2.1, nan,
			8.0, 70,
			8.1, 72,
		})
	}

	trainA := mat.NewDense(3, 2, []float64{1.0, nan, 1.5, 15, 2.0, 18})
	trainB := mat.NewDense(3, 2, []float64{1.0, nan, 900.0, 900, 950.0, 950})

	runTest := func(train *mat.Dense) *mat.Dense {
		if _, err := NewKNNImputer(2).FitTransform(train); err != nil {
			t.Fatalf("train FitTransform() error = %v", err)
		}
		filled, err := NewKNNImputer(2).FitTransform(testPartition())
		if err != nil {
			t.Fatalf("test FitTransform() error = %v", err)
		}
		return filled
	}

	resultA := runTest(trainA)
	resultB := runTest(trainB)

	if !mat.Equal(resultA, resultB) {
		t.Error("test partition imputations changed when only the training partition changed")
	}
}

func TestKNNImputerFullyMissingColumn(t *testing.T) {
	nan := math.NaN()
	X := mat.NewDense(3, 2, []float64{
		1.0, nan,
		2.0, nan,
		3.0, nan,
	})

	im := NewKNNImputer(2)
	filled, err := im.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	// No row observes the column, so the fallback is zero.
	for i := 0; i < 3; i++ {
		if filled.At(i, 1) != 0 {
			t.Errorf("fully missing column row %d = %v, want 0", i, filled.At(i, 1))
		}
	}
}

func TestKNNImputerNotFitted(t *testing.T) {
	if _, err := NewKNNImputer(3).Transform(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Transform() on unfitted imputer should error")
	}
}
