package models

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/scamara129/broadband-usage/core/model"
	"github.com/scamara129/broadband-usage/pkg/errors"
)

// KNN is a k-nearest-neighbors regressor: a prediction is the mean target of
// the k training rows closest in Euclidean feature distance.
type KNN struct {
	model.BaseEstimator

	// K is the neighbor count.
	K int

	trainX *mat.Dense
	trainY *mat.VecDense
}

// NewKNN creates an unfitted k-NN regressor.
func NewKNN(k int) *KNN {
	if k < 1 {
		k = 1
	}
	return &KNN{K: k}
}

// Fit retains a copy of the training rows. There is no optimization step;
// the training set itself is the model.
func (k *KNN) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("KNN.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("KNN.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("KNN.Fit", "y must be a column vector")
	}
	if r < k.K {
		return errors.NewValueError("KNN.Fit",
			errors.Newf("%d training rows is fewer than k=%d", r, k.K).Error())
	}

	k.trainX = mat.DenseCopyOf(X)
	k.trainY = mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		k.trainY.SetVec(i, y.At(i, 0))
	}
	k.SetFitted()
	return nil
}

// Predict returns the mean neighbor target for each row of X.
func (k *KNN) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !k.IsFitted() {
		return nil, errors.NewNotFittedError("KNN", "Predict")
	}

	r, c := X.Dims()
	trainRows, trainCols := k.trainX.Dims()
	if c != trainCols {
		return nil, errors.NewDimensionError("KNN.Predict", trainCols, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	dists := make([]float64, trainRows)
	order := make([]int, trainRows)

	for i := 0; i < r; i++ {
		for t := 0; t < trainRows; t++ {
			var sum float64
			for j := 0; j < c; j++ {
				diff := X.At(i, j) - k.trainX.At(t, j)
				sum += diff * diff
			}
			dists[t] = math.Sqrt(sum)
			order[t] = t
		}
		sort.Slice(order, func(a, b int) bool { return dists[order[a]] < dists[order[b]] })

		var total float64
		for n := 0; n < k.K; n++ {
			total += k.trainY.AtVec(order[n])
		}
		predictions.Set(i, 0, total/float64(k.K))
	}

	return predictions, nil
}

// SearchKNN selects k from the grid by cross-validated MSE on the training
// partition, then refits the winning k on the full partition. The returned
// trace holds the k grid and its CV-MSE curve.
func SearchKNN(X, y mat.Matrix, grid []int, folds int, seed uint64) (*KNN, SearchTrace, error) {
	trace := SearchTrace{Name: "knn"}
	if len(grid) == 0 {
		return nil, trace, errors.NewValueError("SearchKNN", "empty k grid")
	}

	kf := NewKFold(folds, true, seed)

	bestK := 0
	bestMSE := math.Inf(1)
	for _, k := range grid {
		k := k
		mse, err := crossValMSE(func() Regressor { return NewKNN(k) }, X, y, kf)
		if err != nil {
			return nil, trace, errors.Wrapf(err, "SearchKNN: k=%d", k)
		}
		trace.Param = append(trace.Param, float64(k))
		trace.Score = append(trace.Score, mse)
		if mse < bestMSE {
			bestMSE = mse
			bestK = k
		}
	}

	final := NewKNN(bestK)
	if err := final.Fit(X, y); err != nil {
		return nil, trace, errors.Wrap(err, "SearchKNN: final refit")
	}
	return final, trace, nil
}
