// Package models implements the four regression trainers compared by the
// analysis (ordinary least squares, k-nearest-neighbors, elastic net and
// principal component regression) together with the cross-validation
// machinery their hyperparameter searches run on.
//
// All trainers fit on the training partition only and expose deterministic,
// side-effect-free prediction.
package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/scamara129/broadband-usage/metrics"
)

// Regressor is the contract shared by every model variant. Fit learns from an
// n×p feature matrix and an n×1 target; Predict returns an n×1 matrix.
type Regressor interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// SearchTrace records a hyperparameter search curve: the grid that was swept
// and the validation score at each grid point, in sweep order. The report
// package plots these as model-selection curves.
type SearchTrace struct {
	Name  string
	Param []float64
	Score []float64
}

// crossValMSE returns the mean out-of-fold MSE of models produced by
// newModel, trained and scored across the splitter's folds.
func crossValMSE(newModel func() Regressor, X, y mat.Matrix, kf *KFold) (float64, error) {
	rows, _ := X.Dims()
	folds, err := kf.Split(rows)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, fold := range folds {
		trainX, trainY := Subset(X, y, fold.TrainIndices)
		testX, testY := Subset(X, y, fold.TestIndices)

		m := newModel()
		if err := m.Fit(trainX, trainY); err != nil {
			return 0, err
		}
		pred, err := m.Predict(testX)
		if err != nil {
			return 0, err
		}
		mse, err := metrics.MSEMatrix(testY, pred)
		if err != nil {
			return 0, err
		}
		total += mse
	}

	return total / float64(len(folds)), nil
}
