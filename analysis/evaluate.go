// Package analysis wires the pipeline together: it sequences ingestion,
// cleaning, per-partition preprocessing, the four model trainers, test-set
// evaluation and the final prediction of counties missing a usage value.
package analysis

import (
	"gonum.org/v1/gonum/mat"

	"github.com/scamara129/broadband-usage/metrics"
	"github.com/scamara129/broadband-usage/models"
	"github.com/scamara129/broadband-usage/pkg/errors"
)

// Comparison is one row of the model comparison ledger.
type Comparison struct {
	Model string
	MSE   float64
	RMSE  float64
	R2    float64
}

// Evaluate scores a fitted model on the test partition and returns the
// ledger with the new row appended. The ledger is an explicit input and
// output: evaluation order is whatever order the calls were made in, never
// ambient state.
func Evaluate(ledger []Comparison, name string, m models.Regressor, testX, testY mat.Matrix) ([]Comparison, error) {
	pred, err := m.Predict(testX)
	if err != nil {
		return ledger, errors.Wrapf(err, "evaluate %s", name)
	}

	actual, predicted := columnVectors(testY, pred)

	mse, err := metrics.MSE(actual, predicted)
	if err != nil {
		return ledger, errors.Wrapf(err, "evaluate %s", name)
	}
	rmse, err := metrics.RMSE(actual, predicted)
	if err != nil {
		return ledger, errors.Wrapf(err, "evaluate %s", name)
	}
	r2, err := metrics.R2Score(actual, predicted)
	if err != nil {
		return ledger, errors.Wrapf(err, "evaluate %s", name)
	}

	return append(ledger, Comparison{Model: name, MSE: mse, RMSE: rmse, R2: r2}), nil
}

// Best returns the ledger row with the lowest test RMSE.
func Best(ledger []Comparison) (Comparison, error) {
	if len(ledger) == 0 {
		return Comparison{}, errors.NewValueError("Best", "empty comparison ledger")
	}
	best := ledger[0]
	for _, row := range ledger[1:] {
		if row.RMSE < best.RMSE {
			best = row
		}
	}
	return best, nil
}

func columnVectors(yTrue, yPred mat.Matrix) (*mat.VecDense, *mat.VecDense) {
	r, _ := yTrue.Dims()
	yTrueVec := mat.NewVecDense(r, nil)
	yPredVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yTrueVec.SetVec(i, yTrue.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}
	return yTrueVec, yPredVec
}
