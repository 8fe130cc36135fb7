// Package metrics implements the regression error measures used to compare
// the fitted models.
//
// All measures skip index pairs where either value is NaN and divide by the
// number of pairs actually evaluated, so exclusion is identical no matter
// which model produced the predictions.
package metrics

import (
	"math"

	"github.com/scamara129/broadband-usage/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MSE computes the mean squared error over all pairs where both values are
// defined.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	var sum float64
	count := 0
	for i := 0; i < n; i++ {
		actual := yTrue.AtVec(i)
		pred := yPred.AtVec(i)
		if math.IsNaN(actual) || math.IsNaN(pred) {
			continue
		}
		diff := actual - pred
		sum += diff * diff
		count++
	}
	if count == 0 {
		return 0, errors.NewValueError("MSE", "no defined observation/prediction pairs")
	}

	return sum / float64(count), nil
}

// RMSE computes the root mean squared error.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error over defined pairs.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	var sum float64
	count := 0
	for i := 0; i < n; i++ {
		actual := yTrue.AtVec(i)
		pred := yPred.AtVec(i)
		if math.IsNaN(actual) || math.IsNaN(pred) {
			continue
		}
		sum += math.Abs(actual - pred)
		count++
	}
	if count == 0 {
		return 0, errors.NewValueError("MAE", "no defined observation/prediction pairs")
	}

	return sum / float64(count), nil
}

// R2Score computes the coefficient of determination over defined pairs.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("R2Score", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	var yMean float64
	count := 0
	for i := 0; i < n; i++ {
		if math.IsNaN(yTrue.AtVec(i)) || math.IsNaN(yPred.AtVec(i)) {
			continue
		}
		yMean += yTrue.AtVec(i)
		count++
	}
	if count == 0 {
		return 0, errors.NewValueError("R2Score", "no defined observation/prediction pairs")
	}
	yMean /= float64(count)

	var tss, rss float64
	for i := 0; i < n; i++ {
		actual := yTrue.AtVec(i)
		pred := yPred.AtVec(i)
		if math.IsNaN(actual) || math.IsNaN(pred) {
			continue
		}
		tss += (actual - yMean) * (actual - yMean)
		rss += (actual - pred) * (actual - pred)
	}
	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	return 1 - rss/tss, nil
}

// MSEMatrix computes MSE for n×1 matrix inputs, the shape the model Predict
// methods return.
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("MSEMatrix", "empty matrix")
	}
	if rTrue != rPred || cTrue != cPred {
		return 0, errors.NewDimensionError("MSEMatrix", rTrue, rPred, 0)
	}
	if cTrue != 1 {
		return 0, errors.NewValueError("MSEMatrix", "must be a column vector (n×1 matrix)")
	}

	yTrueVec := mat.NewVecDense(rTrue, nil)
	yPredVec := mat.NewVecDense(rPred, nil)
	for i := 0; i < rTrue; i++ {
		yTrueVec.SetVec(i, yTrue.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}

	return MSE(yTrueVec, yPredVec)
}
