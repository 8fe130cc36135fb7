package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/scamara129/broadband-usage/core/model"
	"github.com/scamara129/broadband-usage/pkg/errors"
)

// ElasticNet is a linear model with a combined L1/L2 penalty, fitted by
// cyclic coordinate descent. Alpha in [0,1] mixes the penalties (1 = pure
// lasso) and Lambda sets the overall strength.
type ElasticNet struct {
	model.BaseEstimator

	Alpha  float64
	Lambda float64

	// MaxIter and Tol bound the descent loop: iteration stops when the
	// largest coefficient update falls below Tol.
	MaxIter int
	Tol     float64

	weights   []float64
	intercept float64
	nFeatures int
}

// NewElasticNet creates an unfitted elastic net with default descent bounds.
func NewElasticNet(alpha, lambda float64) *ElasticNet {
	return &ElasticNet{
		Alpha:   alpha,
		Lambda:  lambda,
		MaxIter: 500,
		Tol:     1e-5,
	}
}

// Fit runs coordinate descent on centered copies of the training data. The
// intercept is recovered from the column means afterwards, so callers may
// pass unstandardized features.
func (e *ElasticNet) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("ElasticNet.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("ElasticNet.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("ElasticNet.Fit", "y must be a column vector")
	}
	if e.Alpha < 0 || e.Alpha > 1 {
		return errors.NewValueError("ElasticNet.Fit", "alpha must be in [0, 1]")
	}
	if e.Lambda < 0 {
		return errors.NewValueError("ElasticNet.Fit", "lambda must be non-negative")
	}

	n := float64(r)

	// Center features and target; the penalty must not touch the intercept.
	xc := mat.DenseCopyOf(X)
	xMeans := make([]float64, c)
	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			sum += xc.At(i, j)
		}
		xMeans[j] = sum / n
		for i := 0; i < r; i++ {
			xc.Set(i, j, xc.At(i, j)-xMeans[j])
		}
	}

	yc := make([]float64, r)
	var yMean float64
	for i := 0; i < r; i++ {
		yc[i] = y.At(i, 0)
		yMean += yc[i]
	}
	yMean /= n
	for i := range yc {
		yc[i] -= yMean
	}

	colSqSum := make([]float64, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			v := xc.At(i, j)
			colSqSum[j] += v * v
		}
	}

	weights := make([]float64, c)
	residuals := make([]float64, r)
	copy(residuals, yc)

	l1 := e.Lambda * e.Alpha
	l2 := e.Lambda * (1 - e.Alpha)

	for iter := 0; iter < e.MaxIter; iter++ {
		maxDelta := 0.0
		for j := 0; j < c; j++ {
			if colSqSum[j] == 0 {
				continue
			}

			// Partial residual correlation with the j-th column folded back in.
			rho := colSqSum[j] * weights[j]
			for i := 0; i < r; i++ {
				rho += xc.At(i, j) * residuals[i]
			}

			newWeight := softThreshold(rho/n, l1) / (colSqSum[j]/n + l2)
			delta := newWeight - weights[j]
			if delta != 0 {
				for i := 0; i < r; i++ {
					residuals[i] -= xc.At(i, j) * delta
				}
				weights[j] = newWeight
			}
			if d := math.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}
		if maxDelta < e.Tol {
			break
		}
	}

	intercept := yMean
	for j := 0; j < c; j++ {
		intercept -= weights[j] * xMeans[j]
	}

	e.weights = weights
	e.intercept = intercept
	e.nFeatures = c
	e.SetFitted()
	return nil
}

// Predict returns Xw + b for each row of X.
func (e *ElasticNet) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("ElasticNet", "Predict")
	}

	r, c := X.Dims()
	if c != e.nFeatures {
		return nil, errors.NewDimensionError("ElasticNet.Predict", e.nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := e.intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * e.weights[j]
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// Coefficients returns the fitted feature coefficients.
func (e *ElasticNet) Coefficients() []float64 {
	if !e.IsFitted() {
		return nil
	}
	coefs := make([]float64, len(e.weights))
	copy(coefs, e.weights)
	return coefs
}

// Intercept returns the fitted intercept.
func (e *ElasticNet) Intercept() float64 {
	if !e.IsFitted() {
		return 0
	}
	return e.intercept
}

func softThreshold(z, gamma float64) float64 {
	switch {
	case z > gamma:
		return z - gamma
	case z < -gamma:
		return z + gamma
	default:
		return 0
	}
}

// SearchElasticNet runs the two-stage cross-validated search: first the
// mixing parameter alpha over [0.01, 0.99] in steps of 0.01, each alpha
// scored by its best CV MSE over a coarse lambda grid, then lambda on a finer
// grid with the winning alpha fixed. The final model is refit on the full
// training partition at the chosen pair.
//
// The alpha trace carries each alpha's best CV MSE; the lambda trace carries
// the stage-two lambda curve.
func SearchElasticNet(X, y mat.Matrix, folds int, seed uint64) (*ElasticNet, SearchTrace, SearchTrace, error) {
	alphaTrace := SearchTrace{Name: "elasticnet_alpha"}
	lambdaTrace := SearchTrace{Name: "elasticnet_lambda"}

	kf := NewKFold(folds, true, seed)
	coarse := logspace(-4, 0, 20)

	bestAlpha := 0.0
	bestAlphaMSE := math.Inf(1)
	for step := 1; step <= 99; step++ {
		alpha := float64(step) / 100

		alphaBest := math.Inf(1)
		for _, lambda := range coarse {
			alpha, lambda := alpha, lambda
			mse, err := crossValMSE(func() Regressor { return NewElasticNet(alpha, lambda) }, X, y, kf)
			if err != nil {
				return nil, alphaTrace, lambdaTrace, errors.Wrapf(err, "SearchElasticNet: alpha=%.2f lambda=%g", alpha, lambda)
			}
			if mse < alphaBest {
				alphaBest = mse
			}
		}

		alphaTrace.Param = append(alphaTrace.Param, alpha)
		alphaTrace.Score = append(alphaTrace.Score, alphaBest)
		if alphaBest < bestAlphaMSE {
			bestAlphaMSE = alphaBest
			bestAlpha = alpha
		}
	}

	fine := logspace(-4, 0, 60)
	bestLambda := 0.0
	bestLambdaMSE := math.Inf(1)
	for _, lambda := range fine {
		lambda := lambda
		mse, err := crossValMSE(func() Regressor { return NewElasticNet(bestAlpha, lambda) }, X, y, kf)
		if err != nil {
			return nil, alphaTrace, lambdaTrace, errors.Wrapf(err, "SearchElasticNet: lambda=%g", lambda)
		}
		lambdaTrace.Param = append(lambdaTrace.Param, lambda)
		lambdaTrace.Score = append(lambdaTrace.Score, mse)
		if mse < bestLambdaMSE {
			bestLambdaMSE = mse
			bestLambda = lambda
		}
	}

	final := NewElasticNet(bestAlpha, bestLambda)
	if err := final.Fit(X, y); err != nil {
		return nil, alphaTrace, lambdaTrace, errors.Wrap(err, "SearchElasticNet: final refit")
	}
	return final, alphaTrace, lambdaTrace, nil
}

// logspace returns count values spaced evenly on a log10 scale between
// 10^lo and 10^hi inclusive.
func logspace(lo, hi float64, count int) []float64 {
	if count < 2 {
		return []float64{math.Pow(10, lo)}
	}
	values := make([]float64, count)
	step := (hi - lo) / float64(count-1)
	for i := range values {
		values[i] = math.Pow(10, lo+float64(i)*step)
	}
	return values
}
