package models

import (
	"fmt"

	"github.com/sajari/regression"
	"gonum.org/v1/gonum/mat"

	"github.com/scamara129/broadband-usage/core/model"
	"github.com/scamara129/broadband-usage/pkg/errors"
)

// Linear is an ordinary least squares regression over all features, with an
// intercept and no interaction terms. The solve is delegated to
// sajari/regression.
type Linear struct {
	model.BaseEstimator

	featureNames []string
	nFeatures    int
	reg          *regression.Regression
}

// NewLinear creates an unfitted OLS model. Feature names are optional and
// only used for readable coefficient output; unnamed features are labeled
// x0..xn.
func NewLinear(featureNames ...string) *Linear {
	return &Linear{featureNames: featureNames}
}

// Fit estimates the coefficients on the training data.
func (l *Linear) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("Linear.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("Linear.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("Linear.Fit", "y must be a column vector")
	}

	reg := new(regression.Regression)
	reg.SetObserved("target")
	for j := 0; j < c; j++ {
		reg.SetVar(j, l.featureName(j))
	}

	for i := 0; i < r; i++ {
		vars := make([]float64, c)
		for j := 0; j < c; j++ {
			vars[j] = X.At(i, j)
		}
		reg.Train(regression.DataPoint(y.At(i, 0), vars))
	}

	if err := reg.Run(); err != nil {
		return errors.NewModelError("Linear.Fit", "least squares solve failed", err)
	}

	l.nFeatures = c
	l.reg = reg
	l.SetFitted()
	return nil
}

// Predict returns the fitted line's value for each row of X.
func (l *Linear) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !l.IsFitted() {
		return nil, errors.NewNotFittedError("Linear", "Predict")
	}

	r, c := X.Dims()
	if c != l.nFeatures {
		return nil, errors.NewDimensionError("Linear.Predict", l.nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	vars := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			vars[j] = X.At(i, j)
		}
		pred, err := l.reg.Predict(vars)
		if err != nil {
			return nil, errors.NewModelError("Linear.Predict", "prediction failed", err)
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// Coefficients returns the fitted feature coefficients in feature order.
func (l *Linear) Coefficients() []float64 {
	if !l.IsFitted() {
		return nil
	}
	coefs := make([]float64, l.nFeatures)
	for j := 0; j < l.nFeatures; j++ {
		coefs[j] = l.reg.Coeff(j + 1)
	}
	return coefs
}

// Intercept returns the fitted intercept.
func (l *Linear) Intercept() float64 {
	if !l.IsFitted() {
		return 0
	}
	return l.reg.Coeff(0)
}

func (l *Linear) featureName(j int) string {
	if j < len(l.featureNames) {
		return l.featureNames[j]
	}
	return fmt.Sprintf("x%d", j)
}
