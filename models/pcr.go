package models

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/scamara129/broadband-usage/core/model"
	"github.com/scamara129/broadband-usage/pkg/errors"
)

// PCR is principal component regression: ordinary least squares on the
// projections of the features onto their first NComponents principal axes.
type PCR struct {
	model.BaseEstimator

	// NComponents is the number of principal components kept.
	NComponents int

	projection *mat.Dense
	weights    *mat.VecDense
	intercept  float64
	nFeatures  int
}

// NewPCR creates an unfitted PCR model with the given component count.
func NewPCR(nComponents int) *PCR {
	return &PCR{NComponents: nComponents}
}

// Fit extracts the principal axes of X and solves the least squares problem
// on the component scores.
func (p *PCR) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("PCR.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("PCR.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("PCR.Fit", "y must be a column vector")
	}
	if p.NComponents < 1 || p.NComponents > c {
		return errors.NewValueError("PCR.Fit",
			errors.Newf("component count %d outside [1, %d]", p.NComponents, c).Error())
	}
	if r < p.NComponents+2 {
		return errors.NewValueError("PCR.Fit",
			errors.Newf("%d rows is too few to regress on %d components", r, p.NComponents).Error())
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(X, nil); !ok {
		return errors.NewModelError("PCR.Fit", "principal component decomposition failed", nil)
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)
	projection := mat.DenseCopyOf(vectors.Slice(0, c, 0, p.NComponents))

	var scores mat.Dense
	scores.Mul(X, projection)

	weights, intercept, err := solveOLS(&scores, y)
	if err != nil {
		return err
	}

	p.projection = projection
	p.weights = weights
	p.intercept = intercept
	p.nFeatures = c
	p.SetFitted()
	return nil
}

// Predict projects X onto the retained axes and applies the fitted line.
func (p *PCR) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCR", "Predict")
	}

	r, c := X.Dims()
	if c != p.nFeatures {
		return nil, errors.NewDimensionError("PCR.Predict", p.nFeatures, c, 1)
	}

	var scores mat.Dense
	scores.Mul(X, p.projection)

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := p.intercept
		for j := 0; j < p.NComponents; j++ {
			pred += scores.At(i, j) * p.weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// solveOLS solves the normal equations w = (XᵀX)⁻¹Xᵀy with an intercept
// column prepended, returning the feature weights and the intercept.
func solveOLS(X, y mat.Matrix) (*mat.VecDense, float64, error) {
	r, c := X.Dims()

	withIntercept := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		withIntercept.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			withIntercept.Set(i, j+1, X.At(i, j))
		}
	}

	var xt mat.Dense
	xt.CloneFrom(withIntercept.T())

	var xtx mat.Dense
	xtx.Mul(&xt, withIntercept)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, 0, errors.NewModelError("solveOLS", "singular design matrix", errors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var xty mat.VecDense
	xty.MulVec(&xt, yVec)

	full := mat.NewVecDense(c+1, nil)
	full.MulVec(&xtxInv, &xty)

	weights := mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		weights.SetVec(j, full.AtVec(j+1))
	}
	return weights, full.AtVec(0), nil
}

// SearchPCR picks the component count by leave-one-out validation. It
// computes the LOO RMSE for every component count up to min(features,
// rows-3) and applies an elbow rule: the first count whose marginal relative
// RMSE improvement over the next count falls below threshold wins. If the
// curve never flattens the largest evaluated count wins. The final model is
// refit on the full training partition.
func SearchPCR(X, y mat.Matrix, threshold float64, _ uint64) (*PCR, SearchTrace, error) {
	trace := SearchTrace{Name: "pcr"}

	r, c := X.Dims()
	maxComp := c
	if limit := r - 3; limit < maxComp {
		maxComp = limit
	}
	if maxComp < 1 {
		return nil, trace, errors.NewValueError("SearchPCR",
			errors.Newf("%d rows is too few for leave-one-out validation", r).Error())
	}

	rmse := make([]float64, maxComp)
	for m := 1; m <= maxComp; m++ {
		value, err := looRMSE(X, y, m)
		if err != nil {
			return nil, trace, errors.Wrapf(err, "SearchPCR: %d components", m)
		}
		rmse[m-1] = value
		trace.Param = append(trace.Param, float64(m))
		trace.Score = append(trace.Score, value)
	}

	chosen := maxComp
	for m := 1; m < maxComp; m++ {
		improvement := (rmse[m-1] - rmse[m]) / rmse[m-1]
		if improvement < threshold {
			chosen = m
			break
		}
	}

	final := NewPCR(chosen)
	if err := final.Fit(X, y); err != nil {
		return nil, trace, errors.Wrap(err, "SearchPCR: final refit")
	}
	return final, trace, nil
}

// looRMSE computes the leave-one-out RMSE of a PCR with m components.
func looRMSE(X, y mat.Matrix, m int) (float64, error) {
	r, _ := X.Dims()

	var sumSq float64
	for hold := 0; hold < r; hold++ {
		indices := make([]int, 0, r-1)
		for i := 0; i < r; i++ {
			if i != hold {
				indices = append(indices, i)
			}
		}
		trainX, trainY := Subset(X, y, indices)

		model := NewPCR(m)
		if err := model.Fit(trainX, trainY); err != nil {
			return 0, err
		}

		holdX, _ := Subset(X, y, []int{hold})
		pred, err := model.Predict(holdX)
		if err != nil {
			return 0, err
		}
		diff := y.At(hold, 0) - pred.At(0, 0)
		sumSq += diff * diff
	}

	return math.Sqrt(sumSq / float64(r)), nil
}
