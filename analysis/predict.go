package analysis

import (
	"sort"

	"github.com/scamara129/broadband-usage/dataset"
	"github.com/scamara129/broadband-usage/models"
	"github.com/scamara129/broadband-usage/pkg/errors"
)

// Prediction is one filled-in county: the predicted broadband usage mapped
// back to its original units.
type Prediction struct {
	County string
	State  string
	Usage  float64
}

// PredictMissing applies the winning model to the to-predict partition's
// (already scaled) features and inverse-transforms the result with the
// training partition's pre-scaling target mean and standard deviation. The
// to-predict partition has no target distribution of its own, so the training
// statistics are the only valid ones. Results are sorted descending by
// predicted usage for presentation.
func PredictMissing(m models.Regressor, toPredict *dataset.Table, targetMean, targetStd float64) ([]Prediction, error) {
	if toPredict.Len() == 0 {
		return nil, nil
	}

	scaled, err := m.Predict(toPredict.X)
	if err != nil {
		return nil, errors.Wrap(err, "predict missing usage")
	}

	predictions := make([]Prediction, toPredict.Len())
	for i := range predictions {
		predictions[i] = Prediction{
			County: toPredict.Counties[i],
			State:  toPredict.States[i],
			Usage:  scaled.At(i, 0)*targetStd + targetMean,
		}
	}

	sort.Slice(predictions, func(a, b int) bool {
		return predictions[a].Usage > predictions[b].Usage
	})
	return predictions, nil
}
