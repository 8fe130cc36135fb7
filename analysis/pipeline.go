package analysis

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/scamara129/broadband-usage/dataset"
	"github.com/scamara129/broadband-usage/models"
	"github.com/scamara129/broadband-usage/pkg/errors"
	"github.com/scamara129/broadband-usage/pkg/log"
	"github.com/scamara129/broadband-usage/preprocessing"
)

// Config holds everything a run needs. Defaults reproduce the original
// analysis; tests shrink the folds and grids to fit synthetic data.
type Config struct {
	BroadbandPath string
	CensusPath    string

	// Seed drives the train/test split and every cross-validation shuffle.
	Seed uint64

	// TrainFraction is the share of target-bearing rows used for training.
	TrainFraction float64

	// Folds is the cross-validation fold count for the k-NN and elastic net
	// searches.
	Folds int

	// KGrid is the neighbor-count grid for the k-NN search.
	KGrid []int

	// ImputeNeighbors is k for the per-partition k-NN imputation.
	ImputeNeighbors int

	// ElbowThreshold is the marginal relative improvement below which the
	// PCR component search stops adding components.
	ElbowThreshold float64
}

// DefaultConfig returns the configuration of the original analysis run.
func DefaultConfig() Config {
	kGrid := make([]int, 0, 24)
	for k := 2; k <= 25; k++ {
		kGrid = append(kGrid, k)
	}
	return Config{
		Seed:            1148,
		TrainFraction:   0.8,
		Folds:           10,
		KGrid:           kGrid,
		ImputeNeighbors: 10,
		ElbowThreshold:  0.02,
	}
}

// Result carries every terminal artifact of one run.
type Result struct {
	// Comparisons is the model ledger in evaluation order.
	Comparisons []Comparison

	// Best is the ledger row the predictor used.
	Best Comparison

	// Predictions are the filled-in counties, descending by predicted usage.
	Predictions []Prediction

	// TargetMean and TargetStd are the training target statistics used for
	// the inverse transform.
	TargetMean float64
	TargetStd  float64

	// Traces are the hyperparameter search curves, for diagnostics.
	Traces []models.SearchTrace

	// TestActual and TestPredicted are the best model's test-set values in
	// scaled units, for the residual plot.
	TestActual    []float64
	TestPredicted []float64
}

// Run executes the whole pipeline sequentially. Each stage completes before
// the next begins; any failure aborts the run with an error naming the stage.
func Run(cfg Config) (*Result, error) {
	logger := log.Component("pipeline")
	started := time.Now()

	// Ingest and join.
	broadband, err := dataset.LoadBroadband(cfg.BroadbandPath)
	if err != nil {
		return nil, errors.Wrap(err, "stage load")
	}
	census, err := dataset.LoadCensus(cfg.CensusPath)
	if err != nil {
		return nil, errors.Wrap(err, "stage load")
	}
	joined, err := dataset.Join(census, broadband)
	if err != nil {
		return nil, errors.Wrap(err, "stage join")
	}
	logger.Info().
		Int("broadband_rows", broadband.Nrow()).
		Int("census_rows", census.Nrow()).
		Int("joined_rows", joined.Nrow()).
		Msg("joined county tables")

	// Normalize and coerce.
	normalized, err := dataset.Normalize(joined)
	if err != nil {
		return nil, errors.Wrap(err, "stage normalize")
	}
	table, err := dataset.ToTable(normalized)
	if err != nil {
		return nil, errors.Wrap(err, "stage normalize")
	}
	for col, n := range table.MissingCounts() {
		if n > 0 {
			logger.Debug().Str("column", col).Int("missing", n).Msg("missing values after coercion")
		}
	}

	// Partition.
	working, toPredict := dataset.SplitMissingTarget(table)
	train, test, err := dataset.TrainTestSplit(working, cfg.TrainFraction, cfg.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "stage split")
	}
	logger.Info().
		Int("train", train.Len()).
		Int("test", test.Len()).
		Int("to_predict", toPredict.Len()).
		Msg("partitioned rows")

	// Impute each partition on its own statistics.
	for _, part := range []*dataset.Table{train, test, toPredict} {
		if part.Len() == 0 {
			continue
		}
		if err := imputePartition(part, cfg.ImputeNeighbors); err != nil {
			return nil, errors.Wrap(err, "stage impute")
		}
	}

	// Scale with training-fitted parameters only.
	featScaler := preprocessing.NewStandardScaler()
	trainX, err := featScaler.FitTransform(train.X)
	if err != nil {
		return nil, errors.Wrap(err, "stage scale")
	}
	testX, err := featScaler.Transform(test.X)
	if err != nil {
		return nil, errors.Wrap(err, "stage scale")
	}
	var toPredictX *mat.Dense
	if toPredict.Len() > 0 {
		toPredictX, err = featScaler.Transform(toPredict.X)
		if err != nil {
			return nil, errors.Wrap(err, "stage scale")
		}
		toPredict.X = toPredictX
	}

	targetScaler := preprocessing.NewStandardScaler()
	trainY, err := targetScaler.FitTransform(train.TargetMatrix())
	if err != nil {
		return nil, errors.Wrap(err, "stage scale")
	}
	testY, err := targetScaler.Transform(test.TargetMatrix())
	if err != nil {
		return nil, errors.Wrap(err, "stage scale")
	}
	logger.Debug().
		Str("features", featScaler.String()).
		Str("target", targetScaler.String()).
		Msg("fitted scalers on training partition")

	result := &Result{
		TargetMean: targetScaler.Mean[0],
		TargetStd:  targetScaler.Scale[0],
	}

	// Train the four models on the training partition only.
	fitted, err := trainModels(cfg, trainX, trainY, result)
	if err != nil {
		return nil, err
	}

	// Evaluate in training order.
	byName := make(map[string]models.Regressor, len(fitted))
	var ledger []Comparison
	for _, entry := range fitted {
		ledger, err = Evaluate(ledger, entry.name, entry.model, testX, testY)
		if err != nil {
			return nil, errors.Wrap(err, "stage evaluate")
		}
		byName[entry.name] = entry.model
		row := ledger[len(ledger)-1]
		logger.Info().Str("model", row.Model).
			Float64("mse", row.MSE).
			Float64("rmse", row.RMSE).
			Float64("r2", row.R2).
			Msg("evaluated on test partition")
	}
	result.Comparisons = ledger

	best, err := Best(ledger)
	if err != nil {
		return nil, errors.Wrap(err, "stage predict")
	}
	result.Best = best
	logger.Info().Str("model", best.Model).Float64("rmse", best.RMSE).Msg("selected best model")

	if err := captureResiduals(result, byName[best.Model], testX, testY); err != nil {
		return nil, errors.Wrap(err, "stage predict")
	}

	result.Predictions, err = PredictMissing(byName[best.Model], toPredict, result.TargetMean, result.TargetStd)
	if err != nil {
		return nil, errors.Wrap(err, "stage predict")
	}

	logger.Info().Dur("elapsed", time.Since(started)).Msg("pipeline complete")
	return result, nil
}

// imputePartition fits and applies a k-NN imputation using only the
// partition's own rows. Calling this once per partition is what keeps the
// partitions' imputations independent of each other.
func imputePartition(part *dataset.Table, neighbors int) error {
	imputer := preprocessing.NewKNNImputer(neighbors)
	filled, err := imputer.FitTransform(part.X)
	if err != nil {
		return err
	}
	part.X = filled
	return nil
}

type fittedModel struct {
	name  string
	model models.Regressor
}

// trainModels fits the four regressors and records their search traces.
func trainModels(cfg Config, trainX, trainY mat.Matrix, result *Result) ([]fittedModel, error) {
	logger := log.Component("train")

	linear := models.NewLinear(dataset.FeatureColumns...)
	if err := linear.Fit(trainX, trainY); err != nil {
		return nil, errors.Wrap(err, "stage train linear")
	}

	knn, knnTrace, err := models.SearchKNN(trainX, trainY, cfg.KGrid, cfg.Folds, cfg.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "stage train knn")
	}
	logger.Info().Int("k", knn.K).Msg("k-NN search done")

	enet, alphaTrace, lambdaTrace, err := models.SearchElasticNet(trainX, trainY, cfg.Folds, cfg.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "stage train elasticnet")
	}
	logger.Info().Float64("alpha", enet.Alpha).Float64("lambda", enet.Lambda).Msg("elastic net search done")

	pcr, pcrTrace, err := models.SearchPCR(trainX, trainY, cfg.ElbowThreshold, cfg.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "stage train pcr")
	}
	logger.Info().Int("components", pcr.NComponents).Msg("PCR search done")

	result.Traces = append(result.Traces, knnTrace, alphaTrace, lambdaTrace, pcrTrace)

	return []fittedModel{
		{name: "linear", model: linear},
		{name: "knn", model: knn},
		{name: "elasticnet", model: enet},
		{name: "pcr", model: pcr},
	}, nil
}

func captureResiduals(result *Result, best models.Regressor, testX, testY mat.Matrix) error {
	pred, err := best.Predict(testX)
	if err != nil {
		return err
	}
	r, _ := testY.Dims()
	result.TestActual = make([]float64, r)
	result.TestPredicted = make([]float64, r)
	for i := 0; i < r; i++ {
		result.TestActual[i] = testY.At(i, 0)
		result.TestPredicted[i] = pred.At(i, 0)
	}
	return nil
}
