// Command broadband joins the county broadband usage table with census
// socioeconomic indicators, compares four regression models on a held-out
// test split and predicts usage for the counties missing it.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/scamara129/broadband-usage/analysis"
	"github.com/scamara129/broadband-usage/pkg/log"
	"github.com/scamara129/broadband-usage/report"
)

func main() {
	cfg := analysis.DefaultConfig()

	broadbandPath := flag.String("broadband", "data/broadband.csv", "broadband usage/availability CSV")
	censusPath := flag.String("census", "data/census.csv", "census socioeconomic indicator CSV")
	seed := flag.Uint64("seed", cfg.Seed, "random seed for the split and cross-validation shuffles")
	trainFrac := flag.Float64("train-frac", cfg.TrainFraction, "training share of target-bearing rows")
	folds := flag.Int("folds", cfg.Folds, "cross-validation folds for hyperparameter searches")
	outDir := flag.String("out", ".", "directory for the predictions CSV and plots")
	plots := flag.Bool("plots", false, "write residual and model-selection plots")
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger := log.Component("main")
	if err := log.Setup(*level); err != nil {
		logger.Fatal().Err(err).Msg("invalid log level")
	}

	cfg.BroadbandPath = *broadbandPath
	cfg.CensusPath = *censusPath
	cfg.Seed = *seed
	cfg.TrainFraction = *trainFrac
	cfg.Folds = *folds

	result, err := analysis.Run(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("pipeline failed")
	}

	if err := report.ComparisonTable(os.Stdout, result.Comparisons); err != nil {
		logger.Fatal().Err(err).Msg("render comparison table")
	}
	os.Stdout.WriteString("\n")
	if err := report.PredictionTable(os.Stdout, result.Predictions); err != nil {
		logger.Fatal().Err(err).Msg("render prediction table")
	}

	csvPath := filepath.Join(*outDir, "predicted_usage.csv")
	if err := report.WritePredictionsCSV(csvPath, result.Predictions); err != nil {
		logger.Fatal().Err(err).Msg("write predictions CSV")
	}
	logger.Info().Str("path", csvPath).Msg("wrote predictions")

	if *plots {
		if err := report.ResidualPlot(filepath.Join(*outDir, "residuals.png"), result); err != nil {
			logger.Fatal().Err(err).Msg("write residual plot")
		}
		if err := report.SelectionCurves(*outDir, result.Traces); err != nil {
			logger.Fatal().Err(err).Msg("write selection curves")
		}
		logger.Info().Str("dir", *outDir).Msg("wrote plots")
	}
}
