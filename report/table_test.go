package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamara129/broadband-usage/analysis"
)

func TestComparisonTable(t *testing.T) {
	ledger := []analysis.Comparison{
		{Model: "linear", MSE: 0.25, RMSE: 0.5, R2: 0.75},
		{Model: "knn", MSE: 0.04, RMSE: 0.2, R2: 0.96},
	}

	var buf bytes.Buffer
	require.NoError(t, ComparisonTable(&buf, ledger))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "MODEL")
	assert.Contains(t, lines[0], "R2")
	assert.Contains(t, lines[1], "linear")
	assert.Contains(t, lines[1], "0.250000")
	assert.Contains(t, lines[1], "0.7500")
	assert.Contains(t, lines[2], "knn")
	assert.Contains(t, lines[2], "0.200000")
}

func TestPredictionTable(t *testing.T) {
	predictions := []analysis.Prediction{
		{County: "High County", State: "CA", Usage: 0.61},
		{County: "Low County", State: "TX", Usage: 0.3},
	}

	var buf bytes.Buffer
	require.NoError(t, PredictionTable(&buf, predictions))

	out := buf.String()
	assert.Contains(t, out, "High County")
	assert.Contains(t, out, "0.6100")
	// Rows render in the order given.
	assert.Less(t, strings.Index(out, "High County"), strings.Index(out, "Low County"))
}

func TestWritePredictionsCSV(t *testing.T) {
	predictions := []analysis.Prediction{
		{County: "Yolo County", State: "CA", Usage: 0.4512},
		{County: "Anderson County", State: "TX", Usage: 0.3},
	}

	path := filepath.Join(t.TempDir(), "predictions.csv")
	require.NoError(t, WritePredictionsCSV(path, predictions))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"county", "state", "predicted_usage"}, records[0])
	assert.Equal(t, []string{"Yolo County", "CA", "0.4512"}, records[1])
	assert.Equal(t, []string{"Anderson County", "TX", "0.3000"}, records[2])
}
