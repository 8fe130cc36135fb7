// Package report renders the run's terminal outputs: the model comparison
// table, the prediction table for counties that were missing a usage value,
// and optional diagnostic plots.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/scamara129/broadband-usage/analysis"
	"github.com/scamara129/broadband-usage/pkg/errors"
)

// ComparisonTable writes the model ledger in evaluation order.
func ComparisonTable(w io.Writer, ledger []analysis.Comparison) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tMSE\tRMSE\tR2")
	for _, row := range ledger {
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\t%.4f\n", row.Model, row.MSE, row.RMSE, row.R2)
	}
	return tw.Flush()
}

// PredictionTable writes the filled-in counties, already sorted descending by
// predicted usage.
func PredictionTable(w io.Writer, predictions []analysis.Prediction) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COUNTY\tSTATE\tPREDICTED USAGE")
	for _, p := range predictions {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\n", p.County, p.State, p.Usage)
	}
	return tw.Flush()
}

// WritePredictionsCSV persists the prediction table as a CSV file.
func WritePredictionsCSV(path string, predictions []analysis.Prediction) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create predictions file")
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"county", "state", "predicted_usage"}); err != nil {
		return errors.Wrap(err, "write predictions header")
	}
	for _, p := range predictions {
		record := []string{p.County, p.State, strconv.FormatFloat(p.Usage, 'f', 4, 64)}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "write prediction row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush predictions file")
}
