package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"

	"github.com/scamara129/broadband-usage/pkg/errors"
)

// Normalize renames the joined frame's source columns to the canonical names
// and keeps exactly the canonical set: state, county, usage and the eight
// feature columns. Everything else in the joined frame (geographic ids,
// margin-of-error columns, alternate encodings) is dropped here.
func Normalize(joined dataframe.DataFrame) (dataframe.DataFrame, error) {
	for raw, canonical := range renames {
		if hasColumn(joined, raw) {
			joined = joined.Rename(canonical, raw)
		}
	}

	keep := append([]string{ColState, ColCounty, ColUsage}, FeatureColumns...)
	for _, col := range keep {
		if !hasColumn(joined, col) {
			return dataframe.DataFrame{}, errors.NewValueError("Normalize",
				errors.Newf("joined table is missing column %q", col).Error())
		}
	}

	normalized := joined.Select(keep)
	if normalized.Error() != nil {
		return dataframe.DataFrame{}, errors.Wrap(normalized.Error(), "select canonical columns")
	}
	return normalized, nil
}

// ToTable coerces the normalized frame's numeric columns to floats and packs
// them into a Table. Values that fail to parse become NaN for the imputer to
// handle; coercion never raises.
func ToTable(normalized dataframe.DataFrame) (*Table, error) {
	n := normalized.Nrow()
	if n == 0 {
		return nil, errors.NewModelError("ToTable", "empty table", errors.ErrEmptyData)
	}

	t := &Table{
		States:   normalized.Col(ColState).Records(),
		Counties: normalized.Col(ColCounty).Records(),
		X:        mat.NewDense(n, len(FeatureColumns), nil),
		Y:        make([]float64, n),
	}

	for j, col := range FeatureColumns {
		records := normalized.Col(col).Records()
		for i, rec := range records {
			t.X.Set(i, j, parseNumber(rec))
		}
	}
	for i, rec := range normalized.Col(ColUsage).Records() {
		t.Y[i] = parseNumber(rec)
	}

	return t, nil
}

// parseNumber coerces one text cell. Grouping commas and surrounding
// whitespace are ingestion artifacts and are removed before parsing.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	switch s {
	case "", "-", "NA", "N/A", "NaN":
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
