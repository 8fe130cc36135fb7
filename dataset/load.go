package dataset

import (
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/scamara129/broadband-usage/pkg/errors"
)

// LoadBroadband reads the broadband usage/availability file.
func LoadBroadband(path string) (dataframe.DataFrame, error) {
	return loadCSV(path, "broadband", broadbandColumns)
}

// LoadCensus reads the county socioeconomic indicator file.
func LoadCensus(path string) (dataframe.DataFrame, error) {
	return loadCSV(path, "census", censusColumns)
}

// loadCSV reads a delimited file with every column string-typed. Numeric
// coercion happens later in ToTable so that unparsable values become missing
// instead of load failures. An unreadable or empty file is fatal here, before
// any processing starts.
func loadCSV(path, kind string, required []string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(err, "open %s file", kind)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Error() != nil {
		return dataframe.DataFrame{}, errors.Wrapf(df.Error(), "read %s file %s", kind, path)
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, errors.NewValueError("loadCSV",
			errors.Newf("%s file %s has no data rows", kind, path).Error())
	}

	for _, col := range required {
		if !hasColumn(df, col) {
			return dataframe.DataFrame{}, errors.NewValueError("loadCSV",
				errors.Newf("%s file %s is missing column %q", kind, path, col).Error())
		}
	}

	return df, nil
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, col := range df.Names() {
		if col == name {
			return true
		}
	}
	return false
}
