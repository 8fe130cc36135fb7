package dataset

import (
	"strings"
	"unicode"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/scamara129/broadband-usage/pkg/errors"
)

// Join inner-joins the census frame against the broadband frame on the
// county FIPS id. The census side derives the id from its separate state and
// county code columns; the broadband side already carries a combined id.
// Rows without a match on either side are dropped silently: that loss is the
// join's contract, not a fault. A join producing zero rows is fatal.
func Join(census, broadband dataframe.DataFrame) (dataframe.DataFrame, error) {
	censusIDs := DeriveCountyID(
		census.Col(rawCensusStateCode).Records(),
		census.Col(rawCensusCountyCode).Records(),
	)
	census = census.Mutate(series.New(censusIDs, series.String, ColCountyID))

	broadbandIDs := broadband.Col(rawBroadbandCountyID).Records()
	for i, id := range broadbandIDs {
		broadbandIDs[i] = stripWhitespace(id)
	}
	broadband = broadband.Mutate(series.New(broadbandIDs, series.String, ColCountyID))

	joined := census.InnerJoin(broadband, ColCountyID)
	if joined.Error() != nil {
		return dataframe.DataFrame{}, errors.Wrap(joined.Error(), "county join")
	}
	if joined.Nrow() == 0 {
		return dataframe.DataFrame{}, errors.WithStack(errors.ErrEmptyJoin)
	}

	return joined, nil
}

// DeriveCountyID builds the combined county FIPS id used as join key:
// the state code and county code with all whitespace removed, concatenated
// with no separator.
func DeriveCountyID(stateCodes, countyCodes []string) []string {
	ids := make([]string, len(stateCodes))
	for i := range stateCodes {
		ids[i] = stripWhitespace(stateCodes[i]) + stripWhitespace(countyCodes[i])
	}
	return ids
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
