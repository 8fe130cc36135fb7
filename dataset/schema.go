// Package dataset ingests the two county-level source files, joins them on a
// derived FIPS key, normalizes the joined schema to the canonical column set
// and partitions rows for modeling.
package dataset

// Source column names. The broadband file is the usage/availability table
// keyed by a combined county FIPS id; the census file carries separate state
// and county code columns plus the socioeconomic indicators.
const (
	rawBroadbandState        = "ST"
	rawBroadbandCountyID     = "COUNTY ID"
	rawBroadbandCountyName   = "COUNTY NAME"
	rawBroadbandAvailability = "BROADBAND AVAILABILITY PER FCC"
	rawBroadbandUsage        = "BROADBAND USAGE"

	rawCensusStateCode    = "STATE_CODE"
	rawCensusCountyCode   = "COUNTY_CODE"
	rawCensusPopulation   = "TOTAL_POPULATION"
	rawCensusUnemployment = "UNEMPLOYMENT_RATE"
	rawCensusNoInsurance  = "PCT_NO_HEALTH_INSURANCE"
	rawCensusPoverty      = "POVERTY_RATE"
	rawCensusSNAP         = "PCT_FOOD_STAMPS"
	rawCensusNoComputer   = "PCT_NO_COMPUTER"
	rawCensusNoInternet   = "PCT_NO_INTERNET"
)

// Canonical column names after normalization.
const (
	ColState        = "state"
	ColCounty       = "county"
	ColCountyID     = "county_id"
	ColUsage        = "usage"
	ColAvailability = "availability"
	ColPopulation   = "population"
	ColUnemployment = "unemployment"
	ColNoInsurance  = "no_insurance"
	ColPoverty      = "poverty"
	ColSNAP         = "snap"
	ColNoComputer   = "no_computer"
	ColNoInternet   = "no_internet"
)

// FeatureColumns lists the eight predictors, in the order the feature matrix
// uses everywhere downstream.
var FeatureColumns = []string{
	ColAvailability,
	ColPopulation,
	ColUnemployment,
	ColNoInsurance,
	ColPoverty,
	ColSNAP,
	ColNoComputer,
	ColNoInternet,
}

// renames maps every retained source column to its canonical name. Source
// columns absent from this map (geo ids, margin-of-error columns, alternate
// encodings) are dropped by the select in Normalize.
var renames = map[string]string{
	rawBroadbandState:        ColState,
	rawBroadbandCountyName:   ColCounty,
	rawBroadbandAvailability: ColAvailability,
	rawBroadbandUsage:        ColUsage,
	rawCensusPopulation:      ColPopulation,
	rawCensusUnemployment:    ColUnemployment,
	rawCensusNoInsurance:     ColNoInsurance,
	rawCensusPoverty:         ColPoverty,
	rawCensusSNAP:            ColSNAP,
	rawCensusNoComputer:      ColNoComputer,
	rawCensusNoInternet:      ColNoInternet,
}

// broadbandColumns and censusColumns are the columns each loader requires.
var broadbandColumns = []string{
	rawBroadbandState,
	rawBroadbandCountyID,
	rawBroadbandCountyName,
	rawBroadbandAvailability,
	rawBroadbandUsage,
}

var censusColumns = []string{
	rawCensusStateCode,
	rawCensusCountyCode,
	rawCensusPopulation,
	rawCensusUnemployment,
	rawCensusNoInsurance,
	rawCensusPoverty,
	rawCensusSNAP,
	rawCensusNoComputer,
	rawCensusNoInternet,
}
