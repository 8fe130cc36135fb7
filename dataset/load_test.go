package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBroadband(t *testing.T) {
	path := writeFile(t, "broadband.csv",
		"ST,COUNTY ID,COUNTY NAME,BROADBAND AVAILABILITY PER FCC,BROADBAND USAGE\n"+
			"CA,6113,Yolo County,0.98,0.45\n"+
			"TX,48001,Anderson County,0.80,0.30\n")

	df, err := LoadBroadband(path)
	require.NoError(t, err)
	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, []string{"6113", "48001"}, df.Col(rawBroadbandCountyID).Records())
}

func TestLoadBroadbandMissingFile(t *testing.T) {
	_, err := LoadBroadband(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoadBroadbandMissingColumn(t *testing.T) {
	path := writeFile(t, "broadband.csv",
		"ST,COUNTY ID,COUNTY NAME\nCA,6113,Yolo County\n")

	_, err := LoadBroadband(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestLoadCensusEmptyFileIsFatal(t *testing.T) {
	path := writeFile(t, "census.csv",
		"STATE_CODE,COUNTY_CODE,TOTAL_POPULATION,UNEMPLOYMENT_RATE,PCT_NO_HEALTH_INSURANCE,POVERTY_RATE,PCT_FOOD_STAMPS,PCT_NO_COMPUTER,PCT_NO_INTERNET\n")

	_, err := LoadCensus(path)
	assert.Error(t, err)
}
