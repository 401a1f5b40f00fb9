package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineal/kinsim/errors"
)

func TestBirthAndMarriageRates(t *testing.T) {
	dir := writeDataDir(t)
	rates, err := LoadRates(dir)
	require.NoError(t, err)

	birth, err := rates.BirthRate(1955)
	require.NoError(t, err)
	assert.Equal(t, 3.5, birth)

	marriage, err := rates.MarriageRate(1983)
	require.NoError(t, err)
	assert.Equal(t, 0.6, marriage)
}

func TestRatesNearestBucket(t *testing.T) {
	dir := writeDataDir(t)
	rates, err := LoadRates(dir)
	require.NoError(t, err)

	// 1970s is absent; 1970 sits ten years from the 1980s bucket and
	// twenty from the 1950s, so it resolves to the 1980s.
	birth, err := rates.BirthRate(1972)
	require.NoError(t, err)
	assert.Equal(t, 1.8, birth)

	// Beyond the loaded range clamps to the last bucket.
	birth, err = rates.BirthRate(2100)
	require.NoError(t, err)
	assert.Equal(t, 1.6, birth)

	// Before the loaded range clamps to the first bucket.
	marriage, err := rates.MarriageRate(1900)
	require.NoError(t, err)
	assert.Equal(t, 0.9, marriage)
}

func TestRatesNegativeYear(t *testing.T) {
	dir := writeDataDir(t)
	rates, err := LoadRates(dir)
	require.NoError(t, err)

	_, err = rates.BirthRate(-10)
	require.Error(t, err)
	assert.True(t, errors.IsDomainError(err))

	_, err = rates.LifeExpectancy(-10)
	require.Error(t, err)
	assert.True(t, errors.IsDomainError(err))
}

func TestLifeExpectancyClamps(t *testing.T) {
	dir := writeDataDir(t)
	rates, err := LoadRates(dir)
	require.NoError(t, err)

	le, err := rates.LifeExpectancy(1980)
	require.NoError(t, err)
	assert.Equal(t, 73.7, le)

	// 1990 is closer to 1980 than to 2020.
	le, err = rates.LifeExpectancy(1990)
	require.NoError(t, err)
	assert.Equal(t, 73.7, le)

	// Outside the table clamps to the nearest end.
	le, err = rates.LifeExpectancy(1800)
	require.NoError(t, err)
	assert.Equal(t, 68.2, le)

	le, err = rates.LifeExpectancy(2120)
	require.NoError(t, err)
	assert.Equal(t, 78.8, le)
}

func TestRatesMissingFile(t *testing.T) {
	dir := writeDataDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, RatesFile)))

	_, err := LoadRates(dir)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), RatesFile)
}

func TestRatesMalformedValue(t *testing.T) {
	dir := writeDataDir(t)
	writeFile(t, dir, RatesFile, `decade,birth_rate,marriage_rate
1950s,lots,0.9
`)

	_, err := LoadRates(dir)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}
