package catalog

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineal/kinsim/errors"
)

func TestSampleFirst(t *testing.T) {
	dir := writeDataDir(t)
	names, err := LoadNames(dir)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(3))

	name, err := names.SampleFirst(1955, "male", rng)
	require.NoError(t, err)
	assert.Contains(t, []string{"James", "Robert"}, name)

	name, err = names.SampleFirst(1985, "FEMALE", rng)
	require.NoError(t, err)
	assert.Equal(t, "Jessica", name)
}

func TestSampleFirstClampsDecade(t *testing.T) {
	dir := writeDataDir(t)
	names, err := LoadNames(dir)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(3))

	// 2050s has no table; nearest loaded decade for males is the 1980s.
	name, err := names.SampleFirst(2055, "male", rng)
	require.NoError(t, err)
	assert.Equal(t, "Michael", name)

	// 1930s clamps up to the 1950s.
	name, err = names.SampleFirst(1931, "female", rng)
	require.NoError(t, err)
	assert.Contains(t, []string{"Mary", "Linda"}, name)
}

func TestSampleFirstNegativeYear(t *testing.T) {
	dir := writeDataDir(t)
	names, err := LoadNames(dir)
	require.NoError(t, err)

	_, err = names.SampleFirst(-1, "male", rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.True(t, errors.IsDomainError(err))
}

func TestSampleLast(t *testing.T) {
	dir := writeDataDir(t)
	names, err := LoadNames(dir)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(9))

	name, err := names.SampleLast(1952, rng)
	require.NoError(t, err)
	assert.Contains(t, []string{"Smith", "Johnson"}, name)

	name, err = names.SampleLast(1989, rng)
	require.NoError(t, err)
	assert.Contains(t, []string{"Garcia", "Miller"}, name)
}

func TestLastNamesMissingBothVariants(t *testing.T) {
	dir := writeDataDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, LastNamesFile)))

	_, err := LoadNames(dir)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), LastNamesFile)
	assert.Contains(t, err.Error(), LastNamesAltFile)
}

func TestLastNamesAltFilename(t *testing.T) {
	dir := writeDataDir(t)
	require.NoError(t, os.Rename(
		filepath.Join(dir, LastNamesFile),
		filepath.Join(dir, LastNamesAltFile)))

	names, err := LoadNames(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, names.LastNameTables())
}

func TestLastNamesWithoutDecadeColumn(t *testing.T) {
	dir := writeDataDir(t)
	writeFile(t, dir, LastNamesFile, `Rank,LastName
1,Smith
2,Johnson
`)

	names, err := LoadNames(dir)
	require.NoError(t, err)

	// Everything pools under the seed decade and every year clamps there.
	assert.Equal(t, 1, names.LastNameTables())
	name, err := names.SampleLast(2080, rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	assert.Contains(t, []string{"Smith", "Johnson"}, name)
}

func TestLastNamesSkipsBlankRows(t *testing.T) {
	dir := writeDataDir(t)
	writeFile(t, dir, LastNamesFile, `Rank,LastName,Decade
1,Smith,1950s
,,
2,,1950s
,Johnson,1950s
`)

	names, err := LoadNames(dir)
	require.NoError(t, err)

	name, err := names.SampleLast(1950, rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	assert.Equal(t, "Smith", name)
}

func TestRankProbsWrongCount(t *testing.T) {
	dir := writeDataDir(t)
	writeFile(t, dir, RankProbsFile, "0.5,0.3,0.2\n")

	_, err := LoadNames(dir)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), RankProbsFile)
}

func TestLastNamesRankOutOfRange(t *testing.T) {
	dir := writeDataDir(t)
	writeFile(t, dir, LastNamesFile, `Rank,LastName,Decade
31,Smith,1950s
`)

	_, err := LoadNames(dir)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestFirstNamesMissingFile(t *testing.T) {
	dir := writeDataDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, FirstNamesFile)))

	_, err := LoadNames(dir)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), FirstNamesFile)
}
