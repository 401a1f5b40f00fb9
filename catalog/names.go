package catalog

import (
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lineal/kinsim/errors"
)

// NameCatalog holds the weighted first-name and last-name tables.
//
// First names are keyed by (birth decade, gender); last names by birth
// decade. Lookups for a decade with no table clamp to the nearest loaded
// decade, so the catalog never refuses a year inside the valid domain.
type NameCatalog struct {
	first        map[firstKey]*Weighted
	firstDecades map[string][]int // gender -> sorted decade start years
	last         map[int]*Weighted
	lastDecades  []int
}

type firstKey struct {
	decade int
	gender string
}

// LoadNames loads first_names.csv, rank_to_probability.csv and the
// last-name table (either accepted filename) from dir.
func LoadNames(dir string) (*NameCatalog, error) {
	c := &NameCatalog{
		first:        make(map[firstKey]*Weighted),
		firstDecades: make(map[string][]int),
		last:         make(map[int]*Weighted),
	}

	if err := c.loadFirstNames(filepath.Join(dir, FirstNamesFile)); err != nil {
		return nil, err
	}

	probs, err := loadRankProbs(filepath.Join(dir, RankProbsFile))
	if err != nil {
		return nil, err
	}

	if err := c.loadLastNames(dir, probs); err != nil {
		return nil, err
	}

	return c, nil
}

// SampleFirst draws a first name for the given birth year and gender.
func (c *NameCatalog) SampleFirst(yearBorn int, gender string, rng *rand.Rand) (string, error) {
	if yearBorn < 0 {
		return "", errors.NewDomainError("negative birth year %d", yearBorn)
	}
	gender = normalizeGender(gender)
	decades := c.firstDecades[gender]
	if len(decades) == 0 {
		return "", errors.Wrapf(errors.ErrEmptyTable, "no first names loaded for gender %q", gender)
	}
	decade := nearestBucket(decades, (yearBorn/10)*10)
	return c.first[firstKey{decade, gender}].Sample(rng)
}

// SampleLast draws a last name for the given birth year.
func (c *NameCatalog) SampleLast(yearBorn int, rng *rand.Rand) (string, error) {
	if yearBorn < 0 {
		return "", errors.NewDomainError("negative birth year %d", yearBorn)
	}
	if len(c.lastDecades) == 0 {
		return "", errors.Wrap(errors.ErrEmptyTable, "no last names loaded")
	}
	decade := nearestBucket(c.lastDecades, (yearBorn/10)*10)
	return c.last[decade].Sample(rng)
}

// FirstNameTables reports the number of loaded (decade, gender) tables.
func (c *NameCatalog) FirstNameTables() int { return len(c.first) }

// LastNameTables reports the number of loaded decade tables.
func (c *NameCatalog) LastNameTables() int { return len(c.last) }

// FirstNameEntries reports the total number of first-name rows loaded.
func (c *NameCatalog) FirstNameEntries() int {
	n := 0
	for _, w := range c.first {
		n += w.Len()
	}
	return n
}

// LastNameEntries reports the total number of last-name rows loaded.
func (c *NameCatalog) LastNameEntries() int {
	n := 0
	for _, w := range c.last {
		n += w.Len()
	}
	return n
}

func (c *NameCatalog) loadFirstNames(path string) error {
	rows, cols, err := readTable(path)
	if err != nil {
		return err
	}

	decadeCol, ok := cols["decade"]
	genderCol, ok2 := cols["gender"]
	nameCol, ok3 := cols["name"]
	freqCol, ok4 := cols["frequency"]
	if !ok || !ok2 || !ok3 || !ok4 {
		return errors.NewConfigurationError(
			"%s must have decade,gender,name,frequency columns", path)
	}

	for _, row := range rows {
		decade, err := decadeStart(cell(row, decadeCol))
		if err != nil {
			return errors.Wrapf(errors.ErrConfiguration, "%s: bad decade %q", path, cell(row, decadeCol))
		}
		gender := normalizeGender(cell(row, genderCol))
		freq, err := strconv.ParseFloat(strings.TrimSpace(cell(row, freqCol)), 64)
		if err != nil {
			return errors.NewConfigurationError("%s: bad frequency %q", path, cell(row, freqCol))
		}

		key := firstKey{decade, gender}
		table, exists := c.first[key]
		if !exists {
			table = &Weighted{}
			c.first[key] = table
			c.firstDecades[gender] = insertSorted(c.firstDecades[gender], decade)
		}
		if err := table.Add(strings.TrimSpace(cell(row, nameCol)), freq); err != nil {
			return errors.Wrapf(err, "in %s", path)
		}
	}

	if len(c.first) == 0 {
		return errors.Wrapf(errors.ErrEmptyTable, "%s has no rows", path)
	}
	return nil
}

// loadLastNames reads the last-name table under either accepted filename.
// Rows carry a rank that maps to a sampling weight via the rank
// probabilities; a missing Decade column pools every name under 1950s.
func (c *NameCatalog) loadLastNames(dir string, probs []float64) error {
	candidates := []string{
		filepath.Join(dir, LastNamesFile),
		filepath.Join(dir, LastNamesAltFile),
	}

	var path string
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
			break
		}
	}
	if path == "" {
		return errors.WithHint(
			errors.NewConfigurationError("could not find %s or %s", candidates[0], candidates[1]),
			"the last-name table is accepted under either filename")
	}

	rows, cols, err := readTable(path)
	if err != nil {
		return err
	}

	nameCol, hasName := firstOf(cols, "lastname", "last_name")
	rankCol, hasRank := cols["rank"]
	decadeCol, hasDecade := cols["decade"]
	if !hasName || !hasRank {
		return errors.NewConfigurationError("%s must have LastName and Rank columns", path)
	}

	for _, row := range rows {
		name := strings.TrimSpace(cell(row, nameCol))
		rankStr := strings.TrimSpace(cell(row, rankCol))
		if name == "" || rankStr == "" {
			continue
		}
		rank, err := strconv.Atoi(rankStr)
		if err != nil || rank < 1 || rank > len(probs) {
			return errors.NewConfigurationError("%s: rank %q outside 1..%d", path, rankStr, len(probs))
		}

		decade := DefaultSeedDecade
		if hasDecade && strings.TrimSpace(cell(row, decadeCol)) != "" {
			decade, err = decadeStart(cell(row, decadeCol))
			if err != nil {
				return errors.Wrapf(errors.ErrConfiguration, "%s: bad decade %q", path, cell(row, decadeCol))
			}
		}

		table, exists := c.last[decade]
		if !exists {
			table = &Weighted{}
			c.last[decade] = table
			c.lastDecades = insertSorted(c.lastDecades, decade)
		}
		if err := table.Add(name, probs[rank-1]); err != nil {
			return errors.Wrapf(err, "in %s", path)
		}
	}

	if len(c.last) == 0 {
		return errors.Wrapf(errors.ErrEmptyTable, "%s has no usable rows", path)
	}
	return nil
}

// DefaultSeedDecade is where decade-less last names pool, matching the
// decade of the two root individuals.
const DefaultSeedDecade = 1950

// loadRankProbs reads the single-line table of rank probabilities.
func loadRankProbs(path string) ([]float64, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrConfiguration, "could not read %s: %v", path, err)
	}

	line := strings.TrimSpace(strings.SplitN(string(content), "\n", 2)[0])
	var probs []float64
	for _, field := range strings.Split(line, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		p, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.NewConfigurationError("%s: bad probability %q", path, field)
		}
		probs = append(probs, p)
	}

	if len(probs) != rankProbCount {
		return nil, errors.NewConfigurationError(
			"%s must have exactly %d values, found %d", path, rankProbCount, len(probs))
	}
	return probs, nil
}

// readTable reads a CSV file with a header row, returning the data rows
// and a lower-cased column-name index.
func readTable(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(errors.ErrConfiguration, "could not read %s: %v", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows; column index guards access
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(errors.ErrConfiguration, "malformed CSV in %s: %v", path, err)
	}
	if len(records) == 0 {
		return nil, nil, errors.Wrapf(errors.ErrEmptyTable, "%s is empty", path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return records[1:], cols, nil
}

func firstOf(cols map[string]int, names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := cols[n]; ok {
			return i, true
		}
	}
	return 0, false
}

// cell returns row[i], or "" when the row is too short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func normalizeGender(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}

// nearestBucket clamps want to the closest value in sorted. Ties between
// equidistant buckets resolve to the lower one.
func nearestBucket(sorted []int, want int) int {
	n := len(sorted)
	if want <= sorted[0] {
		return sorted[0]
	}
	if want >= sorted[n-1] {
		return sorted[n-1]
	}
	for i := 1; i < n; i++ {
		if sorted[i] >= want {
			if sorted[i]-want < want-sorted[i-1] {
				return sorted[i]
			}
			return sorted[i-1]
		}
	}
	return sorted[n-1]
}

func insertSorted(s []int, v int) []int {
	for _, existing := range s {
		if existing == v {
			return s
		}
	}
	s = append(s, v)
	for i := len(s) - 1; i > 0 && s[i] < s[i-1]; i-- {
		s[i], s[i-1] = s[i-1], s[i]
	}
	return s
}
