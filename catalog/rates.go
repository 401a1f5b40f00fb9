package catalog

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lineal/kinsim/errors"
)

// RateCatalog holds the birth-rate, marriage-rate and life-expectancy
// tables.
//
// Birth and marriage rates are keyed by decade, life expectancy by year.
// A key inside the valid domain but outside the loaded buckets clamps to
// the nearest loaded bucket; negative keys are domain errors.
type RateCatalog struct {
	birth    map[int]float64
	marriage map[int]float64
	decades  []int // sorted decade start years present in the rates table

	lifeExp map[int]float64
	years   []int // sorted years present in the life-expectancy table
}

// LoadRates loads birth_and_marriage_rates.csv and life_expectancy.csv
// from dir.
func LoadRates(dir string) (*RateCatalog, error) {
	c := &RateCatalog{
		birth:    make(map[int]float64),
		marriage: make(map[int]float64),
		lifeExp:  make(map[int]float64),
	}

	if err := c.loadBirthMarriage(filepath.Join(dir, RatesFile)); err != nil {
		return nil, err
	}
	if err := c.loadLifeExpectancy(filepath.Join(dir, LifeExpectancyFile)); err != nil {
		return nil, err
	}
	return c, nil
}

// BirthRate returns the birth rate for the decade of yearBorn.
func (c *RateCatalog) BirthRate(yearBorn int) (float64, error) {
	decade, err := c.clampDecade(yearBorn)
	if err != nil {
		return 0, err
	}
	return c.birth[decade], nil
}

// MarriageRate returns the marriage rate for the decade of yearBorn.
func (c *RateCatalog) MarriageRate(yearBorn int) (float64, error) {
	decade, err := c.clampDecade(yearBorn)
	if err != nil {
		return 0, err
	}
	return c.marriage[decade], nil
}

// LifeExpectancy returns the period life expectancy at birth for
// yearBorn, clamped to the years the table covers.
func (c *RateCatalog) LifeExpectancy(yearBorn int) (float64, error) {
	if yearBorn < 0 {
		return 0, errors.NewDomainError("negative birth year %d", yearBorn)
	}
	if len(c.years) == 0 {
		return 0, errors.Wrap(errors.ErrEmptyTable, "no life expectancy rows loaded")
	}
	return c.lifeExp[nearestBucket(c.years, yearBorn)], nil
}

// RateDecades reports the number of decades in the rates table.
func (c *RateCatalog) RateDecades() int { return len(c.decades) }

// LifeExpectancyYears reports the number of years in the
// life-expectancy table.
func (c *RateCatalog) LifeExpectancyYears() int { return len(c.years) }

func (c *RateCatalog) clampDecade(yearBorn int) (int, error) {
	if yearBorn < 0 {
		return 0, errors.NewDomainError("negative birth year %d", yearBorn)
	}
	if len(c.decades) == 0 {
		return 0, errors.Wrap(errors.ErrEmptyTable, "no birth/marriage rates loaded")
	}
	return nearestBucket(c.decades, (yearBorn/10)*10), nil
}

func (c *RateCatalog) loadBirthMarriage(path string) error {
	rows, cols, err := readTable(path)
	if err != nil {
		return err
	}

	decadeCol, ok := cols["decade"]
	birthCol, ok2 := cols["birth_rate"]
	marriageCol, ok3 := cols["marriage_rate"]
	if !ok || !ok2 || !ok3 {
		return errors.NewConfigurationError(
			"%s must have decade,birth_rate,marriage_rate columns", path)
	}

	for _, row := range rows {
		decade, err := decadeStart(cell(row, decadeCol))
		if err != nil {
			return errors.Wrapf(errors.ErrConfiguration, "%s: bad decade %q", path, cell(row, decadeCol))
		}
		birth, err := strconv.ParseFloat(strings.TrimSpace(cell(row, birthCol)), 64)
		if err != nil {
			return errors.NewConfigurationError("%s: bad birth rate %q", path, cell(row, birthCol))
		}
		marriage, err := strconv.ParseFloat(strings.TrimSpace(cell(row, marriageCol)), 64)
		if err != nil {
			return errors.NewConfigurationError("%s: bad marriage rate %q", path, cell(row, marriageCol))
		}

		c.birth[decade] = birth
		c.marriage[decade] = marriage
		c.decades = insertSorted(c.decades, decade)
	}

	if len(c.decades) == 0 {
		return errors.Wrapf(errors.ErrEmptyTable, "%s has no rows", path)
	}
	return nil
}

func (c *RateCatalog) loadLifeExpectancy(path string) error {
	rows, cols, err := readTable(path)
	if err != nil {
		return err
	}

	yearCol, ok := cols["year"]
	valueCol, ok2 := cols["period life expectancy at birth"]
	if !ok || !ok2 {
		return errors.NewConfigurationError(
			"%s must have Year and 'Period life expectancy at birth' columns", path)
	}

	for _, row := range rows {
		year, err := strconv.Atoi(strings.TrimSpace(cell(row, yearCol)))
		if err != nil {
			return errors.NewConfigurationError("%s: bad year %q", path, cell(row, yearCol))
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(cell(row, valueCol)), 64)
		if err != nil {
			return errors.NewConfigurationError("%s: bad expectancy %q", path, cell(row, valueCol))
		}

		c.lifeExp[year] = value
		c.years = insertSorted(c.years, year)
	}

	if len(c.years) == 0 {
		return errors.Wrapf(errors.ErrEmptyTable, "%s has no rows", path)
	}
	return nil
}
