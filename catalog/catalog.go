// Package catalog loads the CSV tables that drive tree generation and
// exposes weighted name sampling and rate lookups over them.
//
// Five tables live in a single data directory:
//
//	first_names.csv              decade,gender,name,frequency
//	last_names.csv|last_name.csv Rank,LastName[,Decade]
//	rank_to_probability.csv      one line of 30 probabilities
//	birth_and_marriage_rates.csv decade,birth_rate,marriage_rate
//	life_expectancy.csv          Year,Period life expectancy at birth
//
// All load failures surface once, at load time, as configuration errors;
// a partially loaded catalog is never returned.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lineal/kinsim/errors"
	"github.com/lineal/kinsim/logger"
)

// Table filenames within the data directory.
const (
	FirstNamesFile     = "first_names.csv"
	LastNamesFile      = "last_names.csv"
	LastNamesAltFile   = "last_name.csv"
	RankProbsFile      = "rank_to_probability.csv"
	RatesFile          = "birth_and_marriage_rates.csv"
	LifeExpectancyFile = "life_expectancy.csv"
)

// rankProbCount is the required number of rank-to-probability values.
const rankProbCount = 30

// Catalogs bundles the loaded name and rate tables.
type Catalogs struct {
	Names *NameCatalog
	Rates *RateCatalog
}

// LoadDir loads every table from dir. Any missing or malformed table
// aborts the load with a configuration error naming the file.
func LoadDir(dir string) (*Catalogs, error) {
	names, err := LoadNames(dir)
	if err != nil {
		return nil, err
	}
	rates, err := LoadRates(dir)
	if err != nil {
		return nil, err
	}

	logger.Logger.Infow("Catalogs loaded",
		"dir", dir,
		"first_name_tables", len(names.first),
		"last_name_tables", len(names.last),
		"rate_decades", len(rates.decades),
		"life_expectancy_years", len(rates.years),
	)

	return &Catalogs{Names: names, Rates: rates}, nil
}

// Decade formats a year as its decade bucket, e.g. 1983 -> "1980s".
func Decade(year int) string {
	return fmt.Sprintf("%ds", (year/10)*10)
}

// decadeStart parses a decade bucket back to its first year,
// e.g. "1980s" -> 1980.
func decadeStart(decade string) (int, error) {
	s := strings.TrimSuffix(strings.TrimSpace(decade), "s")
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewDomainError("malformed decade %q", decade)
	}
	return (year / 10) * 10, nil
}
