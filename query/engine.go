// Package query answers read-only questions over a population snapshot.
package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lineal/kinsim/catalog"
	"github.com/lineal/kinsim/errors"
	"github.com/lineal/kinsim/sim"
)

// Engine scans a population snapshot. It never mutates the snapshot and
// holds no other state, so one engine can serve any number of queries.
type Engine struct {
	people []*sim.Person
}

// PeriodCount pairs a decade or year label with its birth count.
type PeriodCount struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// NameCount pairs a full name with the number of people carrying it.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NewEngine creates an engine over a population snapshot.
func NewEngine(people []*sim.Person) *Engine {
	return &Engine{people: people}
}

// TotalPopulation returns the number of people in the snapshot.
func (e *Engine) TotalPopulation() int {
	return len(e.people)
}

// CountByDecade returns birth counts per decade, ascending.
func (e *Engine) CountByDecade() []PeriodCount {
	counts := make(map[int]int)
	for _, p := range e.people {
		counts[(p.YearBorn/10)*10]++
	}
	return sortedPeriods(counts, func(start int) string { return catalog.Decade(start) })
}

// CountByYear returns birth counts per year, ascending.
func (e *Engine) CountByYear() []PeriodCount {
	counts := make(map[int]int)
	for _, p := range e.people {
		counts[p.YearBorn]++
	}
	return sortedPeriods(counts, strconv.Itoa)
}

// CountByPeriod returns the birth count for one period: a decade bucket
// like "1980s" or an exact year like "1983".
func (e *Engine) CountByPeriod(period string) (int, error) {
	period = strings.TrimSpace(period)

	if strings.HasSuffix(period, "s") {
		start, err := strconv.Atoi(strings.TrimSuffix(period, "s"))
		if err != nil || start < 0 {
			return 0, errors.NewDomainError("malformed decade %q", period)
		}
		start = (start / 10) * 10
		count := 0
		for _, p := range e.people {
			if (p.YearBorn/10)*10 == start {
				count++
			}
		}
		return count, nil
	}

	year, err := strconv.Atoi(period)
	if err != nil || year < 0 {
		return 0, errors.NewDomainError("malformed period %q", period)
	}
	count := 0
	for _, p := range e.people {
		if p.YearBorn == year {
			count++
		}
	}
	return count, nil
}

// DuplicateNames returns every full name carried by two or more people,
// sorted by name.
func (e *Engine) DuplicateNames() []NameCount {
	counts := make(map[string]int)
	for _, p := range e.people {
		counts[p.FullName()]++
	}

	var dups []NameCount
	for name, count := range counts {
		if count >= 2 {
			dups = append(dups, NameCount{Name: name, Count: count})
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].Name < dups[j].Name })
	return dups
}

func sortedPeriods(counts map[int]int, label func(int) string) []PeriodCount {
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	result := make([]PeriodCount, 0, len(keys))
	for _, k := range keys {
		result = append(result, PeriodCount{Period: label(k), Count: counts[k]})
	}
	return result
}
