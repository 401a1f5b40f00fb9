package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineal/kinsim/errors"
	"github.com/lineal/kinsim/sim"
)

func person(id int64, first, last string, born int) *sim.Person {
	return &sim.Person{
		ID:        id,
		FirstName: first,
		LastName:  last,
		YearBorn:  born,
		YearDied:  born + 70,
	}
}

func testPopulation() []*sim.Person {
	return []*sim.Person{
		person(1, "James", "Smith", 1950),
		person(2, "Mary", "Johnson", 1950),
		person(3, "James", "Smith", 1978),
		person(4, "Linda", "Smith", 1979),
		person(5, "James", "Smith", 1983),
		person(6, "Mary", "Johnson", 2004),
	}
}

func TestTotalPopulation(t *testing.T) {
	eng := NewEngine(testPopulation())
	assert.Equal(t, 6, eng.TotalPopulation())

	assert.Equal(t, 0, NewEngine(nil).TotalPopulation())
}

func TestCountByDecade(t *testing.T) {
	eng := NewEngine(testPopulation())

	got := eng.CountByDecade()
	want := []PeriodCount{
		{Period: "1950s", Count: 2},
		{Period: "1970s", Count: 2},
		{Period: "1980s", Count: 1},
		{Period: "2000s", Count: 1},
	}
	assert.Equal(t, want, got)
}

func TestCountByYear(t *testing.T) {
	eng := NewEngine(testPopulation())

	got := eng.CountByYear()
	want := []PeriodCount{
		{Period: "1950", Count: 2},
		{Period: "1978", Count: 1},
		{Period: "1979", Count: 1},
		{Period: "1983", Count: 1},
		{Period: "2004", Count: 1},
	}
	assert.Equal(t, want, got)
}

func TestCountByPeriod(t *testing.T) {
	eng := NewEngine(testPopulation())

	tests := []struct {
		period string
		want   int
	}{
		{"1950s", 2},
		{"1970s", 2},
		{"1983", 1},
		{"1950", 2},
		{"1940s", 0},
		{"1999", 0},
		{" 1978 ", 1},
	}
	for _, tt := range tests {
		got, err := eng.CountByPeriod(tt.period)
		require.NoError(t, err, "period %q", tt.period)
		assert.Equal(t, tt.want, got, "period %q", tt.period)
	}
}

func TestCountByPeriodMalformed(t *testing.T) {
	eng := NewEngine(testPopulation())

	for _, period := range []string{"eighties", "-1950s", "abc", "-5"} {
		_, err := eng.CountByPeriod(period)
		require.Error(t, err, "period %q", period)
		assert.True(t, errors.IsDomainError(err), "period %q", period)
	}
}

func TestDuplicateNames(t *testing.T) {
	eng := NewEngine(testPopulation())

	got := eng.DuplicateNames()
	want := []NameCount{
		{Name: "James Smith", Count: 3},
		{Name: "Mary Johnson", Count: 2},
	}
	assert.Equal(t, want, got)

	// Sum of duplicate counts never exceeds the population.
	sum := 0
	for _, d := range got {
		assert.GreaterOrEqual(t, d.Count, 2)
		sum += d.Count
	}
	assert.LessOrEqual(t, sum, eng.TotalPopulation())
}

func TestDuplicateNamesNoneForDistinctRoots(t *testing.T) {
	// Two roots with distinct surnames and no expansion: no duplicates.
	eng := NewEngine([]*sim.Person{
		person(1, "James", "Smith", 1950),
		person(2, "Mary", "Johnson", 1950),
	})

	assert.Equal(t, 2, eng.TotalPopulation())
	assert.Empty(t, eng.DuplicateNames())
}

func TestQueriesDoNotMutateSnapshot(t *testing.T) {
	pop := testPopulation()
	eng := NewEngine(pop)

	eng.CountByDecade()
	eng.CountByYear()
	eng.DuplicateNames()
	_, _ = eng.CountByPeriod("1950s")

	assert.Equal(t, testPopulation(), pop)
}
