package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineal/kinsim/errors"
	kinsimtest "github.com/lineal/kinsim/internal/testing"
	"github.com/lineal/kinsim/query"
	"github.com/lineal/kinsim/sim"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	database := kinsimtest.CreateTestDB(t)
	require.NoError(t, EnsureSchema(database))
	return NewStore(database)
}

func testPeople() []*sim.Person {
	return []*sim.Person{
		{ID: 1, FirstName: "James", LastName: "Smith", Gender: sim.GenderMale,
			YearBorn: 1950, YearDied: 2021, Descendant: true, PartnerID: 2, ChildIDs: []int64{3, 4}},
		{ID: 2, FirstName: "Mary", LastName: "Johnson", Gender: sim.GenderFemale,
			YearBorn: 1950, YearDied: 2019, Descendant: true, PartnerID: 1, ChildIDs: []int64{3, 4}},
		{ID: 3, FirstName: "James", LastName: "Smith", Gender: sim.GenderMale,
			YearBorn: 1978, YearDied: 2052, Descendant: true},
		{ID: 4, FirstName: "Linda", LastName: "Johnson", Gender: sim.GenderFemale,
			YearBorn: 1983, YearDied: 2061, Descendant: true},
	}
}

func testOptions() sim.Options {
	opts := sim.DefaultOptions()
	opts.Seed = 42
	return opts
}

func TestSaveAndLoadRun(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	run, err := store.SaveRun(ctx, 42, testOptions(), testPeople())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, 4, run.Population)

	people, err := store.LoadRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, testPeople(), people)
}

func TestLoadRunNotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.LoadRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestLatestRun(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.LatestRun(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))

	first, err := store.SaveRun(ctx, 1, testOptions(), testPeople()[:2])
	require.NoError(t, err)
	second, err := store.SaveRun(ctx, 2, testOptions(), testPeople())
	require.NoError(t, err)

	latest, err := store.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)
}

func TestStoredAggregates(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	run, err := store.SaveRun(ctx, 42, testOptions(), testPeople())
	require.NoError(t, err)

	total, err := store.TotalPopulation(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	decades, err := store.CountByDecade(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, []query.PeriodCount{
		{Period: "1950s", Count: 2},
		{Period: "1970s", Count: 1},
		{Period: "1980s", Count: 1},
	}, decades)

	years, err := store.CountByYear(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, []query.PeriodCount{
		{Period: "1950", Count: 2},
		{Period: "1978", Count: 1},
		{Period: "1983", Count: 1},
	}, years)

	dups, err := store.DuplicateNames(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, []query.NameCount{
		{Name: "James Smith", Count: 2},
	}, dups)
}

func TestStoredAggregatesMatchEngine(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	people := testPeople()
	run, err := store.SaveRun(ctx, 42, testOptions(), people)
	require.NoError(t, err)

	eng := query.NewEngine(people)

	total, err := store.TotalPopulation(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, eng.TotalPopulation(), total)

	decades, err := store.CountByDecade(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, eng.CountByDecade(), decades)

	dups, err := store.DuplicateNames(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, eng.DuplicateNames(), dups)
}

func TestSaveRunRollsBackOnDuplicatePID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	people := testPeople()
	people = append(people, &sim.Person{ID: 1, FirstName: "Dup", LastName: "Entry",
		Gender: sim.GenderMale, YearBorn: 1950, YearDied: 2000})

	_, err := store.SaveRun(ctx, 42, testOptions(), people)
	require.Error(t, err)

	// The failed transaction must leave no partial run behind.
	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
