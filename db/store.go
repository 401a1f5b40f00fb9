package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lineal/kinsim/errors"
	"github.com/lineal/kinsim/logger"
	"github.com/lineal/kinsim/query"
	"github.com/lineal/kinsim/sim"
)

// ErrRunNotFound indicates the requested run does not exist in the store.
var ErrRunNotFound = errors.New("run not found")

// Run is a stored simulation run.
type Run struct {
	ID          string    `json:"id"`
	Seed        int64     `json:"seed"`
	SeedYear    int       `json:"seed_year"`
	HorizonYear int       `json:"horizon_year"`
	Population  int       `json:"population"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store persists and rehydrates populations. Person IDs keep their
// deterministic simulator values; only the run ID is minted here.
type Store struct {
	db *sql.DB
}

// NewStore creates a store over an open database.
func NewStore(database *sql.DB) *Store {
	return &Store{db: database}
}

// SaveRun persists a completed population in one transaction and returns
// the stored run record.
func (s *Store) SaveRun(ctx context.Context, seed int64, opts sim.Options, people []*sim.Person) (*Run, error) {
	run := &Run{
		ID:          uuid.NewString(),
		Seed:        seed,
		SeedYear:    opts.SeedYear,
		HorizonYear: opts.HorizonYear,
		Population:  len(people),
		CreatedAt:   time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, seed, seed_year, horizon_year, population, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Seed, run.SeedYear, run.HorizonYear, run.Population, run.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert run")
	}

	personStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO persons (run_id, pid, first_name, last_name, gender, year_born, year_died, descendant, partner_pid)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare person insert")
	}
	defer personStmt.Close()

	childStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO person_children (run_id, parent_pid, child_pid) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare child insert")
	}
	defer childStmt.Close()

	for _, p := range people {
		if _, err := personStmt.ExecContext(ctx,
			run.ID, p.ID, p.FirstName, p.LastName, string(p.Gender),
			p.YearBorn, p.YearDied, p.Descendant, p.PartnerID); err != nil {
			return nil, errors.Wrapf(err, "failed to insert person %d", p.ID)
		}
	}
	// Child edges go in after every person row exists so the foreign key
	// never trips on insertion order.
	for _, p := range people {
		for _, childID := range p.ChildIDs {
			if _, err := childStmt.ExecContext(ctx, run.ID, p.ID, childID); err != nil {
				return nil, errors.Wrapf(err, "failed to insert child edge %d->%d", p.ID, childID)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit run")
	}

	logger.Infow("Run saved",
		"run_id", run.ID,
		"seed", run.Seed,
		"population", run.Population,
	)
	return run, nil
}

// LoadRun rehydrates the population of a stored run, in person-ID order.
func (s *Store) LoadRun(ctx context.Context, runID string) ([]*sim.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pid, first_name, last_name, gender, year_born, year_died, descendant, partner_pid
		 FROM persons WHERE run_id = ? ORDER BY pid`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query persons")
	}
	defer rows.Close()

	byID := make(map[int64]*sim.Person)
	var people []*sim.Person
	for rows.Next() {
		var p sim.Person
		var gender string
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &gender,
			&p.YearBorn, &p.YearDied, &p.Descendant, &p.PartnerID); err != nil {
			return nil, errors.Wrap(err, "failed to scan person")
		}
		p.Gender = sim.Gender(gender)
		byID[p.ID] = &p
		people = append(people, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate persons")
	}
	if len(people) == 0 {
		return nil, errors.Wrapf(ErrRunNotFound, "run %s", runID)
	}

	edges, err := s.db.QueryContext(ctx,
		`SELECT parent_pid, child_pid FROM person_children
		 WHERE run_id = ? ORDER BY parent_pid, child_pid`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query child edges")
	}
	defer edges.Close()

	for edges.Next() {
		var parentID, childID int64
		if err := edges.Scan(&parentID, &childID); err != nil {
			return nil, errors.Wrap(err, "failed to scan child edge")
		}
		if parent, ok := byID[parentID]; ok {
			parent.ChildIDs = append(parent.ChildIDs, childID)
		}
	}
	if err := edges.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate child edges")
	}

	return people, nil
}

// LatestRun returns the most recently stored run.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, seed, seed_year, horizon_year, population, created_at
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`)
	return scanRun(row)
}

// GetRun returns one run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, seed, seed_year, horizon_year, population, created_at
		 FROM runs WHERE id = ?`, runID)
	return scanRun(row)
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seed, seed_year, horizon_year, population, created_at
		 FROM runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Seed, &r.SeedYear, &r.HorizonYear,
			&r.Population, &r.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan run")
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// TotalPopulation counts the stored persons of a run.
func (s *Store) TotalPopulation(ctx context.Context, runID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM persons WHERE run_id = ?`, runID).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count persons")
	}
	return count, nil
}

// CountByDecade aggregates stored birth counts per decade, ascending.
func (s *Store) CountByDecade(ctx context.Context, runID string) ([]query.PeriodCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT (year_born / 10) * 10 AS decade, COUNT(*)
		 FROM persons WHERE run_id = ?
		 GROUP BY decade ORDER BY decade`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate decades")
	}
	defer rows.Close()

	var counts []query.PeriodCount
	for rows.Next() {
		var decade, count int
		if err := rows.Scan(&decade, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan decade count")
		}
		counts = append(counts, query.PeriodCount{
			Period: decadeLabel(decade),
			Count:  count,
		})
	}
	return counts, rows.Err()
}

// CountByYear aggregates stored birth counts per year, ascending.
func (s *Store) CountByYear(ctx context.Context, runID string) ([]query.PeriodCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT year_born, COUNT(*)
		 FROM persons WHERE run_id = ?
		 GROUP BY year_born ORDER BY year_born`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate years")
	}
	defer rows.Close()

	var counts []query.PeriodCount
	for rows.Next() {
		var year, count int
		if err := rows.Scan(&year, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan year count")
		}
		counts = append(counts, query.PeriodCount{
			Period: yearLabel(year),
			Count:  count,
		})
	}
	return counts, rows.Err()
}

// DuplicateNames returns stored full names carried by two or more people.
func (s *Store) DuplicateNames(ctx context.Context, runID string) ([]query.NameCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT first_name || ' ' || last_name AS full_name, COUNT(*) AS c
		 FROM persons WHERE run_id = ?
		 GROUP BY full_name HAVING c >= 2 ORDER BY full_name`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate duplicate names")
	}
	defer rows.Close()

	var dups []query.NameCount
	for rows.Next() {
		var nc query.NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan duplicate name")
		}
		dups = append(dups, nc)
	}
	return dups, rows.Err()
}

func decadeLabel(start int) string {
	return fmt.Sprintf("%ds", start)
}

func yearLabel(year int) string {
	return fmt.Sprintf("%d", year)
}

func scanRun(row *sql.Row) (*Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Seed, &r.SeedYear, &r.HorizonYear, &r.Population, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(ErrRunNotFound, "no stored runs")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan run")
	}
	return &r, nil
}
