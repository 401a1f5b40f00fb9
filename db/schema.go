package db

import (
	"database/sql"

	"github.com/lineal/kinsim/errors"
)

// schema holds every table and index. SQLite executes the statements
// idempotently, so EnsureSchema is safe to run on every open.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	seed         INTEGER NOT NULL,
	seed_year    INTEGER NOT NULL,
	horizon_year INTEGER NOT NULL,
	population   INTEGER NOT NULL,
	created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS persons (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	pid         INTEGER NOT NULL,
	first_name  TEXT NOT NULL,
	last_name   TEXT NOT NULL,
	gender      TEXT NOT NULL,
	year_born   INTEGER NOT NULL,
	year_died   INTEGER NOT NULL,
	descendant  INTEGER NOT NULL,
	partner_pid INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, pid)
);

CREATE TABLE IF NOT EXISTS person_children (
	run_id     TEXT NOT NULL,
	parent_pid INTEGER NOT NULL,
	child_pid  INTEGER NOT NULL,
	PRIMARY KEY (run_id, parent_pid, child_pid),
	FOREIGN KEY (run_id, parent_pid) REFERENCES persons(run_id, pid) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_persons_year_born ON persons(run_id, year_born);
CREATE INDEX IF NOT EXISTS idx_persons_full_name ON persons(run_id, first_name, last_name);
`

// EnsureSchema creates the population store tables if they do not exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "failed to create schema")
	}
	return nil
}
