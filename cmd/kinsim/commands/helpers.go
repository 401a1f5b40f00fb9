package commands

import (
	"database/sql"

	"github.com/lineal/kinsim/catalog"
	"github.com/lineal/kinsim/config"
	"github.com/lineal/kinsim/db"
	"github.com/lineal/kinsim/errors"
	"github.com/lineal/kinsim/logger"
	"github.com/lineal/kinsim/sim"
)

// openDatabase opens the population store and ensures its schema.
// If dbPath is empty, the configured path is used.
func openDatabase(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		dbPath = cfg.Database.Path
	}

	database, err := db.Open(dbPath, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}

	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, errors.Wrapf(err, "failed to prepare schema in %s", dbPath)
	}

	return database, nil
}

// loadCatalogs loads the catalog tables. If dataDir is empty, the
// configured directory is used.
func loadCatalogs(dataDir string) (*catalog.Catalogs, string, error) {
	if dataDir == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, "", err
		}
		dataDir = cfg.Data.Dir
	}

	cats, err := catalog.LoadDir(dataDir)
	if err != nil {
		return nil, "", err
	}
	return cats, dataDir, nil
}

// simOptions builds generation options from config, with the seed flag
// overriding the configured seed when non-zero.
func simOptions(seedFlag int64) (sim.Options, error) {
	cfg, err := config.Load()
	if err != nil {
		return sim.Options{}, err
	}

	opts := sim.Options{
		Seed:         cfg.Sim.Seed,
		SeedYear:     cfg.Sim.SeedYear,
		HorizonYear:  cfg.Sim.HorizonYear,
		MinParentAge: cfg.Sim.MinParentAge,
		MaxParentAge: cfg.Sim.MaxParentAge,
	}
	if seedFlag != 0 {
		opts.Seed = seedFlag
	}
	return opts, nil
}
