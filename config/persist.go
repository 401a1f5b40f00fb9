package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/lineal/kinsim/errors"
)

// starter is the shape written by WriteStarter. Field names double as the
// TOML keys, matching the mapstructure tags on Config.
type starter struct {
	Data     map[string]any `toml:"data"`
	Database map[string]any `toml:"database"`
	Sim      map[string]any `toml:"sim"`
	Log      map[string]any `toml:"log"`
}

// WriteStarter writes a starter kinsim.toml with the default values to
// path. Refuses to overwrite an existing file.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.NewConfigurationError("config file already exists: %s", path)
	}

	s := starter{
		Data:     map[string]any{"dir": "data"},
		Database: map[string]any{"path": "kinsim.db"},
		Sim: map[string]any{
			"seed":           int64(0),
			"seed_year":      DefaultSeedYear,
			"horizon_year":   DefaultHorizonYear,
			"min_parent_age": DefaultMinParentAge,
			"max_parent_age": DefaultMaxParentAge,
		},
		Log: map[string]any{"json": false},
	}

	content, err := toml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to marshal starter config")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create config directory %s", dir)
		}
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
