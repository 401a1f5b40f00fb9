// Package config loads and persists kinsim configuration.
//
// Configuration is resolved from, in precedence order: KINSIM_ environment
// variables, a kinsim.toml found by walking up from the working directory,
// ~/.kinsim/kinsim.toml, then built-in defaults.
package config

// Config represents the kinsim configuration.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Database DatabaseConfig `mapstructure:"database"`
	Sim      SimConfig      `mapstructure:"sim"`
	Log      LogConfig      `mapstructure:"log"`
}

// DataConfig locates the CSV catalog tables.
type DataConfig struct {
	Dir string `mapstructure:"dir"` // directory holding the five catalog tables
}

// DatabaseConfig configures the SQLite population store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// SimConfig configures tree generation. Seed 0 means "derive from the
// current time", i.e. a different tree per run.
type SimConfig struct {
	Seed         int64 `mapstructure:"seed"`
	SeedYear     int   `mapstructure:"seed_year"`     // birth year of the two roots
	HorizonYear  int   `mapstructure:"horizon_year"`  // no births after this year
	MinParentAge int   `mapstructure:"min_parent_age"`
	MaxParentAge int   `mapstructure:"max_parent_age"`
}

// LogConfig configures logger output.
type LogConfig struct {
	JSON bool `mapstructure:"json"`
}
