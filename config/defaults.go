package config

import (
	"github.com/spf13/viper"
)

// Simulation defaults. The seed year anchors the two root individuals;
// the horizon caps every sampled birth year.
const (
	DefaultSeedYear     = 1950
	DefaultHorizonYear  = 2120
	DefaultMinParentAge = 25
	DefaultMaxParentAge = 45
)

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	// Catalog data defaults
	v.SetDefault("data.dir", "data")

	// Database defaults
	v.SetDefault("database.path", "kinsim.db")

	// Simulation defaults
	v.SetDefault("sim.seed", int64(0)) // 0 = derive from current time
	v.SetDefault("sim.seed_year", DefaultSeedYear)
	v.SetDefault("sim.horizon_year", DefaultHorizonYear)
	v.SetDefault("sim.min_parent_age", DefaultMinParentAge)
	v.SetDefault("sim.max_parent_age", DefaultMaxParentAge)

	// Logging defaults
	v.SetDefault("log.json", false)
}
