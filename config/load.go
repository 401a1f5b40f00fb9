package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/lineal/kinsim/errors"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the kinsim configuration using Viper.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	globalConfig = &config
	return globalConfig, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(errors.ErrConfiguration, err.Error())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks cross-field constraints that Viper cannot express.
func (c *Config) Validate() error {
	if c.Sim.SeedYear > c.Sim.HorizonYear {
		return errors.NewConfigurationError(
			"sim.seed_year (%d) must not exceed sim.horizon_year (%d)",
			c.Sim.SeedYear, c.Sim.HorizonYear)
	}
	if c.Sim.MinParentAge <= 0 || c.Sim.MaxParentAge < c.Sim.MinParentAge {
		return errors.NewConfigurationError(
			"invalid parenting ages: min %d, max %d",
			c.Sim.MinParentAge, c.Sim.MaxParentAge)
	}
	return nil
}

// Reset clears the cached configuration (useful for testing).
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

// initViper initializes Viper with configuration sources and defaults.
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	// Environment variable binding: KINSIM_SIM_SEED, KINSIM_DATA_DIR, ...
	v.SetEnvPrefix("KINSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// Merge config files in precedence order: user -> project.
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// mergeConfigFiles merges the user config (~/.kinsim/kinsim.toml) and then
// the nearest project config so that project values win.
func mergeConfigFiles(v *viper.Viper) {
	if userPath := UserConfigPath(); userPath != "" {
		if _, err := os.Stat(userPath); err == nil {
			mergeFile(v, userPath)
		}
	}

	if projectPath := findProjectConfig(); projectPath != "" {
		mergeFile(v, projectPath)
	}
}

func mergeFile(v *viper.Viper, path string) {
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	// Merge errors are deliberately non-fatal: a malformed optional
	// config file must not take the whole CLI down before the error
	// can be reported coherently by Validate/Load callers.
	_ = v.MergeInConfig()
}

// UserConfigPath returns the path of the per-user config file.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kinsim", "kinsim.toml")
}

// findProjectConfig searches for kinsim.toml by walking up the directory
// tree from the working directory. Returns the first match, or "".
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, "kinsim.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
