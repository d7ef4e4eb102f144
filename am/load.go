package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/teranos/labelgate/errors"
)

// EnvPrefix is the prefix for environment variable overrides (LABELGATE_PATHS_INPUT, ...)
const EnvPrefix = "LABELGATE"

var globalConfig *Config
var viperInstance *viper.Viper

// ConfigSources records which file supplied each key during the last load.
// Keys absent from the map came from defaults (or the environment).
var ConfigSources = map[string]SourceInfo{}

// Load reads the labelgate configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads and validates configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to unmarshal config"), errors.ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, on top of defaults
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Set defaults but don't bind environment variables for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to read config file %s", configPath),
			"config files are TOML; run 'labelgate am validate <file>' for details")
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config from %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}
	viperInstance = newViper(ConfigPaths())
	return viperInstance
}

// newViper builds a Viper instance over the given config files, lowest
// precedence first
func newViper(paths []ConfigPath) *viper.Viper {
	v := viper.New()

	// Set up environment variable binding
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvAliases(v)

	SetDefaults(v)

	mergeConfigFiles(v, paths)
	return v
}

// ConfigPath is a candidate config file and the source it represents
type ConfigPath struct {
	Path   string
	Source ConfigSource
}

// ConfigPaths returns the config file candidates in precedence order:
// system < user < project
func ConfigPaths() []ConfigPath {
	paths := []ConfigPath{
		{Path: "/etc/labelgate/config.toml", Source: SourceSystem},
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, ConfigPath{
			Path:   filepath.Join(homeDir, ".labelgate", "am.toml"),
			Source: SourceUser,
		})
	}

	if wd, err := os.Getwd(); err == nil {
		if projectConfig := findProjectConfig(wd); projectConfig != "" {
			paths = append(paths, ConfigPath{Path: projectConfig, Source: SourceProject})
		}
	}
	return paths
}

// findProjectConfig searches for am.toml or labelgate.toml by walking up from dir.
// Returns the first file found, or empty string if none.
func findProjectConfig(dir string) string {
	for {
		for _, name := range []string{"am.toml", "labelgate.toml"} {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges config files into v in order. MergeConfigMap keeps
// them in the config layer, so environment variables still win.
func mergeConfigFiles(v *viper.Viper, paths []ConfigPath) {
	ConfigSources = map[string]SourceInfo{}

	for _, cp := range paths {
		if _, err := os.Stat(cp.Path); err != nil {
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(cp.Path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}

		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			continue
		}
		for _, key := range tempViper.AllKeys() {
			ConfigSources[key] = SourceInfo{Source: cp.Source, Path: cp.Path}
		}
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}

// GetString returns a configuration value as string using dot notation
func GetString(key string) string {
	return initViper().GetString(key)
}

// GetFloat64 returns a configuration value as float64 using dot notation
func GetFloat64(key string) float64 {
	return initViper().GetFloat64(key)
}
