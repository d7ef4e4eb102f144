package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("validator.confidence_threshold", d.Validator.ConfidenceThreshold)

	v.SetDefault("paths.input", d.Paths.Input)
	v.SetDefault("paths.export", d.Paths.Export)
	v.SetDefault("paths.log_dir", d.Paths.LogDir)

	v.SetDefault("input.format", d.Input.Format)
	v.SetDefault("input.delimiter", d.Input.Delimiter)

	v.SetDefault("watch.debounce_ms", d.Watch.DebounceMS)

	v.SetDefault("log.json", d.Log.JSON)
}

// BindEnvAliases binds short environment variable names in addition to the
// automatic LABELGATE_<SECTION>_<KEY> form
func BindEnvAliases(v *viper.Viper) {
	for key, names := range envAliases {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
}

// envAliases lists, per key, the full name first and then the short alias
var envAliases = map[string][]string{
	"validator.confidence_threshold": {"LABELGATE_VALIDATOR_CONFIDENCE_THRESHOLD", "LABELGATE_THRESHOLD"},
	"paths.input":                    {"LABELGATE_PATHS_INPUT", "LABELGATE_INPUT"},
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Threshold: %.2f, Input: %s (%s), Export: %s, LogDir: %s}",
		c.Validator.ConfidenceThreshold, c.Paths.Input, c.Input.Format, c.Paths.Export, c.Paths.LogDir)
}
