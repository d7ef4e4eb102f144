// Package am holds labelgate's configuration ("I am"): which threshold the
// gate applies, where annotations are read from and where artifacts go.
package am

// Config represents the labelgate configuration
type Config struct {
	Validator ValidatorConfig `mapstructure:"validator" toml:"validator" json:"validator" yaml:"validator"`
	Paths     PathsConfig     `mapstructure:"paths" toml:"paths" json:"paths" yaml:"paths"`
	Input     InputConfig     `mapstructure:"input" toml:"input" json:"input" yaml:"input"`
	Watch     WatchConfig     `mapstructure:"watch" toml:"watch" json:"watch" yaml:"watch"`
	Log       LogConfig       `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// ValidatorConfig configures the decision engine
type ValidatorConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" toml:"confidence_threshold" json:"confidence_threshold" yaml:"confidence_threshold"` // per-annotator minimum, within [0,1]
}

// PathsConfig locates the input table and the two artifacts
type PathsConfig struct {
	Input  string `mapstructure:"input" toml:"input" json:"input" yaml:"input"`
	Export string `mapstructure:"export" toml:"export" json:"export" yaml:"export"`
	LogDir string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir" yaml:"log_dir"` // disagreement logs go to <log_dir>/<YYYY-MM-DD>/
}

// InputConfig describes the input table layout
type InputConfig struct {
	Format    string `mapstructure:"format" toml:"format" json:"format" yaml:"format"`          // auto, wide, long
	Delimiter string `mapstructure:"delimiter" toml:"delimiter" json:"delimiter" yaml:"delimiter"` // single character
}

// WatchConfig configures re-runs on input changes
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
}

// LogConfig configures diagnostic logging (not the disagreement log)
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
}

// Default values
const (
	DefaultConfidenceThreshold = 0.8
	DefaultInputPath           = "data/raw/raw_annotations.csv"
	DefaultExportPath          = "data/processed/clean_training_dataset.jsonl"
	DefaultLogDir              = "logs"
	DefaultInputFormat         = "auto"
	DefaultDelimiter           = ","
	DefaultDebounceMS          = 500
)

// Default returns the configuration with every default applied
func Default() Config {
	return Config{
		Validator: ValidatorConfig{ConfidenceThreshold: DefaultConfidenceThreshold},
		Paths: PathsConfig{
			Input:  DefaultInputPath,
			Export: DefaultExportPath,
			LogDir: DefaultLogDir,
		},
		Input: InputConfig{Format: DefaultInputFormat, Delimiter: DefaultDelimiter},
		Watch: WatchConfig{DebounceMS: DefaultDebounceMS},
	}
}

// DelimiterRune returns the input delimiter as a rune (',' when unset)
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Input.Delimiter {
		return r
	}
	return ','
}
