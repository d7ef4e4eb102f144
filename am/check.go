package am

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/teranos/labelgate/errors"
)

// CheckResult is the outcome of checking a single config file
type CheckResult struct {
	Path        string   `json:"path"`
	UnknownKeys []string `json:"unknown_keys,omitempty"`
	Config      *Config  `json:"config,omitempty"`
}

// CheckFile decodes a TOML config file strictly. Keys the Config struct does
// not know are reported rather than silently ignored; the decoded values are
// validated on top of defaults.
func CheckFile(path string) (*CheckResult, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Mark(
			errors.WithHint(errors.Wrapf(err, "failed to parse %s", path), "config files are TOML"),
			errors.ErrInvalidConfig)
	}

	result := &CheckResult{Path: path}
	for _, key := range md.Undecoded() {
		result.UnknownKeys = append(result.UnknownKeys, key.String())
	}

	if err := cfg.Validate(); err != nil {
		return result, errors.Wrapf(err, "config from %s", path)
	}
	result.Config = &cfg

	if len(result.UnknownKeys) > 0 {
		return result, errors.WithHint(
			errors.NewInvalidConfigError("%s: unknown keys: %s", path, strings.Join(result.UnknownKeys, ", ")),
			"check spelling against 'labelgate am show'")
	}
	return result, nil
}
