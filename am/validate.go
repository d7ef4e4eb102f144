package am

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/teranos/labelgate/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	t := c.Validator.ConfidenceThreshold
	if math.IsNaN(t) || t < 0 || t > 1 {
		return errors.NewInvalidConfigError("validator.confidence_threshold must be within [0,1], got %v", t)
	}

	if strings.TrimSpace(c.Paths.Input) == "" {
		return errors.NewInvalidConfigError("paths.input cannot be empty")
	}
	if strings.TrimSpace(c.Paths.Export) == "" {
		return errors.NewInvalidConfigError("paths.export cannot be empty")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.NewInvalidConfigError("paths.log_dir cannot be empty")
	}

	switch strings.ToLower(c.Input.Format) {
	case "auto", "wide", "long":
	default:
		return errors.WithHint(
			errors.NewInvalidConfigError("input.format %q is not supported", c.Input.Format),
			"use one of: auto, wide, long")
	}

	if utf8.RuneCountInString(c.Input.Delimiter) != 1 {
		return errors.NewInvalidConfigError("input.delimiter must be a single character, got %q", c.Input.Delimiter)
	}
	if d := c.DelimiterRune(); d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError {
		return errors.NewInvalidConfigError("input.delimiter %q cannot be used as a CSV separator", c.Input.Delimiter)
	}

	// Watch debounce: 0 = react immediately, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.NewInvalidConfigError("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
