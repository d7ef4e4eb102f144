package am

import (
	"os"
	"sort"
	"strings"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/labelgate/config.toml
	SourceUser        ConfigSource = "user"        // ~/.labelgate/am.toml
	SourceProject     ConfigSource = "project"     // project am.toml
	SourceEnvironment ConfigSource = "environment" // LABELGATE_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource // The type of config source (default, system, user, etc.)
	Path   string       // File path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"` // File path or env var name
}

// ConfigIntrospection provides metadata about the active configuration
type ConfigIntrospection struct {
	Files    []string      `json:"files"`    // config files that were merged
	Settings []SettingInfo `json:"settings"` // All settings with sources
}

// GetConfigIntrospection returns every effective setting with the source
// that supplied it
func GetConfigIntrospection() *ConfigIntrospection {
	v := GetViper()

	introspection := &ConfigIntrospection{Settings: make([]SettingInfo, 0)}

	seen := map[string]bool{}
	for _, si := range ConfigSources {
		if !seen[si.Path] {
			seen[si.Path] = true
			introspection.Files = append(introspection.Files, si.Path)
		}
	}
	sort.Strings(introspection.Files)

	keys := v.AllKeys()
	sort.Strings(keys)
	for _, key := range keys {
		info := resolveSource(key, ConfigSources)
		introspection.Settings = append(introspection.Settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
	return introspection
}

// resolveSource picks the highest-precedence source for key
func resolveSource(key string, sourceMap map[string]SourceInfo) SourceInfo {
	info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
	if si, ok := sourceMap[key]; ok {
		info = si
	}

	envKeys := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
	envKeys = append(envKeys, envAliases[key]...)
	for _, envKey := range envKeys {
		if _, ok := os.LookupEnv(envKey); ok {
			return SourceInfo{Source: SourceEnvironment, Path: envKey}
		}
	}
	return info
}
