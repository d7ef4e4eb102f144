package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/teranos/labelgate/am"
	"github.com/teranos/labelgate/errors"
	"gopkg.in/yaml.v3"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage labelgate configuration",
	Long: `am - Manage labelgate configuration ("I am")

Display and check the settings that drive the gate.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (LABELGATE_* prefix, plus LABELGATE_THRESHOLD and LABELGATE_INPUT)
3. Project config (./am.toml or ./labelgate.toml, searched upward)
4. User config (~/.labelgate/am.toml)
5. System config (/etc/labelgate/config.toml)
6. Default values

Examples:
  labelgate am show                            # Show current configuration
  labelgate am show --format json              # Show configuration in JSON format
  labelgate am get validator.confidence_threshold
  labelgate am validate                        # Validate current configuration
  labelgate am validate ./am.toml              # Strictly check one file`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective labelgate configuration from all sources",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., paths.export, validator.confidence_threshold)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate configuration",
	Long: `Validate the effective configuration, or strictly check a single TOML file.

With a file argument, keys labelgate does not recognise are reported as errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration cascade and the source of every effective setting.`,
	RunE: runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	return writeConfig(cmd.OutOrStdout(), cfg, configFormat)
}

// writeConfig marshals cfg in the requested format
func writeConfig(w io.Writer, cfg *am.Config, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(w, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# labelgate configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# labelgate configuration\n%s", string(data))

	default:
		return errors.WithHint(
			errors.Newf("unsupported format: %s", format),
			"supported formats: toml, json, yaml")
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v := am.GetViper()
	if !v.IsSet(key) {
		return errors.WithHint(
			errors.Newf("configuration key %q not found", key),
			"run 'labelgate am show' to list keys")
	}

	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		res, err := am.CheckFile(args[0])
		if res != nil {
			for _, key := range res.UnknownKeys {
				fmt.Fprintf(out, "✗ unknown key: %s\n", key)
			}
		}
		if err != nil {
			return errors.Wrap(err, "configuration validation failed")
		}
		fmt.Fprintf(out, "✓ %s is valid\n", args[0])
		return nil
	}

	if _, err := am.Load(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	fmt.Fprintln(out, "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	intro := am.GetConfigIntrospection()

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	for i, cp := range am.ConfigPaths() {
		state := "missing"
		if _, err := os.Stat(cp.Path); err == nil {
			state = "found"
		}
		fmt.Fprintf(out, "  %d. [%s] %s (%s)\n", i+2, cp.Source, cp.Path, state)
	}
	fmt.Fprintf(out, "  %d. [ENV]      %s_* environment variables\n", len(am.ConfigPaths())+2, am.EnvPrefix)
	fmt.Fprintln(out)

	sourceOrder := []am.ConfigSource{
		am.SourceDefault,
		am.SourceSystem,
		am.SourceUser,
		am.SourceProject,
		am.SourceEnvironment,
	}

	fmt.Fprintln(out, "Active configuration:")
	for _, source := range sourceOrder {
		var settings []am.SettingInfo
		for _, s := range intro.Settings {
			if s.Source == source {
				settings = append(settings, s)
			}
		}
		if len(settings) == 0 {
			continue
		}

		fmt.Fprintf(out, "\n%s: %d settings\n", source, len(settings))
		for _, s := range settings {
			valueStr := fmt.Sprintf("%v", s.Value)
			if len(valueStr) > 50 {
				valueStr = valueStr[:47] + "..."
			}
			if s.Source == am.SourceDefault {
				fmt.Fprintf(out, "  %s = %s\n", s.Key, valueStr)
			} else {
				fmt.Fprintf(out, "  %s = %s  (%s)\n", s.Key, valueStr, s.SourcePath)
			}
		}
	}
	return nil
}
