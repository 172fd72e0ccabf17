package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/pci-table/internal/config"
	"github.com/salmonumbrella/pci-table/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration stored in ~/.config/pcitable/config.yaml.

You can view, set, or unset config keys such as data_dir, devices_file,
source, null_token, sentinel_label, and output_format.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFromFlag()
		if err != nil {
			return formatConfigLoadError(err)
		}
		ctx := cmd.Context()
		if structuredOutputRequested() {
			return printStructured(ctx, configOutput(cfg))
		}

		values := configOutput(cfg)
		out := stdoutFromContext(ctx)
		fmt.Fprintln(out, "Config:")
		for _, key := range supportedConfigKeys() {
			fmt.Fprintf(out, "  %s: %s\n", key, values[key])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Unset a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported configuration keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := supportedConfigKeys()
		sort.Strings(keys)

		ctx := cmd.Context()
		if structuredOutputRequested() {
			return printStructured(ctx, keys)
		}

		out := stdoutFromContext(ctx)
		fmt.Fprintln(out, "Supported keys:")
		for _, key := range keys {
			fmt.Fprintf(out, "  %s\n", key)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if structuredOutputRequested() {
			return printStructured(ctx, map[string]string{"path": path})
		}
		fmt.Fprintln(stdoutFromContext(ctx), path)
		return nil
	},
}

func configPath() (string, error) {
	if strings.TrimSpace(configFile) != "" {
		return configFile, nil
	}
	return config.DefaultConfigPath()
}

func supportedConfigKeys() []string {
	return []string{
		"data_dir",
		"devices_file",
		"classes_file",
		"source",
		"pcidb_path",
		"null_token",
		"sentinel_label",
		"output_format",
	}
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "data_dir":
		cfg.DataDir = value
	case "devices_file":
		cfg.DevicesFile = value
	case "classes_file":
		cfg.ClassesFile = value
	case "source":
		v := strings.ToLower(value)
		if v != sourceFiles && v != sourceHost {
			return fmt.Errorf("invalid source %q (expected %s|%s)", value, sourceFiles, sourceHost)
		}
		cfg.Source = v
	case "pcidb_path":
		cfg.PCIDBPath = value
	case "null_token":
		cfg.NullToken = value
	case "sentinel_label":
		cfg.SentinelLabel = value
	case "output_format":
		format, err := output.ParseFormat(value)
		if err != nil {
			return err
		}
		cfg.OutputFormat = string(format)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func clearConfigValue(cfg *config.Config, key string) error {
	switch key {
	case "data_dir":
		cfg.DataDir = ""
	case "devices_file":
		cfg.DevicesFile = ""
	case "classes_file":
		cfg.ClassesFile = ""
	case "source":
		cfg.Source = ""
	case "pcidb_path":
		cfg.PCIDBPath = ""
	case "null_token":
		cfg.NullToken = ""
	case "sentinel_label":
		cfg.SentinelLabel = ""
	case "output_format":
		cfg.OutputFormat = ""
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))
	value := strings.TrimSpace(args[1])

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}

	if err := applyConfigValue(cfg, key, value); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	ctx := cmd.Context()
	if structuredOutputRequested() {
		return printStructured(ctx, map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}

	fmt.Fprintf(stdoutFromContext(ctx), "Updated %s\n", key)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}

	if err := clearConfigValue(cfg, key); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	ctx := cmd.Context()
	if structuredOutputRequested() {
		return printStructured(ctx, map[string]string{
			"status": "unset",
			"key":    key,
		})
	}

	fmt.Fprintf(stdoutFromContext(ctx), "Unset %s\n", key)
	return nil
}

func configOutput(cfg *config.Config) map[string]string {
	return map[string]string{
		"data_dir":       cfg.DataDir,
		"devices_file":   cfg.DevicesFile,
		"classes_file":   cfg.ClassesFile,
		"source":         cfg.Source,
		"pcidb_path":     cfg.PCIDBPath,
		"null_token":     cfg.NullToken,
		"sentinel_label": cfg.SentinelLabel,
		"output_format":  cfg.OutputFormat,
	}
}
