package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/pci-table/internal/config"
	"github.com/salmonumbrella/pci-table/internal/table"
)

const (
	sourceFiles = "files"
	sourceHost  = "host"
)

// runSettings is the resolved input and rendering setup for one run.
type runSettings struct {
	kind          table.Kind
	source        string
	path          string
	pcidbPath     string
	nullToken     string
	sentinelLabel string
}

// loadConfigFromFlag loads config from --config if provided, otherwise from default path.
func loadConfigFromFlag() (*config.Config, error) {
	if strings.TrimSpace(configFile) != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}

// resolveSettings applies flags > config > defaults.
func resolveSettings(cmd *cobra.Command, kind table.Kind) (runSettings, error) {
	cfg := loadedConfig
	if cfg == nil {
		cfg = &config.Config{}
	}

	s := runSettings{
		kind:          kind,
		source:        pick(cmd, "source", sourceName, cfg.Source),
		pcidbPath:     pick(cmd, "pcidb-path", pcidbPath, cfg.PCIDBPath),
		nullToken:     pick(cmd, "null", nullToken, cfg.NullToken),
		sentinelLabel: pick(cmd, "sentinel-label", sentinelLabel, cfg.SentinelLabel),
	}
	if s.source == "" {
		s.source = sourceFiles
	}
	s.source = strings.ToLower(s.source)

	switch s.source {
	case sourceHost:
		if strings.TrimSpace(registryFile) != "" {
			return s, fmt.Errorf("--file cannot be used with --source %s", sourceHost)
		}
		return s, nil
	case sourceFiles:
	default:
		return s, fmt.Errorf("invalid source %q (expected %s|%s)", s.source, sourceFiles, sourceHost)
	}

	path, err := registryPath(cmd, cfg, kind)
	if err != nil {
		return s, err
	}
	s.path = path
	return s, nil
}

// pick returns the flag value when the flag was set, else the config value.
func pick(cmd *cobra.Command, flag, flagValue, cfgValue string) string {
	if flagChanged(cmd, flag) {
		return strings.TrimSpace(flagValue)
	}
	return strings.TrimSpace(cfgValue)
}

// registryPath resolves the input file: --file, then --data-dir, then config
// data_dir, then the directory holding the executable.
func registryPath(cmd *cobra.Command, cfg *config.Config, kind table.Kind) (string, error) {
	if f := strings.TrimSpace(registryFile); f != "" {
		return f, nil
	}

	dir := pick(cmd, "data-dir", dataDir, cfg.DataDir)
	if dir == "" {
		exe, err := executablePath()
		if err != nil {
			return "", fmt.Errorf("locating executable: %w", err)
		}
		dir = filepath.Dir(exe)
	}
	return filepath.Join(dir, cfg.RegistryFile(string(kind))), nil
}
