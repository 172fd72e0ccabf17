package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppName is the application name used for the config directory
const AppName = "pcitable"

// Default registry file names, looked up in the data directory
const (
	DefaultDevicesFile = "pci_devices.txt"
	DefaultClassesFile = "pci_classes.txt"
)

// Config holds CLI configuration
type Config struct {
	DataDir       string `yaml:"data_dir,omitempty"`
	DevicesFile   string `yaml:"devices_file,omitempty"`
	ClassesFile   string `yaml:"classes_file,omitempty"`
	Source        string `yaml:"source,omitempty"` // files, host
	PCIDBPath     string `yaml:"pcidb_path,omitempty"`
	NullToken     string `yaml:"null_token,omitempty"`
	SentinelLabel string `yaml:"sentinel_label,omitempty"`
	OutputFormat  string `yaml:"output_format,omitempty"` // text, json, ndjson, yaml, table
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigPath returns the default config file path
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ReadConfig reads the config file from the default location
func ReadConfig() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load loads config from the given path. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save saves config to the given path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// RegistryFile returns the configured file name for a registry kind
// ("devices" or "classes"), falling back to the default name.
func (c *Config) RegistryFile(kind string) string {
	switch kind {
	case "classes":
		if c != nil && c.ClassesFile != "" {
			return c.ClassesFile
		}
		return DefaultClassesFile
	default:
		if c != nil && c.DevicesFile != "" {
			return c.DevicesFile
		}
		return DefaultDevicesFile
	}
}
