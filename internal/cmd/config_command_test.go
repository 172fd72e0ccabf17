package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/pci-table/internal/config"
)

func TestConfigSetUnsetCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	// set config file path for this test
	prevConfig := configFile
	configFile = cfgPath
	t.Cleanup(func() { configFile = prevConfig })

	// ensure output is plain text to avoid dependency on formatter
	prevOutput := outputFmt
	prevType := outputType
	outputFmt = "text"
	outputType = ""
	t.Cleanup(func() {
		outputFmt = prevOutput
		outputType = prevType
	})

	setCmd := &cobra.Command{}
	if err := runConfigSet(setCmd, []string{"null_token", "0"}); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NullToken != "0" {
		t.Fatalf("expected null_token 0, got %q", cfg.NullToken)
	}

	unsetCmd := &cobra.Command{}
	if err := runConfigUnset(unsetCmd, []string{"null_token"}); err != nil {
		t.Fatalf("config unset failed: %v", err)
	}
	cfg, err = config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NullToken != "" {
		t.Fatalf("expected null_token cleared, got %q", cfg.NullToken)
	}
}
