package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/pci-table/internal/config"
	"github.com/salmonumbrella/pci-table/internal/output"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	applyVersion()
}

func applyVersion() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("pcitable version %s (commit: %s, built: %s)\n", version, commit, date))
}

// Global flags
var (
	configFile    string
	dataDir       string
	registryFile  string
	sourceName    string
	pcidbPath     string
	nullToken     string
	sentinelLabel string
	writePath     string
	outputFmt     string
	outputType    output.Format
	queryExpr     string
	queryFile     string
	errorFmt      string
	debug         bool
)

// loadedConfig is the configuration read for the current run. It stays nil
// for config subcommands, which read and write the file themselves.
var loadedConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "pcitable [devices|classes]",
	Short: "Generate C lookup tables from the PCI ID registries",
	Long: `pcitable turns the indentation-structured PCI registries into flat C
array-literal tables keyed by composite IDs.

  pcitable devices   vendor/device table, keyed by vendor<<16 | device
  pcitable classes   class table, keyed by class<<8 | subclass

The registries are read from pci_devices.txt and pci_classes.txt next to
the pcitable executable unless --data-dir, --file or the config file say
otherwise. Use --source host to read the host's pci.ids database instead.`,
	Version:           version,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: prepareRun,
	RunE:              runGenerate,
}

func prepareRun(cmd *cobra.Command, args []string) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	ctx := cmd.Context()
	ctx = withIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx = withLogger(ctx, newLogger(cmd.ErrOrStderr(), debug))
	ctx = WithErrorFormat(ctx, errorFmt)
	cmd.SetContext(ctx)

	if err := validateErrorFormat(errorFmt); err != nil {
		return err
	}

	loadedConfig = nil
	if !isConfigCommand(cmd) {
		cfg, err := loadConfigFromFlag()
		if err != nil {
			return formatConfigLoadError(err)
		}
		loadedConfig = cfg
	}

	// Output format selection: --output > config > default
	formatStr := outputFmt
	if !flagChanged(cmd, "output") && loadedConfig != nil && strings.TrimSpace(loadedConfig.OutputFormat) != "" {
		formatStr = strings.TrimSpace(loadedConfig.OutputFormat)
	}
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	outputType = format
	outputFmt = string(format)

	// jq query
	if queryExpr != "" && queryFile != "" {
		return fmt.Errorf("use only one of --query or --query-file")
	}
	query := queryExpr
	if queryFile != "" {
		loaded, err := readInputSource(queryFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		query = loaded
	}
	if query != "" && format != output.FormatJSON && format != output.FormatNDJSON {
		return fmt.Errorf("--query requires --output json or ndjson")
	}

	ctx = output.WithFormat(ctx, format)
	ctx = output.WithQuery(ctx, query)
	cmd.SetContext(ctx)
	return nil
}

// Execute runs the root command
func Execute() error {
	executed, err := rootCmd.ExecuteC()
	if err != nil {
		if executed == nil {
			executed = rootCmd
		}
		ctx := executed.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if !hasIO(ctx) {
			ctx = withIO(ctx, executed.InOrStdin(), executed.OutOrStdout(), executed.ErrOrStderr())
		}
		printCommandError(ctx, err)
		return err
	}
	return nil
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() output.Format {
	if outputType != "" {
		return outputType
	}
	parsed, err := output.ParseFormat(outputFmt)
	if err != nil {
		return output.FormatText
	}
	return parsed
}

func init() {
	applyVersion()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default: ~/.config/pcitable/config.yaml)")
	flags.StringVar(&dataDir, "data-dir", "", "Directory holding pci_devices.txt and pci_classes.txt (default: next to the executable)")
	flags.StringVarP(&registryFile, "file", "f", "", "Registry file to read (use - for stdin); overrides --data-dir")
	flags.StringVar(&sourceName, "source", sourceFiles, "Registry source (files|host)")
	flags.StringVar(&pcidbPath, "pcidb-path", "", "pci.ids file for --source host (default: search the host)")
	flags.StringVar(&nullToken, "null", "", "Token written for a missing device name (default: NULL)")
	flags.StringVar(&sentinelLabel, "sentinel-label", "", "Fixed name for each class's 0xff row instead of its last subclass")
	flags.StringVarP(&writePath, "write", "w", "", "Write the table to this file instead of stdout")
	flags.StringVarP(&outputFmt, "output", "o", "text", "Output format (text|json|ndjson|table|yaml)")
	flags.StringVar(&queryExpr, "query", "", "jq expression to filter JSON output")
	flags.StringVar(&queryFile, "query-file", "", "Read jq expression from file (use - for stdin)")
	flags.StringVar(&errorFmt, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
