package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/pci-table/internal/hostdb"
	"github.com/salmonumbrella/pci-table/internal/output"
	"github.com/salmonumbrella/pci-table/internal/pciids"
	"github.com/salmonumbrella/pci-table/internal/table"
)

var usageLine = "usage: pcitable [" + table.KindChoices() + "]"

// usageError is returned for a missing or unknown table kind.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var usageErr usageError
	if errors.As(err, &usageErr) {
		return 2
	}
	return 1
}

// kindFromArgs reads the table kind from the single positional argument. On
// failure it prints the usage line to stdout.
func kindFromArgs(ctx context.Context, args []string) (table.Kind, error) {
	if len(args) != 1 {
		_, _ = fmt.Fprintln(stdoutFromContext(ctx), usageLine)
		return "", usageError{msg: "expected exactly one table kind (" + table.KindChoices() + ")"}
	}
	kind, err := table.ParseKind(args[0])
	if err != nil {
		_, _ = fmt.Fprintln(stdoutFromContext(ctx), usageLine)
		return "", usageError{msg: err.Error()}
	}
	return kind, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	kind, err := kindFromArgs(ctx, args)
	if err != nil {
		return err
	}

	settings, err := resolveSettings(cmd, kind)
	if err != nil {
		return err
	}

	format := GetOutputFormat()
	if strings.TrimSpace(writePath) != "" && format != output.FormatText {
		return fmt.Errorf("--write only supports text output, got %s", format)
	}

	reg, err := loadRegistry(ctx, settings)
	if err != nil {
		return err
	}

	entries, err := reg.entries(settings)
	if err != nil {
		return err
	}
	log := loggerFromContext(ctx)
	log.WithField("rows", len(entries)).Debug("table built")
	if len(entries) == 0 {
		log.WithField("kind", kind).Warn("registry is empty; table has no rows")
	}

	switch format {
	case output.FormatText:
		renderer := table.Renderer{
			NullToken: settings.nullToken,
			Generator: "pcitable " + string(kind),
		}
		data := renderer.Render(entries)
		if path := strings.TrimSpace(writePath); path != "" {
			if err := table.WriteFile(path, data); err != nil {
				return err
			}
			log.WithField("path", path).Debug("table written")
			return nil
		}
		_, err := stdoutFromContext(ctx).Write(data)
		return err
	case output.FormatTable:
		return printStructured(ctx, entryTable(entries, settings.nullToken))
	default:
		return printStructured(ctx, table.Rows(entries))
	}
}

// registry holds whichever forest was parsed for the requested kind.
type registry struct {
	kind    table.Kind
	vendors []pciids.Vendor
	classes []pciids.Class
}

func (r registry) entries(settings runSettings) ([]table.Entry, error) {
	if r.kind == table.KindClasses {
		return table.Classes(r.classes, table.ClassOptions{SentinelLabel: settings.sentinelLabel})
	}
	return table.Devices(r.vendors), nil
}

// loadRegistry reads the registry for settings.kind from the configured source.
func loadRegistry(ctx context.Context, settings runSettings) (registry, error) {
	log := loggerFromContext(ctx)
	reg := registry{kind: settings.kind}

	if settings.source == sourceHost {
		db, err := openHostDB(settings.pcidbPath)
		if err != nil {
			return reg, err
		}
		if settings.kind == table.KindClasses {
			reg.classes, err = hostdb.Classes(db)
		} else {
			reg.vendors, err = hostdb.Vendors(db)
		}
		if err != nil {
			return reg, err
		}
		log.WithField("source", sourceHost).Debug("host database loaded")
		logCounts(ctx, reg)
		return reg, nil
	}

	log.WithField("path", settings.path).Debug("reading registry")
	rc, err := openRegistry(ctx, settings.path)
	if err != nil {
		return reg, err
	}
	defer rc.Close()

	reg, err = parseRegistry(settings.kind, rc)
	if err != nil {
		if settings.path != "-" {
			return reg, fmt.Errorf("%s: %w", settings.path, err)
		}
		return reg, err
	}
	logCounts(ctx, reg)
	return reg, nil
}

func parseRegistry(kind table.Kind, r io.Reader) (registry, error) {
	reg := registry{kind: kind}
	var err error
	if kind == table.KindClasses {
		reg.classes, err = pciids.ParseClasses(r)
	} else {
		reg.vendors, err = pciids.ParseDevices(r)
	}
	return reg, err
}

func logCounts(ctx context.Context, reg registry) {
	log := loggerFromContext(ctx)
	if reg.kind == table.KindClasses {
		log.WithField("classes", len(reg.classes)).
			WithField("subclasses", pciids.SubclassCount(reg.classes)).
			Debug("registry parsed")
		return
	}
	log.WithField("vendors", len(reg.vendors)).
		WithField("devices", pciids.DeviceCount(reg.vendors)).
		Debug("registry parsed")
}

func entryTable(entries []table.Entry, nullToken string) output.Table {
	if nullToken == "" {
		nullToken = table.DefaultNullToken
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		sub := nullToken
		if e.Sub != nil {
			sub = *e.Sub
		}
		rows = append(rows, []string{e.HexKey(), e.Name, sub})
	}
	return output.Table{Headers: []string{"KEY", "NAME", "SUB"}, Rows: rows}
}
