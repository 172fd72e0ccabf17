package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/pci-table/internal/output"
	"github.com/salmonumbrella/pci-table/internal/pciids"
	"github.com/salmonumbrella/pci-table/internal/table"
)

var treeCmd = &cobra.Command{
	Use:   "tree [devices|classes]",
	Short: "Print the parsed registry hierarchy",
	Long: `Print the registry forest as parsed, including subdevices and
programming interfaces that never reach the generated tables.

Text output re-serializes the registry format. Structured formats print the
parsed records.`,
	Args: cobra.ArbitraryArgs,
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	kind, err := kindFromArgs(ctx, args)
	if err != nil {
		return err
	}
	settings, err := resolveSettings(cmd, kind)
	if err != nil {
		return err
	}
	reg, err := loadRegistry(ctx, settings)
	if err != nil {
		return err
	}

	switch format := GetOutputFormat(); format {
	case output.FormatText:
		out := stdoutFromContext(ctx)
		if kind == table.KindClasses {
			return pciids.WriteClasses(out, reg.classes)
		}
		return pciids.WriteDevices(out, reg.vendors)
	case output.FormatTable:
		return printStructured(ctx, treeTable(reg))
	default:
		if kind == table.KindClasses {
			return printStructured(ctx, nonNil(reg.classes))
		}
		return printStructured(ctx, nonNil(reg.vendors))
	}
}

// treeTable flattens a forest into one row per record in file order.
func treeTable(reg registry) output.Table {
	t := output.Table{Headers: []string{"DEPTH", "CODE", "NAME"}}
	add := func(depth int, code, name string) {
		t.Rows = append(t.Rows, []string{strconv.Itoa(depth), code, name})
	}

	if reg.kind == table.KindClasses {
		var walk func(depth int, classes []pciids.Class)
		walk = func(depth int, classes []pciids.Class) {
			for _, c := range classes {
				add(depth, fmt.Sprintf("%02x", c.Code), c.Name)
				walk(depth+1, c.Subclasses)
			}
		}
		walk(0, reg.classes)
		return t
	}

	for _, v := range reg.vendors {
		add(0, fmt.Sprintf("%04x", v.Code), v.Name)
		for _, d := range v.Devices {
			add(1, fmt.Sprintf("%04x", d.Code), d.Name)
			for _, s := range d.Subdevices {
				add(2, s.SubvendorCode+" "+s.Code, s.Name)
			}
		}
	}
	return t
}

// nonNil keeps empty forests printing as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
