// Package table flattens parsed PCI registries into lookup-table entries keyed
// by composite codes, and renders them as C array-literal rows.
package table

import (
	"fmt"
	"slices"
	"strings"

	"github.com/salmonumbrella/pci-table/internal/pciids"
)

// Kind selects which registry a table is generated from.
type Kind string

const (
	KindDevices Kind = "devices"
	KindClasses Kind = "classes"
)

// Kinds lists the supported table kinds in usage order.
var Kinds = []Kind{KindDevices, KindClasses}

// KindChoices lists the kinds for usage text, e.g. "devices|classes".
func KindChoices() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, "|")
}

// ParseKind converts a command-line argument to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Kinds, k) {
		return k, nil
	}
	return "", fmt.Errorf("unknown table kind %q (expected %s)", s, KindChoices())
}

// Entry is one row of a generated table. Sub is nil for rows that describe a
// vendor without a device.
type Entry struct {
	Key  uint32
	Name string
	Sub  *string
}

// Row is the structured-output form of an Entry.
type Row struct {
	Key  string  `json:"key" yaml:"key"`
	Name string  `json:"name" yaml:"name"`
	Sub  *string `json:"sub" yaml:"sub"`
}

// HexKey formats the key as lowercase hex with a 0x prefix and no padding.
func (e Entry) HexKey() string {
	return fmt.Sprintf("%#x", e.Key)
}

// Row returns the structured-output form of e.
func (e Entry) Row() Row {
	return Row{Key: e.HexKey(), Name: e.Name, Sub: e.Sub}
}

// VendorKey is the key of the row describing a vendor by itself.
func VendorKey(vendor uint16) uint32 {
	return uint32(vendor) << 16
}

// DeviceKey combines a vendor and a device code.
func DeviceKey(vendor, device uint16) uint32 {
	return uint32(vendor)<<16 | uint32(device)
}

// ClassKey combines a class and a subclass code.
func ClassKey(class, subclass uint8) uint32 {
	return uint32(class)<<8 | uint32(subclass)
}

// SentinelKey is the key of the trailing "unspecified subclass" row of a class.
func SentinelKey(class uint8) uint32 {
	return ClassKey(class, 0xFF)
}

// EmptyClassError is returned when a class has no subclass to name its
// sentinel row after.
type EmptyClassError struct {
	Code uint8
	Name string
}

func (e *EmptyClassError) Error() string {
	return fmt.Sprintf("class %02x (%s) has no subclasses to name its 0xff row", e.Code, e.Name)
}

// Devices flattens vendors into the device table: a row for each vendor
// followed by one row per device.
func Devices(vendors []pciids.Vendor) []Entry {
	entries := make([]Entry, 0, len(vendors)+pciids.DeviceCount(vendors))
	for _, v := range vendors {
		entries = append(entries, Entry{Key: VendorKey(v.Code), Name: v.Name})
		for _, d := range v.Devices {
			name := d.Name
			entries = append(entries, Entry{Key: DeviceKey(v.Code, d.Code), Name: v.Name, Sub: &name})
		}
	}
	return entries
}

// ClassOptions controls class table generation.
type ClassOptions struct {
	// SentinelLabel, when set, names every class's 0xff row. When empty the
	// row repeats the name of the class's last subclass.
	SentinelLabel string
}

// Classes flattens classes into the class table: one row per subclass
// followed by a 0xff sentinel row per class. Depth-2 entries are not emitted.
func Classes(classes []pciids.Class, opts ClassOptions) ([]Entry, error) {
	label := pciids.Sanitize(opts.SentinelLabel)

	entries := make([]Entry, 0, len(classes)+pciids.SubclassCount(classes))
	for _, c := range classes {
		last := ""
		for _, s := range c.Subclasses {
			name := s.Name
			entries = append(entries, Entry{Key: ClassKey(c.Code, s.Code), Name: c.Name, Sub: &name})
			last = s.Name
		}

		sentinel := label
		if sentinel == "" {
			if len(c.Subclasses) == 0 {
				return nil, &EmptyClassError{Code: c.Code, Name: c.Name}
			}
			sentinel = last
		}
		entries = append(entries, Entry{Key: SentinelKey(c.Code), Name: c.Name, Sub: &sentinel})
	}
	return entries, nil
}

// Rows converts entries to their structured-output form.
func Rows(entries []Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, e.Row())
	}
	return rows
}
