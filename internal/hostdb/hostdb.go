// Package hostdb builds registry forests from the host's pci.ids database.
//
// The host database is indexed by ID rather than kept in file order, so roots
// are ordered by ascending code. Children keep the order pcidb reports them in.
package hostdb

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jaypipes/pcidb"

	"github.com/salmonumbrella/pci-table/internal/pciids"
)

// Open loads the pci.ids database. An empty path lets pcidb search its usual
// locations. The database is never fetched over the network.
func Open(path string) (*pcidb.PCIDB, error) {
	db, err := pcidb.New(openOptions(path)...)
	if err != nil {
		return nil, fmt.Errorf("loading host pci.ids: %w", err)
	}
	return db, nil
}

func openOptions(path string) []*pcidb.WithOption {
	opts := []*pcidb.WithOption{pcidb.WithDisableNetworkFetch()}
	if p := strings.TrimSpace(path); p != "" {
		opts = append(opts, pcidb.WithDirectPath(p))
	}
	return opts
}

// Vendors converts the vendors and products of db into a device forest.
func Vendors(db *pcidb.PCIDB) ([]pciids.Vendor, error) {
	vendors := make([]pciids.Vendor, 0, len(db.Vendors))
	for _, v := range db.Vendors {
		if v == nil {
			continue
		}
		code, err := parseHex(v.ID, 16)
		if err != nil {
			return nil, fmt.Errorf("vendor %q: %w", v.Name, err)
		}
		vendor := pciids.Vendor{Code: uint16(code), Name: pciids.Sanitize(v.Name)}

		for _, p := range v.Products {
			if p == nil {
				continue
			}
			code, err := parseHex(p.ID, 16)
			if err != nil {
				return nil, fmt.Errorf("vendor %s product %q: %w", v.ID, p.Name, err)
			}
			device := pciids.Device{Code: uint16(code), Name: pciids.Sanitize(p.Name)}
			for _, s := range p.Subsystems {
				if s == nil {
					continue
				}
				name := s.Name
				if strings.TrimSpace(name) == "" {
					name = pciids.NoName
				}
				device.Subdevices = append(device.Subdevices, pciids.Subdevice{
					SubvendorCode: s.VendorID,
					Code:          s.ID,
					Name:          name,
				})
			}
			vendor.Devices = append(vendor.Devices, device)
		}
		vendors = append(vendors, vendor)
	}

	slices.SortFunc(vendors, func(a, b pciids.Vendor) int {
		return int(a.Code) - int(b.Code)
	})
	return vendors, nil
}

// Classes converts the classes, subclasses and programming interfaces of db
// into a class forest.
func Classes(db *pcidb.PCIDB) ([]pciids.Class, error) {
	classes := make([]pciids.Class, 0, len(db.Classes))
	for _, c := range db.Classes {
		if c == nil {
			continue
		}
		class, err := newClass(c.ID, c.Name)
		if err != nil {
			return nil, err
		}
		for _, sc := range c.Subclasses {
			if sc == nil {
				continue
			}
			sub, err := newClass(sc.ID, sc.Name)
			if err != nil {
				return nil, fmt.Errorf("class %s: %w", c.ID, err)
			}
			for _, pi := range sc.ProgrammingInterfaces {
				if pi == nil {
					continue
				}
				iface, err := newClass(pi.ID, pi.Name)
				if err != nil {
					return nil, fmt.Errorf("class %s subclass %s: %w", c.ID, sc.ID, err)
				}
				sub.Subclasses = append(sub.Subclasses, iface)
			}
			class.Subclasses = append(class.Subclasses, sub)
		}
		classes = append(classes, class)
	}

	slices.SortFunc(classes, func(a, b pciids.Class) int {
		return int(a.Code) - int(b.Code)
	})
	return classes, nil
}

func newClass(id, name string) (pciids.Class, error) {
	code, err := parseHex(id, 8)
	if err != nil {
		return pciids.Class{}, fmt.Errorf("class %q: %w", name, err)
	}
	return pciids.Class{Code: uint8(code), Name: pciids.Sanitize(name)}, nil
}

func parseHex(id string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(id), 16, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", pciids.ErrCode, id)
	}
	return v, nil
}
