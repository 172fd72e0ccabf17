package pciids

import "fmt"

// DeviceBuilder folds classified lines of the device registry into a forest
// of vendors. The zero value is ready to use.
//
// vendor and device are the open records at depth 0 and 1. Each points at the
// last element of its owning slice, so a new line always attaches to the most
// recently added record one level up.
type DeviceBuilder struct {
	vendors []Vendor
	vendor  *Vendor
	device  *Device
}

// Add attaches one line to the forest.
func (b *DeviceBuilder) Add(line Line) error {
	switch line.Depth {
	case 0:
		vendor, err := parseVendor(line.Content)
		if err != nil {
			return err
		}
		b.vendors = append(b.vendors, vendor)
		b.vendor = &b.vendors[len(b.vendors)-1]
		b.device = nil
	case 1:
		if b.vendor == nil {
			return fmt.Errorf("%w: device line before any vendor", ErrOrphan)
		}
		device, err := parseDevice(line.Content)
		if err != nil {
			return err
		}
		b.vendor.Devices = append(b.vendor.Devices, device)
		b.device = &b.vendor.Devices[len(b.vendor.Devices)-1]
	case 2:
		if b.device == nil {
			return fmt.Errorf("%w: subdevice line before any device", ErrOrphan)
		}
		sub, err := parseSubdevice(line.Content)
		if err != nil {
			return err
		}
		b.device.Subdevices = append(b.device.Subdevices, sub)
	default:
		return fmt.Errorf("%w: depth %d", ErrDepth, line.Depth)
	}
	return nil
}

// Vendors returns the forest built so far.
func (b *DeviceBuilder) Vendors() []Vendor {
	return b.vendors
}

// ClassBuilder folds classified lines of the class registry into a forest of
// classes. The zero value is ready to use.
type ClassBuilder struct {
	classes []Class
	// stack[d] is the open class at depth d.
	stack []*Class
}

// Add attaches one line to the forest.
func (b *ClassBuilder) Add(line Line) error {
	if line.Depth > MaxDepth {
		return fmt.Errorf("%w: depth %d", ErrDepth, line.Depth)
	}
	if line.Depth > len(b.stack) {
		return fmt.Errorf("%w: depth %d line without a depth %d class", ErrOrphan, line.Depth, line.Depth-1)
	}
	cls, err := parseClass(line.Content)
	if err != nil {
		return err
	}

	if line.Depth == 0 {
		b.classes = append(b.classes, cls)
		b.stack = append(b.stack[:0], &b.classes[len(b.classes)-1])
		return nil
	}

	parent := b.stack[line.Depth-1]
	parent.Subclasses = append(parent.Subclasses, cls)
	b.stack = append(b.stack[:line.Depth], &parent.Subclasses[len(parent.Subclasses)-1])
	return nil
}

// Classes returns the forest built so far.
func (b *ClassBuilder) Classes() []Class {
	return b.classes
}
