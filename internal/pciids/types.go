package pciids

// NoName is stored for subdevice lines that carry no name field.
const NoName = "(No name)"

// Vendor is a depth-0 record of the device registry.
type Vendor struct {
	Code    uint16   `json:"code" yaml:"code"`
	Name    string   `json:"name" yaml:"name"`
	Devices []Device `json:"devices,omitempty" yaml:"devices,omitempty"`
}

// Device is a depth-1 record, scoped to its vendor.
type Device struct {
	Code       uint16      `json:"code" yaml:"code"`
	Name       string      `json:"name" yaml:"name"`
	Subdevices []Subdevice `json:"subdevices,omitempty" yaml:"subdevices,omitempty"`
}

// Subdevice is a depth-2 record. Its fields are kept as raw tokens.
type Subdevice struct {
	SubvendorCode string `json:"subvendor_code" yaml:"subvendor_code"`
	Code          string `json:"code" yaml:"code"`
	Name          string `json:"name" yaml:"name"`
}

// Class is a record of the class registry. Top-level classes hold their
// subclasses in Subclasses; a subclass may in turn hold depth-2 entries.
type Class struct {
	Code       uint8   `json:"code" yaml:"code"`
	Name       string  `json:"name" yaml:"name"`
	Subclasses []Class `json:"subclasses,omitempty" yaml:"subclasses,omitempty"`
}

// DeviceCount returns the number of devices across all vendors.
func DeviceCount(vendors []Vendor) int {
	n := 0
	for _, v := range vendors {
		n += len(v.Devices)
	}
	return n
}

// SubclassCount returns the number of depth-1 classes across all classes.
func SubclassCount(classes []Class) int {
	n := 0
	for _, c := range classes {
		n += len(c.Subclasses)
	}
	return n
}
