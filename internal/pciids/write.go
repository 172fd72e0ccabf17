package pciids

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDevices writes vendors back out in the registry's tab-indented format.
// Escaped quotes are restored, so the output parses back to the same forest.
func WriteDevices(w io.Writer, vendors []Vendor) error {
	bw := bufio.NewWriter(w)
	for _, v := range vendors {
		fmt.Fprintf(bw, "%04x\t%s\n", v.Code, unsanitize(v.Name))
		for _, d := range v.Devices {
			fmt.Fprintf(bw, "\t%04x\t%s\n", d.Code, unsanitize(d.Name))
			for _, s := range d.Subdevices {
				fmt.Fprintf(bw, "\t\t%s %s\t%s\n", s.SubvendorCode, s.Code, s.Name)
			}
		}
	}
	return bw.Flush()
}

// WriteClasses writes classes back out in the registry's tab-indented format.
func WriteClasses(w io.Writer, classes []Class) error {
	bw := bufio.NewWriter(w)
	var walk func(classes []Class, depth int)
	walk = func(classes []Class, depth int) {
		for _, c := range classes {
			for i := 0; i < depth; i++ {
				bw.WriteByte('\t')
			}
			fmt.Fprintf(bw, "%02x\t%s\n", c.Code, unsanitize(c.Name))
			walk(c.Subclasses, depth+1)
		}
	}
	walk(classes, 0)
	return bw.Flush()
}
