// Package pciids parses the indentation-structured PCI vendor/device and
// device-class registries into forests of records.
//
// Both registries list one record per line. The number of leading whitespace
// characters gives the record's depth, and a record belongs to the closest
// preceding record one level up:
//
//	10de  NVIDIA Corporation
//		1234  GeForce
//			1043 8400  Some Card
//
// Blank lines and lines starting with '#' are ignored.
package pciids

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineSize = 1 << 20

// ParseDevices reads the vendor/device registry from r.
func ParseDevices(r io.Reader) ([]Vendor, error) {
	var b DeviceBuilder
	if err := scan(r, b.Add); err != nil {
		return nil, err
	}
	return b.Vendors(), nil
}

// ParseClasses reads the device-class registry from r.
func ParseClasses(r io.Reader) ([]Class, error) {
	var b ClassBuilder
	if err := scan(r, b.Add); err != nil {
		return nil, err
	}
	return b.Classes(), nil
}

func scan(r io.Reader, add func(Line) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for sc.Scan() {
		n++
		raw := strings.TrimRight(sc.Text(), "\r")
		line, ok := Classify(raw)
		if !ok {
			continue
		}
		if err := add(line); err != nil {
			return &ParseError{Line: n, Text: raw, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
