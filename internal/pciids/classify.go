package pciids

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxDepth is the deepest indentation level either registry uses.
const MaxDepth = 2

// Line is a non-blank, non-comment input line.
type Line struct {
	// Depth is the count of leading ASCII whitespace characters.
	Depth int
	// Content is the line without surrounding whitespace.
	Content string
}

// Classify reports the depth and content of raw. It returns false for blank
// lines and comments.
func Classify(raw string) (Line, bool) {
	rest := strings.TrimLeftFunc(raw, isSpace)
	content := strings.TrimRightFunc(rest, isSpace)
	if content == "" || strings.HasPrefix(content, "#") {
		return Line{}, false
	}
	return Line{
		Depth:   len(raw) - len(rest),
		Content: content,
	}, true
}

// isSpace matches ASCII whitespace only. Other Unicode spaces, such as a
// no-break space, are ordinary characters.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Sanitize escapes double quotes so name can sit inside a C string literal.
func Sanitize(name string) string {
	return strings.ReplaceAll(name, `"`, `\"`)
}

// unsanitize reverses Sanitize.
func unsanitize(name string) string {
	return strings.ReplaceAll(name, `\"`, `"`)
}

// splitFields splits s around runs of whitespace into at most n fields. The
// last field keeps whatever whitespace it contains.
func splitFields(s string, n int) []string {
	var fields []string
	for len(fields) < n-1 {
		s = strings.TrimLeftFunc(s, isSpace)
		if s == "" {
			return fields
		}
		i := strings.IndexFunc(s, isSpace)
		if i < 0 {
			return append(fields, s)
		}
		fields = append(fields, s[:i])
		s = s[i:]
	}
	if s = strings.TrimLeftFunc(s, isSpace); s != "" {
		fields = append(fields, s)
	}
	return fields
}

// trimHexPrefix drops an optional 0x or 0X so that "0x10de" and "10de" read
// the same.
func trimHexPrefix(code string) string {
	if len(code) > 2 && code[0] == '0' && (code[1] == 'x' || code[1] == 'X') {
		return code[2:]
	}
	return code
}

// parseRecord splits a "<hex-code> <name>" line. bits bounds the code.
func parseRecord(content string, bits int) (uint64, string, error) {
	fields := splitFields(content, 2)
	if len(fields) != 2 {
		return 0, "", fmt.Errorf("%w: want code and name, got %d", ErrFields, len(fields))
	}
	code, err := strconv.ParseUint(trimHexPrefix(fields[0]), 16, bits)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q is not a %d-bit hex number", ErrCode, fields[0], bits)
	}
	return code, Sanitize(fields[1]), nil
}

func parseVendor(content string) (Vendor, error) {
	code, name, err := parseRecord(content, 16)
	if err != nil {
		return Vendor{}, err
	}
	return Vendor{Code: uint16(code), Name: name}, nil
}

func parseDevice(content string) (Device, error) {
	code, name, err := parseRecord(content, 16)
	if err != nil {
		return Device{}, err
	}
	return Device{Code: uint16(code), Name: name}, nil
}

func parseSubdevice(content string) (Subdevice, error) {
	fields := splitFields(content, 3)
	switch len(fields) {
	case 2:
		fields = append(fields, NoName)
	case 3:
	default:
		return Subdevice{}, fmt.Errorf("%w: want subvendor, code and optional name, got %d", ErrFields, len(fields))
	}
	return Subdevice{SubvendorCode: fields[0], Code: fields[1], Name: fields[2]}, nil
}

func parseClass(content string) (Class, error) {
	code, name, err := parseRecord(content, 8)
	if err != nil {
		return Class{}, err
	}
	return Class{Code: uint8(code), Name: name}, nil
}
