package table

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// HeaderLine marks generated tables.
const HeaderLine = "// THIS TABLE WAS AUTOMATICALLY GENERATED. DO NOT EDIT"

// DefaultNullToken stands in for a missing device name.
const DefaultNullToken = "NULL"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Renderer formats entries as C array-literal rows.
type Renderer struct {
	// NullToken is written for entries without a sub name.
	NullToken string
	// Generator is named in the header comment.
	Generator string
}

// Line formats a single entry.
func (r Renderer) Line(e Entry) string {
	sub := r.NullToken
	if sub == "" {
		sub = DefaultNullToken
	}
	if e.Sub != nil {
		sub = `"` + *e.Sub + `"`
	}
	return fmt.Sprintf(`{ %s, "%s", %s },`, e.HexKey(), e.Name, sub)
}

// Render returns the header comment followed by one line per entry.
func (r Renderer) Render(entries []Entry) []byte {
	var buf bytes.Buffer
	buf.WriteString(HeaderLine)
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "// (%s)\n", r.Generator)
	for _, e := range entries {
		buf.WriteString(r.Line(e))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteFile writes a rendered table to path, creating its directory.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
