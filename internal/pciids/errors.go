package pciids

import (
	"errors"
	"fmt"
)

var (
	// ErrFields indicates a line with the wrong number of fields for its depth.
	ErrFields = errors.New("wrong number of fields")
	// ErrCode indicates a code that is not a hex number of the expected width.
	ErrCode = errors.New("invalid code")
	// ErrDepth indicates indentation deeper than MaxDepth.
	ErrDepth = errors.New("indentation too deep")
	// ErrOrphan indicates a nested line with no record at the depth above it.
	ErrOrphan = errors.New("no parent record")
)

// ParseError reports the input line that could not be parsed.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf(`line %d: %v: "%s"`, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Structural reports whether the line was well-formed but out of place.
func (e *ParseError) Structural() bool {
	return errors.Is(e.Err, ErrOrphan)
}
