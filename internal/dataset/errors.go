package dataset

import (
	"errors"
	"fmt"
)

// ErrUnsupported indicates a table format the loader does not recognize.
var ErrUnsupported = errors.New("unsupported table format")

var errEmptyFile = errors.New("file contains no rows")

// UnsupportedFormatError reports a file whose extension matches no registered
// reader. No table is constructed.
type UnsupportedFormatError struct {
	Path string
	Ext  string
	Hint string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("unsupported format %q for %s: %s", e.Ext, e.Path, e.Hint)
	}
	return fmt.Sprintf("unsupported format %q for %s", e.Ext, e.Path)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupported }

// ParseError reports a file whose reader matched but could not decode it.
type ParseError struct {
	Path   string
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s as %s: %v", e.Path, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
