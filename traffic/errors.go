package traffic

import "fmt"

// MalformedInputError means a source file cannot be used at all: a required
// column is missing from its header, or every row in it failed to parse.
// Ingestion aborts the whole run; there is no partial analysis on corrupt
// primary input.
type MalformedInputError struct {
	File   string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input %s: %s", e.File, e.Reason)
}

// EmptyInputError means zero usable rows remained across all source files.
type EmptyInputError struct {
	Files []string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no usable rows in %d input file(s)", len(e.Files))
}
