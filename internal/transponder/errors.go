package transponder

import (
	"errors"
	"fmt"
)

// Failure kinds of a fetch-and-write cycle. Callers classify with errors.Is.
var (
	ErrFetch      = errors.New("fetch failed")
	ErrParse      = errors.New("malformed transponder data")
	ErrValidation = errors.New("invalid transponder record")
	ErrWrite      = errors.New("write failed")
)

// ValidationError describes a record that lacks a required field or carries
// a value of the wrong type.
type ValidationError struct {
	Index    int    // position in the source array
	RecordID string // empty when the id itself is the problem
	Field    string // source field name
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("record %d (%s): %s: %s", e.Index, e.RecordID, e.Field, e.Reason)
	}
	return fmt.Sprintf("record %d: %s: %s", e.Index, e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
