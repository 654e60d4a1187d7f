package composite

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord indicates serialized content that does not describe
	// a valid composite.
	ErrMalformedRecord = errors.New("composite: malformed record")
	// ErrDelimiterInField indicates a field that cannot be encoded because it
	// is empty or contains the field delimiter.
	ErrDelimiterInField = errors.New("composite: field empty or contains ':'")
	// ErrUnknownDescriptor indicates a connection to a descriptor the
	// composite does not have.
	ErrUnknownDescriptor = errors.New("composite: unknown descriptor")
)

// MalformedRecordError names the attribute and the raw value that could not
// be resolved.
type MalformedRecordError struct {
	Field  string
	Record string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("composite: malformed %s %q: %v", e.Field, e.Record, e.Err)
	}
	return fmt.Sprintf("composite: malformed %s %q", e.Field, e.Record)
}

// Unwrap reports both ErrMalformedRecord and the underlying cause.
func (e *MalformedRecordError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedRecord}
	}
	return []error{ErrMalformedRecord, e.Err}
}
