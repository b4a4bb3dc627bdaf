package voc

import "fmt"

// ParseError reports an annotation document that is not well-formed XML.
type ParseError struct {
	Path string // Source file, empty when parsing from memory
	Err  error  // Underlying decoder error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid annotation XML: %v", e.Err)
	}
	return fmt.Sprintf("%s: invalid annotation XML: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports a well-formed annotation that is missing a required
// field or carries an invalid value in one.
type SchemaError struct {
	Path   string // Source file, empty when parsing from memory
	Field  string // Offending field, e.g. "object[2]/bndbox/xmax"
	Reason string // What is wrong with it
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("annotation field %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: annotation field %s: %s", e.Path, e.Field, e.Reason)
}
