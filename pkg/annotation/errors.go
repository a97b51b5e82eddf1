package annotation

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/imavis/jta-annotations/pkg/pose"
)

//MalformedRecordError is returned when an ingested row fails the shape or type checks
type MalformedRecordError = pose.MalformedRecordError

//InvalidGeometryError is returned for boxes with negative size or coordinates out of the frame
type InvalidGeometryError struct {
	Document string
	Frame    int
	Box      [4]float64
	Reason   string
}

func (e *InvalidGeometryError) Error() string {
	msg := fmt.Sprintf("invalid geometry %v: %s", e.Box, e.Reason)
	if e.Frame >= 0 {
		msg = fmt.Sprintf("frame %d: %s", e.Frame, msg)
	}
	if e.Document != "" {
		msg = fmt.Sprintf("%s: %s", e.Document, msg)
	}
	return msg
}

//UnresolvableLabelError is returned when a label is not in the taxonomy after synonym normalization
type UnresolvableLabelError struct {
	Label    string
	Document string
}

func (e *UnresolvableLabelError) Error() string {
	if e.Document != "" {
		return fmt.Sprintf("%s: label '%s' is not in the taxonomy", e.Document, e.Label)
	}
	return fmt.Sprintf("label '%s' is not in the taxonomy", e.Label)
}

//SchemaMismatchError is returned when compact rows do not have the shape of the declared schema
type SchemaMismatchError struct {
	Schema  pose.Schema
	Found   string
	Row     int
	Columns int
}

func (e *SchemaMismatchError) Error() string {
	if e.Found != "" {
		return fmt.Sprintf("schema mismatch: declared %s, document is tagged %s", e.Schema, e.Found)
	}
	return fmt.Sprintf("schema mismatch at row %d: %s rows have %d columns, got %d", e.Row, e.Schema, e.Schema.Width(), e.Columns)
}

//IsFatal reports whether err is a global configuration error which must abort a batch run
func IsFatal(err error) bool {
	var ul *UnresolvableLabelError
	var sm *SchemaMismatchError
	return errors.As(err, &ul) || errors.As(err, &sm)
}
