package pose

import "fmt"

//MalformedRecordError is returned when a raw record row fails the shape or type checks.
//Row is -1 when the row index is unknown, Column is -1 when the whole row is at fault.
type MalformedRecordError struct {
	Row    int
	Column int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	switch {
	case e.Row < 0:
		return fmt.Sprintf("malformed record: %s", e.Reason)
	case e.Column < 0:
		return fmt.Sprintf("malformed record at row %d: %s", e.Row, e.Reason)
	default:
		return fmt.Sprintf("malformed record at row %d, column %d: %s", e.Row, e.Column, e.Reason)
	}
}
