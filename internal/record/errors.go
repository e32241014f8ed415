package record

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidType     = errors.New("record: invalid column type")
	ErrInvalidArgument = errors.New("record: invalid argument")
	ErrTruncated       = errors.New("record: row truncated")
	ErrOutOfRange      = errors.New("record: out of range")
	ErrNotCompiled     = errors.New("record: schema is not compiled")
	ErrUnsupported     = errors.New("record: unsupported operation")
	ErrSchemaMismatch  = errors.New("record: schema/values mismatch")

	// ErrStrZeroMisplacedTerminator matches ErrInvalidArgument too.
	ErrStrZeroMisplacedTerminator = fmt.Errorf("%w: StrZero terminator is not at string end", ErrInvalidArgument)
)

// ColumnError reports which column of a row failed and why.
// Need/Have are byte counts when the failure is a length problem, else 0.
type ColumnError struct {
	Column int
	Name   string
	Type   ColumnType
	Need   int
	Have   int
	Err    error
}

func (e *ColumnError) Error() string {
	if e.Need > 0 || e.Have > 0 {
		return fmt.Sprintf("%v: column %d (%s %s) need=%d have=%d",
			e.Err, e.Column, e.Name, e.Type, e.Need, e.Have)
	}
	return fmt.Sprintf("%v: column %d (%s %s)", e.Err, e.Column, e.Name, e.Type)
}

func (e *ColumnError) Unwrap() error { return e.Err }
