package reference

import (
	"errors"
	"fmt"
)

var (
	// ErrSource matches every *SourceError.
	ErrSource = errors.New("reference source error")
	// ErrTableNotFound means the named table/sheet does not exist.
	ErrTableNotFound = errors.New("table not found")
	// ErrMissingColumn means a required column is absent from a table.
	ErrMissingColumn = errors.New("required column missing")
)

// SourceError wraps any failure to obtain or map a reference table:
// missing table, authentication, network or driver errors alike.
type SourceError struct {
	Table string
	Op    string
	Err   error
}

func (e *SourceError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Table, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSource) true for any SourceError.
func (e *SourceError) Is(target error) bool {
	return target == ErrSource
}

// NewSourceError builds a SourceError, returning err untouched when it
// already is one.
func NewSourceError(op, table string, err error) error {
	var se *SourceError
	if errors.As(err, &se) {
		return err
	}
	return &SourceError{Table: table, Op: op, Err: err}
}
