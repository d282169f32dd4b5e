package repository

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFileNotFound   = errors.New("dataset file not found")
	ErrFileUnreadable = errors.New("dataset file unreadable")
	ErrSchemaMismatch = errors.New("dataset schema mismatch")
)

// SchemaError reports required columns that the header row does not provide.
type SchemaError struct {
	Sheet   string
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet %q is missing required columns: %s (found: %s)",
		e.Sheet, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// Is lets errors.Is(err, ErrSchemaMismatch) match.
func (e *SchemaError) Is(target error) bool { return target == ErrSchemaMismatch }

// CellError reports a value that cannot be interpreted for its column.
type CellError struct {
	Row    int
	Column Column
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d, column %s: invalid value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

func (e *CellError) Is(target error) bool { return target == ErrSchemaMismatch }
