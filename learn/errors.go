package learn

import (
	"errors"
	"strconv"
)

// ErrRowShape indicates a CSV data row has a different column count than
// the header.
var ErrRowShape = errors.New("row column count does not match header")

// ErrNonNumericCell indicates a CSV cell required to be numeric could not
// be parsed as a float64.
var ErrNonNumericCell = errors.New("non-numeric value where a number was required")

// DataError reports a defect in a training CSV: a short file, a row with
// the wrong number of columns, or a cell that fails to parse as a float.
type DataError struct {
	Path    string
	Row     int // 1-based, header is row 1
	Column  string
	Message string
	err     error
}

func (e *DataError) Error() string {
	if e.Column != "" {
		return e.Path + ": row " + strconv.Itoa(e.Row) + " column " + e.Column + ": " + e.Message
	}
	return e.Path + ": " + e.Message
}

func (e *DataError) Unwrap() error {
	return e.err
}
