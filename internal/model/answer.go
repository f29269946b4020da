package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Status tags the outcome of a query.
type Status int

const (
	StatusValue         Status = iota // single cell or computed number
	StatusPairs                       // sequence of (column, value) pairs
	StatusNotFound                    // file, row or matching column absent
	StatusColumnMissing               // row present, requested column absent
	StatusNoData                      // nothing numeric to aggregate
	StatusError                       // file could not be read
)

func (s Status) String() string {
	switch s {
	case StatusValue:
		return "value"
	case StatusPairs:
		return "pairs"
	case StatusNotFound:
		return "not_found"
	case StatusColumnMissing:
		return "column_missing"
	case StatusNoData:
		return "no_data"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Cell is one (row, column) intersection of a financial table.
// Numeric is false when the raw text does not coerce to a number.
type Cell struct {
	Column  string
	Raw     string
	Value   float64
	Numeric bool
}

// ColumnValue is one entry of a threshold filter result.
type ColumnValue struct {
	Column string
	Value  float64
}

// Answer is the tagged outcome every query returns.
type Answer struct {
	Status  Status
	Cell    Cell
	Number  float64
	Pairs   []ColumnValue
	Message string
	Err     error
}

// Render formats the answer the way it is printed after "Answer to Question N:".
// Absent results render as None.
func (a Answer) Render() string {
	switch a.Status {
	case StatusValue:
		if a.Cell.Column != "" {
			if a.Cell.Numeric {
				return FormatNumber(a.Cell.Value)
			}
			return a.Cell.Raw
		}
		return FormatNumber(a.Number)
	case StatusPairs:
		parts := make([]string, len(a.Pairs))
		for i, p := range a.Pairs {
			parts[i] = fmt.Sprintf("(%s, %s)", p.Column, FormatNumber(p.Value))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case StatusColumnMissing:
		return a.Message
	default:
		return "None"
	}
}

// FormatNumber prints v in plain decimal notation with the shortest exact
// representation, never in exponent form.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ValueOf returns a value answer carrying a single cell.
func ValueOf(c Cell) Answer {
	return Answer{Status: StatusValue, Cell: c}
}

// NumberOf returns a value answer carrying a computed number.
func NumberOf(v float64) Answer {
	return Answer{Status: StatusValue, Number: v}
}

// PairsOf returns a pairs answer. A nil slice is normalized to empty.
func PairsOf(pairs []ColumnValue) Answer {
	if pairs == nil {
		pairs = []ColumnValue{}
	}
	return Answer{Status: StatusPairs, Pairs: pairs}
}

// NotFound returns an absent answer with the reason attached.
func NotFound(err error) Answer {
	return Answer{Status: StatusNotFound, Message: err.Error(), Err: err}
}

// ColumnMissing returns the descriptive answer for an absent column.
func ColumnMissing(column string) Answer {
	return Answer{
		Status:  StatusColumnMissing,
		Message: fmt.Sprintf("Column '%s' not found in the data.", column),
		Err:     fmt.Errorf("%w: %s", ErrColumnNotFound, column),
	}
}

// NoData returns the explicit "nothing to aggregate" marker.
func NoData(err error) Answer {
	return Answer{Status: StatusNoData, Message: err.Error(), Err: err}
}

// Failed returns an answer for a file that could not be read.
func Failed(err error) Answer {
	return Answer{Status: StatusError, Message: err.Error(), Err: err}
}
