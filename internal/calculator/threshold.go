package calculator

import "FinLens/internal/model"

// Rejection records why a cell was left out of a threshold filter.
type Rejection struct {
	Cell    model.Cell
	Missing bool // true when the cell is not numeric
}

// PartitionAbove splits cells into the (column, value) pairs strictly greater
// than threshold and the rejected rest. Both keep the input order.
func PartitionAbove(cells []model.Cell, threshold float64) ([]model.ColumnValue, []Rejection) {
	var kept []model.ColumnValue
	var rejected []Rejection
	for _, c := range cells {
		switch {
		case !c.Numeric:
			rejected = append(rejected, Rejection{Cell: c, Missing: true})
		case c.Value > threshold:
			kept = append(kept, model.ColumnValue{Column: c.Column, Value: c.Value})
		default:
			rejected = append(rejected, Rejection{Cell: c})
		}
	}
	return kept, rejected
}
