package calculator

import (
	"errors"

	"FinLens/internal/model"
)

// CalculateMean computes the arithmetic mean of values.
func CalculateMean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values for mean calculation")
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// ExtractNumeric returns the values of the numeric cells, in order.
func ExtractNumeric(cells []model.Cell) []float64 {
	values := make([]float64, 0, len(cells))
	for _, c := range cells {
		if c.Numeric {
			values = append(values, c.Value)
		}
	}
	return values
}
