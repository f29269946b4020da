package query

import (
	"fmt"

	"FinLens/internal/model"
	"FinLens/internal/table"
)

// Answer runs the engine operation selected by q.Kind.
func (e *Engine) Answer(q model.Question) model.Answer {
	switch q.Kind {
	case model.KindLookupCell:
		return e.LookupCell(first(q.Files), q.RowID, q.Column)
	case model.KindRowMean:
		return e.RowMean(first(q.Files), q.RowID)
	case model.KindBoundedLookup:
		target, err := table.ParseDate(q.Date)
		if err != nil {
			return model.Failed(fmt.Errorf("parse date %q: %w", q.Date, err))
		}
		return e.BoundedLookup(first(q.Files), q.RowID, target)
	case model.KindMultiAverage:
		return e.MultiAverage(q.Files, q.RowID)
	case model.KindThresholdFilter:
		return e.ThresholdFilter(q.Files, q.RowID, q.Threshold)
	default:
		return model.Failed(fmt.Errorf("unknown query kind %q", q.Kind))
	}
}

func first(files []string) string {
	if len(files) == 0 {
		return ""
	}
	return files[0]
}
