package query

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"FinLens/internal/calculator"
	"FinLens/internal/model"
	"FinLens/internal/table"
)

// Engine answers questions against table files in a working directory.
// Every call loads its files fresh; nothing is cached between calls.
type Engine struct {
	Dir string
}

// NewEngine creates an Engine reading files from dir.
func NewEngine(dir string) *Engine {
	return &Engine{Dir: dir}
}

func (e *Engine) load(file string) (*table.Table, error) {
	t, err := table.Load(filepath.Join(e.Dir, file))
	if err != nil {
		if errors.Is(err, model.ErrFileNotFound) {
			log.Printf("[ERROR] The file %s was not found at %s", file, e.Dir)
		} else {
			log.Printf("[ERROR] Error reading file %s: %v", file, err)
		}
		return nil, err
	}
	return t, nil
}

func loadFailure(err error) model.Answer {
	if errors.Is(err, model.ErrFileNotFound) {
		return model.NotFound(err)
	}
	return model.Failed(err)
}

func rowMissing(rowID, file string) model.Answer {
	log.Printf("[WARN] Row '%s' not found in file '%s'", rowID, file)
	return model.NotFound(fmt.Errorf("%w: %q in %s", model.ErrRowNotFound, rowID, file))
}

// LookupCell returns the value at (rowID, column) of the first matching row.
// A missing column yields a ColumnMissing answer carrying a descriptive message.
func (e *Engine) LookupCell(file, rowID, column string) model.Answer {
	t, err := e.load(file)
	if err != nil {
		return loadFailure(err)
	}
	row, ok := t.First(rowID)
	if !ok {
		return rowMissing(rowID, file)
	}
	if !t.HasColumn(column) {
		log.Printf("[WARN] Column '%s' not found in %s, available: %s", column, file, strings.Join(t.Columns(), ", "))
		return model.ColumnMissing(column)
	}
	cell, _ := row.Cell(column)
	return model.ValueOf(cell)
}

// RowMean averages the measurement cells of the first row matching rowID.
// Non-numeric cells are excluded from both the sum and the count.
func (e *Engine) RowMean(file, rowID string) model.Answer {
	t, err := e.load(file)
	if err != nil {
		return loadFailure(err)
	}
	row, ok := t.First(rowID)
	if !ok {
		return rowMissing(rowID, file)
	}
	cells := row.Measurements()
	values := calculator.ExtractNumeric(cells)
	if skipped := len(cells) - len(values); skipped > 0 {
		log.Printf("[WARN] %d non-numeric value(s) for %s in %s excluded from mean", skipped, rowID, file)
	}
	mean, err := calculator.CalculateMean(values)
	if err != nil {
		log.Printf("[WARN] No numeric data for row '%s' in file '%s'", rowID, file)
		return model.NoData(fmt.Errorf("%w: row %q in %s", model.ErrNoData, rowID, file))
	}
	return model.NumberOf(mean)
}

// BoundedLookup returns the value of the latest date column on or before target.
func (e *Engine) BoundedLookup(file, rowID string, target time.Time) model.Answer {
	t, err := e.load(file)
	if err != nil {
		return loadFailure(err)
	}

	var match string
	for _, dc := range t.DateColumns() {
		if dc.Date.After(target) {
			break
		}
		match = dc.Name
	}
	if match == "" {
		day := target.Format("2006-01-02")
		log.Printf("[WARN] No matching column found for %s in %s", day, file)
		return model.NotFound(fmt.Errorf("%w: %s in %s", model.ErrNoMatchingColumn, day, file))
	}

	row, ok := t.First(rowID)
	if !ok {
		return rowMissing(rowID, file)
	}
	cell, _ := row.Cell(match)
	return model.ValueOf(cell)
}

// MultiAverage averages every numeric measurement of every row matching rowID
// across all files as one flat collection. Unreadable files and files without
// the row are skipped.
func (e *Engine) MultiAverage(files []string, rowID string) model.Answer {
	var values []float64
	for _, file := range files {
		t, err := e.load(file)
		if err != nil {
			continue
		}
		rows := t.Rows(rowID)
		if len(rows) == 0 {
			rowMissing(rowID, file)
			continue
		}
		for _, r := range rows {
			values = append(values, calculator.ExtractNumeric(r.Measurements())...)
		}
	}

	mean, err := calculator.CalculateMean(values)
	if err != nil {
		log.Printf("[WARN] No data found for row '%s' across the files.", rowID)
		return model.NoData(fmt.Errorf("%w: row %q across %d file(s)", model.ErrNoData, rowID, len(files)))
	}
	return model.NumberOf(mean)
}

// ThresholdFilter collects the (column, value) pairs of rowID that are strictly
// greater than threshold, in file then column order. Rejected cells are logged.
func (e *Engine) ThresholdFilter(files []string, rowID string, threshold float64) model.Answer {
	var results []model.ColumnValue
	for _, file := range files {
		t, err := e.load(file)
		if err != nil {
			continue
		}
		row, ok := t.First(rowID)
		if !ok {
			rowMissing(rowID, file)
			continue
		}
		kept, rejected := calculator.PartitionAbove(row.Measurements(), threshold)
		for _, r := range rejected {
			if r.Missing {
				log.Printf("[INFO] NaN encountered for %s at column %s", rowID, r.Cell.Column)
			} else {
				log.Printf("[INFO] Value %s for %s at column %s is not greater than %s",
					model.FormatNumber(r.Cell.Value), rowID, r.Cell.Column, model.FormatNumber(threshold))
			}
		}
		results = append(results, kept...)
	}
	return model.PairsOf(results)
}
