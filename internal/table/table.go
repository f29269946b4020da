package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"FinLens/internal/model"
)

// Reserved column names.
const (
	IDColumn    = "id"
	ScaleColumn = "scale"
)

// Cell texts treated as missing on load.
var missingValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "<nil>"}

// DateColumn pairs a measurement column with the date its name encodes.
type DateColumn struct {
	Name string
	Date time.Time
}

// Table is one financial statement file held in memory.
//
// Column names are trimmed of whitespace and byte-order marks. A repeated
// name keeps its first occurrence; later copies become name.1, name.2 and
// are never treated as dates. DateColumns is always sorted ascending by
// date, regardless of the column order in the file.
type Table struct {
	Path  string
	names []string
	dup   []bool
	index map[string]int
	cols  []series.Series
	ids   []string
	dates []DateColumn
}

// Load parses the delimited file at path. Every cell is kept as text and
// coerced to a number on access. A header without data rows is an empty
// table.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	header, hasRows, err := readHeader(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	t := &Table{Path: path, index: make(map[string]int, len(header))}
	t.names, t.dup = normalizeNames(header)
	for i, name := range t.names {
		if _, seen := t.index[name]; !seen {
			t.index[name] = i
		}
	}

	if hasRows {
		frame := dataframe.ReadCSV(bytes.NewReader(data),
			dataframe.HasHeader(true),
			dataframe.DetectTypes(false),
			dataframe.DefaultType(series.String),
			dataframe.NaNValues(missingValues),
		)
		if frame.Err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, frame.Err)
		}
		if frame.Ncol() != len(t.names) {
			return nil, fmt.Errorf("parse %s: %d columns in header, %d parsed", path, len(t.names), frame.Ncol())
		}
		// gota renames repeated headers, so columns are matched by position.
		t.cols = make([]series.Series, len(t.names))
		for i, name := range frame.Names() {
			t.cols[i] = frame.Col(name)
		}
	}

	idPos, ok := t.index[IDColumn]
	if !ok {
		return nil, fmt.Errorf("parse %s: no %q column", path, IDColumn)
	}
	if hasRows {
		t.ids = t.cols[idPos].Records()
	}
	t.dates = t.parseDateColumns()
	return t, nil
}

// readHeader returns the header record and whether any data record follows.
func readHeader(data []byte) ([]string, bool, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return nil, false, errors.New("empty file")
	}
	if err != nil {
		return nil, false, err
	}
	if _, err := r.Read(); err == io.EOF {
		return header, false, nil
	} else if err != nil {
		return nil, false, err
	}
	return header, true, nil
}

func isPadding(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// normalizeNames trims every name and suffixes repeats with .1, .2, ...
// dup marks the renamed repeats.
func normalizeNames(header []string) ([]string, []bool) {
	names := make([]string, len(header))
	dup := make([]bool, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimFunc(h, isPadding)
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
			dup[i] = true
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names, dup
}

func (t *Table) parseDateColumns() []DateColumn {
	dates := make([]DateColumn, 0, len(t.names))
	for _, i := range t.measurementPositions() {
		name := t.names[i]
		if t.dup[i] {
			log.Printf("[WARN] %s: column %q repeats an earlier name, ignored for date lookups", t.Path, name)
			continue
		}
		d, ok := parseColumnDate(name)
		if !ok {
			log.Printf("[WARN] %s: column %q is not a date, ignored for date lookups", t.Path, name)
			continue
		}
		dates = append(dates, DateColumn{Name: name, Date: d})
	}
	sort.SliceStable(dates, func(i, j int) bool { return dates[i].Date.Before(dates[j].Date) })
	return dates
}

// parseColumnDate accepts a column name only when the date it parses to
// formats back to the exact same text.
func parseColumnDate(name string) (time.Time, bool) {
	layout, err := dateparse.ParseFormat(name)
	if err != nil {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(layout, name, time.UTC)
	if err != nil || d.Format(layout) != name {
		return time.Time{}, false
	}
	return d, true
}

// ParseDate parses a column name or query date in any common layout, in UTC.
func ParseDate(s string) (time.Time, error) {
	return dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
}

// Columns returns every column name in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.names...)
}

// HasColumn reports whether the table has a column called name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Table) measurementPositions() []int {
	var pos []int
	for i, name := range t.names {
		if name == IDColumn || name == ScaleColumn {
			continue
		}
		pos = append(pos, i)
	}
	return pos
}

// DateColumns returns the measurement columns whose names parse as dates,
// ascending by date.
func (t *Table) DateColumns() []DateColumn {
	out := make([]DateColumn, len(t.dates))
	copy(out, t.dates)
	return out
}

// Rows returns every row whose id equals id, in file order.
func (t *Table) Rows(id string) []Row {
	var rows []Row
	for i, v := range t.ids {
		if v == id {
			rows = append(rows, Row{table: t, index: i})
		}
	}
	return rows
}

// First returns the first row whose id equals id.
func (t *Table) First(id string) (Row, bool) {
	for i, v := range t.ids {
		if v == id {
			return Row{table: t, index: i}, true
		}
	}
	return Row{}, false
}

// Row is a handle on one data row of a Table.
type Row struct {
	table *Table
	index int
}

// Cell returns the value at column. ok is false when the column does not exist.
func (r Row) Cell(column string) (model.Cell, bool) {
	i, ok := r.table.index[column]
	if !ok {
		return model.Cell{}, false
	}
	return toCell(column, r.table.cols[i].Elem(r.index)), true
}

// Measurements returns every cell except id and scale, in column order.
func (r Row) Measurements() []model.Cell {
	pos := r.table.measurementPositions()
	cells := make([]model.Cell, 0, len(pos))
	for _, i := range pos {
		cells = append(cells, toCell(r.table.names[i], r.table.cols[i].Elem(r.index)))
	}
	return cells
}

func toCell(column string, el series.Element) model.Cell {
	c := model.Cell{Column: column, Raw: el.String()}
	if el.IsNA() {
		return c
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Raw), 64)
	if err != nil || math.IsNaN(v) {
		return c
	}
	c.Value = v
	c.Numeric = true
	return c
}
