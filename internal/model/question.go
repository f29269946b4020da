package model

// QueryKind selects one of the query engine operations.
type QueryKind string

const (
	KindLookupCell      QueryKind = "lookup_cell"
	KindRowMean         QueryKind = "row_mean"
	KindBoundedLookup   QueryKind = "bounded_lookup"
	KindMultiAverage    QueryKind = "multi_average"
	KindThresholdFilter QueryKind = "threshold_filter"
)

// Valid reports whether k names a known query.
func (k QueryKind) Valid() bool {
	switch k {
	case KindLookupCell, KindRowMean, KindBoundedLookup, KindMultiAverage, KindThresholdFilter:
		return true
	}
	return false
}

// MultiFile reports whether the query reads every listed file.
func (k QueryKind) MultiFile() bool {
	return k == KindMultiAverage || k == KindThresholdFilter
}

// Question is one configured query against files in the working directory.
type Question struct {
	Kind      QueryKind `yaml:"kind"`
	Files     []string  `yaml:"files"`
	RowID     string    `yaml:"row_id"`
	Column    string    `yaml:"column,omitempty"`
	Date      string    `yaml:"date,omitempty"`
	Threshold float64   `yaml:"threshold,omitempty"`
	Skip      bool      `yaml:"skip,omitempty"`
}
