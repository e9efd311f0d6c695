package domain

// FeatureRow is a single-row feature table. A nil value is a null placeholder.
type FeatureRow struct {
	Columns []string
	Values  []any
}

// NewFeatureRow selects and orders values by columns. Columns missing from
// values are filled with nil; values not named in columns are dropped.
func NewFeatureRow(columns []string, values map[string]any) FeatureRow {
	row := FeatureRow{
		Columns: make([]string, len(columns)),
		Values:  make([]any, len(columns)),
	}
	copy(row.Columns, columns)
	for i, col := range columns {
		if v, ok := values[col]; ok {
			row.Values[i] = v
		}
	}
	return row
}

// Get returns the value of a column and whether the column exists.
func (r FeatureRow) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

func (r FeatureRow) Len() int {
	return len(r.Columns)
}
