package table

import (
	"fmt"
	"strings"
)

// Type identifies the logical type of a column.
type Type string

const (
	TypeText     Type = "TEXT"
	TypeInteger  Type = "INTEGER"
	TypeReal     Type = "REAL"
	TypeBoolean  Type = "BOOLEAN"
	TypeDatetime Type = "DATETIME"
	TypeBlob     Type = "BLOB"
)

// Column describes one column of a table.
type Column struct {
	Name string
	Type Type
}

// Table is an in-memory row set: the unit of data exchanged with the
// database handlers. A nil cell represents SQL NULL.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// New creates an empty table with the given columns.
func New(name string, columns ...Column) *Table {
	return &Table{
		Name:    name,
		Columns: columns,
	}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// ColumnNames returns column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// ColumnIndex returns the position of the named column.
// The lookup is case-insensitive, matching SQL identifier semantics.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown column %q (columns: %s)",
		name, strings.Join(t.ColumnNames(), ", "))
}

// AppendRow adds one row. The number of values must match the number
// of columns.
func (t *Table) AppendRow(values ...any) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("row has %d values, table %q has %d columns",
			len(values), t.Name, len(t.Columns))
	}
	t.Rows = append(t.Rows, values)
	return nil
}

// Clone returns a deep copy: shared row slices would let the null
// policies mutate the caller's data.
func (t *Table) Clone() *Table {
	clone := &Table{
		Name:    t.Name,
		Columns: make([]Column, len(t.Columns)),
		Rows:    make([][]any, len(t.Rows)),
	}
	copy(clone.Columns, t.Columns)
	for i, row := range t.Rows {
		clone.Rows[i] = make([]any, len(row))
		copy(clone.Rows[i], row)
	}
	return clone
}
