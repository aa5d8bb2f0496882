package table

// Null-handling policies applied to a table before it is bulk-inserted.
// All of them return new tables and leave the receiver untouched.

// rowHasNull reports whether any cell in the row is NULL.
func rowHasNull(row []any) bool {
	for _, v := range row {
		if v == nil {
			return true
		}
	}
	return false
}

// DropNullRows returns a copy of the table without any row that
// contains a NULL in any column.
func (t *Table) DropNullRows() *Table {
	out := &Table{Name: t.Name, Columns: t.Columns}
	for _, row := range t.Rows {
		if !rowHasNull(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// FillColumn returns a copy of the table with NULLs in the named
// column replaced by repl.
func (t *Table) FillColumn(name string, repl any) (*Table, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	out := t.Clone()
	for _, row := range out.Rows {
		if row[idx] == nil {
			row[idx] = repl
		}
	}
	return out, nil
}

// FillTextNulls returns a copy of the table with NULLs in every TEXT
// column replaced by repl. NULLs in non-text columns are kept: drivers
// handle them, while a NULL in a text column tends to surface as
// encoding garbage on the server side.
func (t *Table) FillTextNulls(repl string) *Table {
	out := t.Clone()
	for _, row := range out.Rows {
		for i, col := range out.Columns {
			if col.Type == TypeText && row[i] == nil {
				row[i] = repl
			}
		}
	}
	return out
}

// SplitOnNulls partitions the table by the named column: the first
// result holds rows where the column is non-NULL, the second the rows
// where it is NULL. Used to issue a bulk insert in two passes when one
// column's NULLs are the only problem.
func (t *Table) SplitOnNulls(name string) (values, nulls *Table, err error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, nil, err
	}

	values = &Table{Name: t.Name, Columns: t.Columns}
	nulls = &Table{Name: t.Name, Columns: t.Columns}
	for _, row := range t.Rows {
		if row[idx] == nil {
			nulls.Rows = append(nulls.Rows, row)
		} else {
			values.Rows = append(values.Rows, row)
		}
	}
	return values, nulls, nil
}
