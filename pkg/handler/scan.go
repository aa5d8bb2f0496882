package handler

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/queuebridge/sqlbridge/pkg/core/table"
)

// scanTable reads an entire result set into a table. Column types are
// derived from the driver's reported database type names.
func scanTable(rows *sql.Rows) (*table.Table, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}

	result := &table.Table{Columns: make([]table.Column, len(names))}
	for i, name := range names {
		result.Columns[i] = table.Column{
			Name: name,
			Type: columnTypeFromSQL(columnTypes[i].DatabaseTypeName()),
		}
	}

	scanArgs := make([]any, len(names))
	for rows.Next() {
		values := make([]any, len(names))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i := range values {
			values[i] = normalizeValue(values[i], result.Columns[i].Type)
		}
		result.Rows = append(result.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}
	return result, nil
}

// columnTypeFromSQL maps a driver type name to a table type.
// Contains-based matching covers vendor variants (NVARCHAR, BIGINT,
// DATETIME2, ...).
func columnTypeFromSQL(sqlType string) table.Type {
	sqlType = strings.ToUpper(sqlType)

	switch {
	case strings.Contains(sqlType, "INT"):
		return table.TypeInteger
	case strings.Contains(sqlType, "FLOAT"), strings.Contains(sqlType, "REAL"),
		strings.Contains(sqlType, "DOUBLE"), strings.Contains(sqlType, "DECIMAL"),
		strings.Contains(sqlType, "NUMERIC"), strings.Contains(sqlType, "MONEY"):
		return table.TypeReal
	case strings.Contains(sqlType, "BIT"), strings.Contains(sqlType, "BOOL"):
		return table.TypeBoolean
	case strings.Contains(sqlType, "DATE"), strings.Contains(sqlType, "TIME"):
		return table.TypeDatetime
	case strings.Contains(sqlType, "BINARY"), strings.Contains(sqlType, "IMAGE"),
		strings.Contains(sqlType, "BLOB"):
		return table.TypeBlob
	default:
		return table.TypeText
	}
}

// normalizeValue makes scanned values driver-independent: byte slices
// become strings except in BLOB columns, where the raw bytes are the
// value.
func normalizeValue(v any, t table.Type) any {
	if b, ok := v.([]byte); ok && t != table.TypeBlob {
		return string(b)
	}
	return v
}
