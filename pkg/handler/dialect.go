package handler

import (
	"fmt"

	"github.com/queuebridge/sqlbridge/pkg/core/table"
)

// Dialect captures the vendor-specific pieces of SQL generation:
// identifier quoting, table qualification and the DDL type map.
type Dialect interface {
	// Name returns the dialect identifier ("mssql", "standard").
	Name() string

	// QuoteIdent quotes a column or table identifier.
	QuoteIdent(ident string) string

	// QualifyTable returns the schema-qualified, quoted table name.
	QualifyTable(name string) string

	// DDLType returns the column type for CREATE TABLE.
	DDLType(col table.Column) string
}

// ========== MS SQL Server ==========

// MSSQLDialect generates T-SQL: [bracket] quoting, dbo schema
// qualification, SQL Server 2012+ types.
type MSSQLDialect struct {
	// Schema is the default schema, "dbo" when empty.
	Schema string
}

func (d *MSSQLDialect) Name() string { return "mssql" }

func (d *MSSQLDialect) QuoteIdent(ident string) string {
	return fmt.Sprintf("[%s]", ident)
}

func (d *MSSQLDialect) QualifyTable(name string) string {
	schema := d.Schema
	if schema == "" {
		schema = "dbo"
	}
	return fmt.Sprintf("[%s].[%s]", schema, name)
}

func (d *MSSQLDialect) DDLType(col table.Column) string {
	switch col.Type {
	case table.TypeInteger:
		return "BIGINT"
	case table.TypeReal:
		return "FLOAT"
	case table.TypeBoolean:
		return "BIT"
	case table.TypeDatetime:
		return "DATETIME2"
	case table.TypeBlob:
		return "VARBINARY(MAX)"
	default:
		// NVARCHAR for Unicode support
		return "NVARCHAR(MAX)"
	}
}

// ========== Standard SQL ==========

// StandardDialect generates portable SQL with double-quote quoting
// and plain type names. Used against SQLite in tests.
type StandardDialect struct{}

func (d *StandardDialect) Name() string { return "standard" }

func (d *StandardDialect) QuoteIdent(ident string) string {
	return fmt.Sprintf("%q", ident)
}

func (d *StandardDialect) QualifyTable(name string) string {
	return name
}

func (d *StandardDialect) DDLType(col table.Column) string {
	switch col.Type {
	case table.TypeInteger, table.TypeBoolean:
		return "INTEGER"
	case table.TypeReal:
		return "REAL"
	case table.TypeBlob:
		return "BLOB"
	default:
		return "TEXT"
	}
}
