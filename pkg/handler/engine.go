package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb" // native SQL Server driver for the engine handler

	"github.com/queuebridge/sqlbridge/pkg/audit"
	"github.com/queuebridge/sqlbridge/pkg/core/table"
)

// EngineDriver is the database/sql driver the engine handler opens.
const EngineDriver = "sqlserver"

// EngineHandler swaps the ODBC backend for the native SQL Server
// driver and adds WriteTable: create the destination table from the
// data's schema when it does not exist, then append. The counterpart
// of a data-access engine's "write table" operation.
type EngineHandler struct {
	*Handler
}

// OpenEngine connects with a sqlserver:// DSN. Options may override
// the driver and dialect, which the tests use to run against SQLite.
func OpenEngine(ctx context.Context, dsn string, opts ...Option) (*EngineHandler, error) {
	base := []Option{WithDriver(EngineDriver), WithDialect(&MSSQLDialect{})}
	h, err := Open(ctx, dsn, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return &EngineHandler{Handler: h}, nil
}

// WriteTableOptions configures WriteTable.
type WriteTableOptions struct {
	// IdentityInsert - see BulkInsertOptions.IdentityInsert.
	IdentityInsert bool
}

// WriteTable ensures the table named by tbl.Name exists and appends
// all rows to it.
func (h *EngineHandler) WriteTable(ctx context.Context, tbl *table.Table, opts WriteTableOptions) error {
	if h.readOnly {
		h.auditLog.LogSuppressed(audit.OpWriteTable, tbl.Name)
		return ErrReadOnly
	}
	if tbl.Name == "" {
		return fmt.Errorf("table has no name")
	}

	start := time.Now()
	qualified := h.dialect.QualifyTable(tbl.Name)

	if err := h.ensureTable(ctx, qualified, tbl); err != nil {
		h.auditLog.LogFailure(audit.OpWriteTable, tbl.Name, err)
		return err
	}
	if err := h.insertRows(ctx, qualified, tbl, opts.IdentityInsert); err != nil {
		h.auditLog.LogFailure(audit.OpWriteTable, tbl.Name, err)
		return err
	}

	h.auditLog.LogSuccess(audit.OpWriteTable, tbl.Name, tbl.NumRows(), time.Since(start))
	return nil
}

// ensureTable creates the table when the probe query fails. An empty
// SELECT is the portable existence check: it touches no rows and
// works on every backend the handler runs against.
func (h *EngineHandler) ensureTable(ctx context.Context, qualified string, tbl *table.Table) error {
	probe := fmt.Sprintf("SELECT * FROM %s WHERE 1=0", qualified)
	if rows, err := h.db.QueryContext(ctx, probe); err == nil {
		rows.Close()
		return nil
	}

	ddl := buildCreateTableSQL(h.dialect, qualified, tbl)
	if _, err := h.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tbl.Name, err)
	}
	return nil
}

// buildCreateTableSQL builds a CREATE TABLE statement from the
// table's columns using the dialect's type map.
func buildCreateTableSQL(d Dialect, qualified string, tbl *table.Table) string {
	columns := make([]string, len(tbl.Columns))
	for i, col := range tbl.Columns {
		columns[i] = fmt.Sprintf("%s %s", d.QuoteIdent(col.Name), d.DDLType(col))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)",
		qualified,
		strings.Join(columns, ",\n    "))
}
