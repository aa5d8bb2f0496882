package handler

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/queuebridge/sqlbridge/pkg/audit"
	"github.com/queuebridge/sqlbridge/pkg/core/table"
)

// NullPolicy selects how BulkInsert reshapes NULLs before inserting.
type NullPolicy int

const (
	// NullsKeep inserts the rows as they are.
	NullsKeep NullPolicy = iota

	// NullsDropRows removes every row containing a NULL.
	NullsDropRows

	// NullsIsolateColumn splits on one named column's NULLs and
	// issues the insert in up to two passes: non-NULL rows first,
	// then the NULL rows with the column bound as a proper NULL.
	NullsIsolateColumn

	// NullsFillText replaces NULLs in all TEXT columns with a
	// replacement string (empty by default).
	NullsFillText
)

// BulkInsertOptions configures BulkInsert.
type BulkInsertOptions struct {
	NullPolicy NullPolicy

	// Column names the column for NullsIsolateColumn.
	Column string

	// TextFill is the replacement for NullsFillText.
	TextFill string

	// IdentityInsert brackets the batch with SET IDENTITY_INSERT
	// ON/OFF so explicit values can go into an identity column.
	// SQL Server only.
	IdentityInsert bool
}

// BulkInsert inserts all rows of tbl into tableName with one prepared
// statement inside a single transaction. An empty table (before or
// after the null policy) is a no-op.
func (h *Handler) BulkInsert(ctx context.Context, tableName string, tbl *table.Table, opts BulkInsertOptions) error {
	if h.readOnly {
		h.auditLog.LogSuppressed(audit.OpBulkInsert, tableName)
		return ErrReadOnly
	}

	start := time.Now()
	passes, err := applyNullPolicy(tbl, opts)
	if err != nil {
		return err
	}

	inserted := 0
	for _, pass := range passes {
		if err := h.insertRows(ctx, tableName, pass, opts.IdentityInsert); err != nil {
			h.auditLog.LogFailure(audit.OpBulkInsert, tableName, err)
			return err
		}
		inserted += pass.NumRows()
	}

	h.auditLog.LogSuccess(audit.OpBulkInsert, tableName, inserted, time.Since(start))
	return nil
}

// applyNullPolicy reshapes the table per the policy and returns the
// insert passes. Empty passes are dropped.
func applyNullPolicy(tbl *table.Table, opts BulkInsertOptions) ([]*table.Table, error) {
	var passes []*table.Table

	switch opts.NullPolicy {
	case NullsKeep:
		passes = []*table.Table{tbl}

	case NullsDropRows:
		passes = []*table.Table{tbl.DropNullRows()}

	case NullsIsolateColumn:
		if opts.Column == "" {
			return nil, fmt.Errorf("null policy NullsIsolateColumn requires a column name")
		}
		values, nulls, err := tbl.SplitOnNulls(opts.Column)
		if err != nil {
			return nil, err
		}
		passes = []*table.Table{values, nulls}

	case NullsFillText:
		passes = []*table.Table{tbl.FillTextNulls(opts.TextFill)}

	default:
		return nil, fmt.Errorf("invalid null policy %d", opts.NullPolicy)
	}

	out := passes[:0]
	for _, pass := range passes {
		if pass.NumRows() > 0 {
			out = append(out, pass)
		}
	}
	return out, nil
}

// insertRows runs one insert pass: a prepared statement executed per
// row inside a transaction. SET IDENTITY_INSERT is session-scoped, not
// transactional, so the OFF statement must run before commit; a
// rollback does not reset it either, hence the best-effort OFF on the
// error path before the connection goes back to the pool.
func (h *Handler) insertRows(ctx context.Context, tableName string, tbl *table.Table, identityInsert bool) error {
	if tbl.NumRows() == 0 {
		return nil
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if identityInsert {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET IDENTITY_INSERT %s ON", tableName)); err != nil {
			return fmt.Errorf("failed to enable IDENTITY_INSERT: %w", err)
		}
	}

	if err := execRows(ctx, tx, buildInsertSQL(h.dialect, tableName, tbl.ColumnNames()), tbl.Rows); err != nil {
		if identityInsert {
			tx.ExecContext(ctx, fmt.Sprintf("SET IDENTITY_INSERT %s OFF", tableName))
		}
		return err
	}

	if identityInsert {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET IDENTITY_INSERT %s OFF", tableName)); err != nil {
			return fmt.Errorf("failed to disable IDENTITY_INSERT: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// execRows prepares the statement and executes it once per row.
func execRows(ctx context.Context, tx *sql.Tx, stmt string, rows [][]any) error {
	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer prepared.Close()

	for i, row := range rows {
		if _, err := prepared.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}
	return nil
}

// buildInsertSQL builds INSERT INTO t ([a], [b]) VALUES (?, ?).
// Columns are quoted with the dialect; the table name may already be
// schema-qualified by the caller and is passed through.
func buildInsertSQL(d Dialect, tableName string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = d.QuoteIdent(col)
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName,
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "))
}
