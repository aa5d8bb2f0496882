package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/queuebridge/sqlbridge/pkg/audit"
)

// Mode selects how IterExecute treats a failing row.
type Mode string

const (
	// ModeRaise - all rows run in one transaction; the first failure
	// rolls back the whole batch.
	ModeRaise Mode = "raise"

	// ModeIgnore - each row commits independently; failures are
	// recorded in the report and the batch continues.
	ModeIgnore Mode = "ignore"
)

// RowFailure records one failed row of an ignore-mode batch.
type RowFailure struct {
	Index  int
	Values []any
	Err    error
}

// BatchReport summarizes an IterExecute or bulk operation.
type BatchReport struct {
	Total     int
	Succeeded int
	Failures  []RowFailure
}

// Failed returns the number of failed rows.
func (r *BatchReport) Failed() int {
	return len(r.Failures)
}

// IterExecute runs the same parameterized statement once per input
// row. The statement must contain at least one ? marker and each row
// must carry one value per marker.
func (h *Handler) IterExecute(ctx context.Context, stmt string, rows [][]any, mode Mode) (*BatchReport, error) {
	if h.readOnly {
		h.auditLog.LogSuppressed(audit.OpIterExecute, "")
		return nil, ErrReadOnly
	}
	if !strings.Contains(stmt, "?") {
		return nil, fmt.Errorf("statement must be parameterized with ? markers")
	}

	switch mode {
	case ModeRaise:
		return h.iterExecuteRaise(ctx, stmt, rows)
	case ModeIgnore:
		return h.iterExecuteIgnore(ctx, stmt, rows)
	default:
		return nil, fmt.Errorf("invalid mode %q (expected %q or %q)", mode, ModeRaise, ModeIgnore)
	}
}

// iterExecuteRaise runs all rows in a single transaction and aborts
// on the first failure.
func (h *Handler) iterExecuteRaise(ctx context.Context, stmt string, rows [][]any) (*BatchReport, error) {
	start := time.Now()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer prepared.Close()

	for i, row := range rows {
		if _, err := prepared.ExecContext(ctx, row...); err != nil {
			h.auditLog.LogFailure(audit.OpIterExecute, "", err)
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	h.auditLog.LogSuccess(audit.OpIterExecute, "", len(rows), time.Since(start))
	return &BatchReport{Total: len(rows), Succeeded: len(rows)}, nil
}

// iterExecuteIgnore commits each row on its own and collects failures
// instead of stopping.
func (h *Handler) iterExecuteIgnore(ctx context.Context, stmt string, rows [][]any) (*BatchReport, error) {
	start := time.Now()

	prepared, err := h.db.PrepareContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer prepared.Close()

	report := &BatchReport{Total: len(rows)}
	for i, row := range rows {
		if _, err := prepared.ExecContext(ctx, row...); err != nil {
			report.Failures = append(report.Failures, RowFailure{
				Index:  i,
				Values: row,
				Err:    err,
			})
			continue
		}
		report.Succeeded++
	}

	h.auditLog.Log(&audit.Entry{
		Operation: audit.OpIterExecute,
		Status:    batchStatus(report),
		Rows:      report.Succeeded,
		Failed:    report.Failed(),
		Duration:  time.Since(start),
	})
	return report, nil
}

// batchStatus maps a report to an audit status.
func batchStatus(report *BatchReport) audit.Status {
	if report.Failed() == 0 {
		return audit.StatusSuccess
	}
	return audit.StatusFailure
}
