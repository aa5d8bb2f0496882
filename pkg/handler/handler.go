package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/queuebridge/sqlbridge/pkg/audit"
	"github.com/queuebridge/sqlbridge/pkg/core/table"
)

// DefaultDriver is the database/sql driver the base handler opens.
// The ODBC driver covers both SQL Server and Access connection
// strings.
const DefaultDriver = "odbc"

// ErrReadOnly is returned by mutating operations on a handler that
// was opened read-only.
var ErrReadOnly = errors.New("handler is read-only")

// Handler performs queries and mutations over a database/sql pool.
// Mutating operations are gated by the read-only flag; Query is not.
type Handler struct {
	driver   string
	dsn      string
	readOnly bool
	auditLog *audit.Logger
	dialect  Dialect

	db *sql.DB
}

// Option configures a Handler before it connects.
type Option func(*Handler)

// WithReadOnly disables Execute, IterExecute, BulkInsert and
// WriteTable on the handler.
func WithReadOnly() Option {
	return func(h *Handler) { h.readOnly = true }
}

// WithAudit attaches an audit logger. Operations are recorded with
// their outcome; suppressed read-only calls are recorded too.
func WithAudit(logger *audit.Logger) Option {
	return func(h *Handler) { h.auditLog = logger }
}

// WithDriver selects a different database/sql driver. Used by the
// engine handler and by tests.
func WithDriver(name string) Option {
	return func(h *Handler) { h.driver = name }
}

// WithDialect selects the SQL dialect used for DDL generation and
// identifier quoting.
func WithDialect(d Dialect) Option {
	return func(h *Handler) { h.dialect = d }
}

// Open connects with the given connection string and verifies the
// connection with a ping.
func Open(ctx context.Context, dsn string, opts ...Option) (*Handler, error) {
	h := &Handler{
		driver:  DefaultDriver,
		dsn:     dsn,
		dialect: &MSSQLDialect{},
	}
	for _, opt := range opts {
		opt(h)
	}

	db, err := sql.Open(h.driver, h.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		h.auditLog.LogFailure(audit.OpConnect, "", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	h.db = db
	h.auditLog.LogSuccess(audit.OpConnect, "", 0, 0)
	return h, nil
}

// Close releases the connection pool.
func (h *Handler) Close() error {
	if h.db == nil {
		return nil
	}
	h.auditLog.LogSuccess(audit.OpDisconnect, "", 0, 0)
	return h.db.Close()
}

// Ping verifies the connection is still usable.
func (h *Handler) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

// ReadOnly reports whether mutating operations are disabled.
func (h *Handler) ReadOnly() bool {
	return h.readOnly
}

// DB exposes the underlying pool for operations this package does not
// cover.
func (h *Handler) DB() *sql.DB {
	return h.db
}

// ========== Read path ==========

// Query runs a read statement and returns the result as a table.
// Parameters bind to ? markers. Query never consults the read-only
// flag.
func (h *Handler) Query(ctx context.Context, stmt string, params ...any) (*table.Table, error) {
	start := time.Now()

	rows, err := h.db.QueryContext(ctx, stmt, params...)
	if err != nil {
		h.auditLog.LogFailure(audit.OpQuery, "", err)
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	result, err := scanTable(rows)
	if err != nil {
		h.auditLog.LogFailure(audit.OpQuery, "", err)
		return nil, err
	}

	h.auditLog.LogSuccess(audit.OpQuery, "", result.NumRows(), time.Since(start))
	return result, nil
}

// QueryRows runs a read statement and returns the bare rows, without
// column metadata.
func (h *Handler) QueryRows(ctx context.Context, stmt string, params ...any) ([][]any, error) {
	result, err := h.Query(ctx, stmt, params...)
	if err != nil {
		return nil, err
	}
	return result.Rows, nil
}

// ========== Write path ==========

// Execute runs one mutating statement. On a read-only handler it
// returns ErrReadOnly without touching the database.
func (h *Handler) Execute(ctx context.Context, stmt string, params ...any) error {
	if h.readOnly {
		h.auditLog.LogSuppressed(audit.OpExecute, "")
		return ErrReadOnly
	}

	if _, err := h.db.ExecContext(ctx, stmt, params...); err != nil {
		h.auditLog.LogFailure(audit.OpExecute, "", err)
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	h.auditLog.LogSuccess(audit.OpExecute, "", 0, 0)
	return nil
}
