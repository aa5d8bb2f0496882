package handler

import (
	"context"
	"errors"
	"testing"

	_ "modernc.org/sqlite" // in-memory test database

	"github.com/queuebridge/sqlbridge/pkg/core/table"
)

// newTestHandler opens an in-memory SQLite database. One connection
// only: every pool connection would otherwise get its own :memory:
// database.
func newTestHandler(t *testing.T, opts ...Option) *Handler {
	t.Helper()

	opts = append([]Option{WithDriver("sqlite"), WithDialect(&StandardDialect{})}, opts...)
	h, err := Open(context.Background(), ":memory:", opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	h.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { h.Close() })
	return h
}

func mustExec(t *testing.T, h *Handler, stmt string, params ...any) {
	t.Helper()
	if err := h.Execute(context.Background(), stmt, params...); err != nil {
		t.Fatalf("Execute(%q) error = %v", stmt, err)
	}
}

func countRows(t *testing.T, h *Handler, tableName string) int {
	t.Helper()
	rows, err := h.QueryRows(context.Background(), "SELECT COUNT(*) FROM "+tableName)
	if err != nil {
		t.Fatalf("count query error = %v", err)
	}
	n, ok := rows[0][0].(int64)
	if !ok {
		t.Fatalf("count is %T, want int64", rows[0][0])
	}
	return int(n)
}

func TestQueryReturnsTable(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	mustExec(t, h, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, score REAL)")
	mustExec(t, h, "INSERT INTO users (id, name, score) VALUES (?, ?, ?)", 1, "Mary", 9.5)
	mustExec(t, h, "INSERT INTO users (id, name, score) VALUES (?, ?, ?)", 2, "Bob", nil)

	result, err := h.Query(ctx, "SELECT id, name, score FROM users ORDER BY id")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if got := result.NumRows(); got != 2 {
		t.Fatalf("NumRows() = %d, want 2", got)
	}
	wantColumns := []struct {
		name string
		typ  table.Type
	}{
		{"id", table.TypeInteger},
		{"name", table.TypeText},
		{"score", table.TypeReal},
	}
	for i, want := range wantColumns {
		if result.Columns[i].Name != want.name || result.Columns[i].Type != want.typ {
			t.Errorf("column %d = %s/%s, want %s/%s",
				i, result.Columns[i].Name, result.Columns[i].Type, want.name, want.typ)
		}
	}
	if result.Rows[0][1] != "Mary" {
		t.Errorf("row 0 name = %v (%T), want Mary", result.Rows[0][1], result.Rows[0][1])
	}
	if result.Rows[1][2] != nil {
		t.Errorf("row 1 score = %v, want nil for NULL", result.Rows[1][2])
	}
}

func TestQueryWithParameters(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	mustExec(t, h, "CREATE TABLE users (id INTEGER, name TEXT)")
	mustExec(t, h, "INSERT INTO users VALUES (1, 'Mary'), (2, 'Bob')")

	rows, err := h.QueryRows(ctx, "SELECT name FROM users WHERE id = ?", 2)
	if err != nil {
		t.Fatalf("QueryRows() error = %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "Bob" {
		t.Errorf("QueryRows() = %v, want one row with Bob", rows)
	}
}

func TestReadOnlyGuard(t *testing.T) {
	h := newTestHandler(t, WithReadOnly())
	ctx := context.Background()

	if err := h.Execute(ctx, "CREATE TABLE t (a TEXT)"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Execute() error = %v, want ErrReadOnly", err)
	}
	if _, err := h.IterExecute(ctx, "INSERT INTO t VALUES (?)", nil, ModeRaise); !errors.Is(err, ErrReadOnly) {
		t.Errorf("IterExecute() error = %v, want ErrReadOnly", err)
	}
	tbl := table.New("t", table.Column{Name: "a", Type: table.TypeText})
	if err := h.BulkInsert(ctx, "t", tbl, BulkInsertOptions{}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("BulkInsert() error = %v, want ErrReadOnly", err)
	}

	// The read path stays open.
	if _, err := h.Query(ctx, "SELECT 1"); err != nil {
		t.Errorf("Query() on read-only handler: error = %v", err)
	}
}

func TestExecute(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	mustExec(t, h, "CREATE TABLE t (a INTEGER)")
	mustExec(t, h, "INSERT INTO t VALUES (?)", 42)

	if got := countRows(t, h, "t"); got != 1 {
		t.Errorf("row count = %d, want 1", got)
	}

	if err := h.Execute(ctx, "INSERT INTO missing VALUES (1)"); err == nil {
		t.Error("Execute() against missing table: expected error, got nil")
	}
}
