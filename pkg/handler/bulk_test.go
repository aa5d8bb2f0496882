package handler

import (
	"context"
	"testing"

	"github.com/queuebridge/sqlbridge/pkg/core/table"
)

func peopleTable() *table.Table {
	tbl := table.New("people",
		table.Column{Name: "id", Type: table.TypeInteger},
		table.Column{Name: "name", Type: table.TypeText},
		table.Column{Name: "email", Type: table.TypeText},
	)
	tbl.AppendRow(int64(1), "Mary", "mary@example.com")
	tbl.AppendRow(int64(2), "Bob", nil)
	tbl.AppendRow(int64(3), nil, nil)
	return tbl
}

func createPeople(t *testing.T, h *Handler) {
	t.Helper()
	mustExec(t, h, "CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT, email TEXT)")
}

func TestBulkInsertKeepNulls(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()
	createPeople(t, h)

	if err := h.BulkInsert(ctx, "people", peopleTable(), BulkInsertOptions{}); err != nil {
		t.Fatalf("BulkInsert() error = %v", err)
	}

	if got := countRows(t, h, "people"); got != 3 {
		t.Errorf("row count = %d, want 3", got)
	}
	rows, err := h.QueryRows(ctx, "SELECT COUNT(*) FROM people WHERE email IS NULL")
	if err != nil {
		t.Fatal(err)
	}
	if rows[0][0].(int64) != 2 {
		t.Errorf("NULL emails = %v, want 2", rows[0][0])
	}
}

func TestBulkInsertDropRows(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()
	createPeople(t, h)

	err := h.BulkInsert(ctx, "people", peopleTable(), BulkInsertOptions{NullPolicy: NullsDropRows})
	if err != nil {
		t.Fatalf("BulkInsert() error = %v", err)
	}

	if got := countRows(t, h, "people"); got != 1 {
		t.Errorf("row count = %d, want 1 (rows with NULLs dropped)", got)
	}
}

func TestBulkInsertFillText(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()
	createPeople(t, h)

	err := h.BulkInsert(ctx, "people", peopleTable(), BulkInsertOptions{NullPolicy: NullsFillText})
	if err != nil {
		t.Fatalf("BulkInsert() error = %v", err)
	}

	if got := countRows(t, h, "people"); got != 3 {
		t.Fatalf("row count = %d, want 3", got)
	}
	rows, err := h.QueryRows(ctx, "SELECT COUNT(*) FROM people WHERE email = '' AND name IS NOT NULL")
	if err != nil {
		t.Fatal(err)
	}
	if rows[0][0].(int64) != 2 {
		t.Errorf("filled text cells = %v, want 2", rows[0][0])
	}
}

func TestBulkInsertIsolateColumn(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()
	createPeople(t, h)

	err := h.BulkInsert(ctx, "people", peopleTable(), BulkInsertOptions{
		NullPolicy: NullsIsolateColumn,
		Column:     "email",
	})
	if err != nil {
		t.Fatalf("BulkInsert() error = %v", err)
	}

	// Both passes land: non-NULL emails first, NULL emails second.
	if got := countRows(t, h, "people"); got != 3 {
		t.Errorf("row count = %d, want 3", got)
	}
}

func TestBulkInsertIsolateColumnRequiresName(t *testing.T) {
	h := newTestHandler(t)
	createPeople(t, h)

	err := h.BulkInsert(context.Background(), "people", peopleTable(),
		BulkInsertOptions{NullPolicy: NullsIsolateColumn})
	if err == nil {
		t.Error("BulkInsert() without column name: expected error, got nil")
	}
}

func TestBulkInsertUnknownColumn(t *testing.T) {
	h := newTestHandler(t)
	createPeople(t, h)

	err := h.BulkInsert(context.Background(), "people", peopleTable(), BulkInsertOptions{
		NullPolicy: NullsIsolateColumn,
		Column:     "missing",
	})
	if err == nil {
		t.Error("BulkInsert() with unknown column: expected error, got nil")
	}
}

func TestBulkInsertEmptyTable(t *testing.T) {
	h := newTestHandler(t)
	createPeople(t, h)

	empty := table.New("people",
		table.Column{Name: "id", Type: table.TypeInteger},
		table.Column{Name: "name", Type: table.TypeText},
		table.Column{Name: "email", Type: table.TypeText},
	)
	if err := h.BulkInsert(context.Background(), "people", empty, BulkInsertOptions{}); err != nil {
		t.Errorf("BulkInsert() on empty table: error = %v, want nil", err)
	}
	if got := countRows(t, h, "people"); got != 0 {
		t.Errorf("row count = %d, want 0", got)
	}
}

func TestBulkInsertRollsBackOnFailure(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()
	createPeople(t, h)

	tbl := table.New("people",
		table.Column{Name: "id", Type: table.TypeInteger},
		table.Column{Name: "name", Type: table.TypeText},
		table.Column{Name: "email", Type: table.TypeText},
	)
	tbl.AppendRow(int64(1), "Mary", "a@example.com")
	tbl.AppendRow(int64(1), "Duplicate", "b@example.com")

	if err := h.BulkInsert(ctx, "people", tbl, BulkInsertOptions{}); err == nil {
		t.Fatal("BulkInsert() with duplicate key: expected error, got nil")
	}
	if got := countRows(t, h, "people"); got != 0 {
		t.Errorf("row count after failed bulk insert = %d, want 0", got)
	}
}

func TestBulkInsertQuotesColumnNames(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()
	// Quoted DDL can create such a column; the insert must quote it too.
	mustExec(t, h, `CREATE TABLE contacts (id INTEGER, "full name" TEXT)`)

	tbl := table.New("contacts",
		table.Column{Name: "id", Type: table.TypeInteger},
		table.Column{Name: "full name", Type: table.TypeText},
	)
	tbl.AppendRow(int64(1), "Mary Major")

	if err := h.BulkInsert(ctx, "contacts", tbl, BulkInsertOptions{}); err != nil {
		t.Fatalf("BulkInsert() error = %v", err)
	}
	if got := countRows(t, h, "contacts"); got != 1 {
		t.Errorf("row count = %d, want 1", got)
	}
}

func TestBuildInsertSQL(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		columns []string
		want    string
	}{
		{
			"mssql",
			&MSSQLDialect{},
			[]string{"id", "name"},
			"INSERT INTO dbo.users ([id], [name]) VALUES (?, ?)",
		},
		{
			"mssql space in column",
			&MSSQLDialect{},
			[]string{"id", "full name"},
			"INSERT INTO dbo.users ([id], [full name]) VALUES (?, ?)",
		},
		{
			"standard",
			&StandardDialect{},
			[]string{"id", "name"},
			`INSERT INTO dbo.users ("id", "name") VALUES (?, ?)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildInsertSQL(tt.dialect, "dbo.users", tt.columns)
			if got != tt.want {
				t.Errorf("buildInsertSQL() = %q, want %q", got, tt.want)
			}
		})
	}
}
