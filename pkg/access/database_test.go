package access

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	_ "modernc.org/sqlite" // file-backed stand-in database

	"github.com/queuebridge/sqlbridge/pkg/handler"
)

// newTestDatabase opens a file-backed SQLite database through the
// facade so the file handling and probe queries can run without an
// Access ODBC driver.
func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	path := filepath.Join(t.TempDir(), "crm.db")
	// A zero-length file is a valid empty SQLite database.
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	db, err := openDSN(context.Background(), path, path, handler.WithDriver("sqlite"))
	if err != nil {
		t.Fatalf("openDSN() error = %v", err)
	}
	db.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(context.Background(), t.TempDir(), "missing.accdb", "")
	if err == nil {
		t.Fatal("Open() with missing file: expected error, got nil")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestFileInfo(t *testing.T) {
	db := newTestDatabase(t)

	info := db.FileInfo()
	if !strings.HasSuffix(info.Path, "crm.db") {
		t.Errorf("Path = %q, want the database file path", info.Path)
	}
	if info.ModTime.IsZero() {
		t.Error("ModTime is zero")
	}
}

func TestTableColumns(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	if err := db.Execute(ctx, "CREATE TABLE contacts (id INTEGER, name TEXT, phone TEXT)"); err != nil {
		t.Fatal(err)
	}

	columns, err := db.TableColumns(ctx, "contacts")
	if err != nil {
		t.Fatalf("TableColumns() error = %v", err)
	}
	want := []string{"id", "name", "phone"}
	if !reflect.DeepEqual(columns, want) {
		t.Errorf("TableColumns() = %v, want %v", columns, want)
	}
}

func TestTableColumnsUnknownTable(t *testing.T) {
	db := newTestDatabase(t)

	if _, err := db.TableColumns(context.Background(), "missing"); err == nil {
		t.Error("TableColumns(missing): expected error, got nil")
	}
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{"plain", "Contacts", false},
		{"with space", "Customer Orders", false},
		{"empty", "", true},
		{"bracket escape", "t]; DROP TABLE x", true},
		{"semicolon", "t;", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.table)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateTableName(%q) error = %v, wantErr %v", tt.table, err, tt.wantErr)
			}
		})
	}
}

func TestViewsNotSupported(t *testing.T) {
	db := newTestDatabase(t)

	if _, err := db.Views(context.Background()); !errors.Is(err, ErrNotSupported) {
		t.Errorf("Views() error = %v, want ErrNotSupported", err)
	}
	if _, err := db.ViewDefinition(context.Background(), "v"); !errors.Is(err, ErrNotSupported) {
		t.Errorf("ViewDefinition() error = %v, want ErrNotSupported", err)
	}
}
