// Package access is the Microsoft Access facade: file-based ODBC
// connections with the same handler contract as the SQL Server
// facade, plus file introspection.
//
// Access has no sys catalog. Table listing reads the MSysObjects
// system table and column listing probes the table with an empty
// SELECT; views are not supported through the Access ODBC driver.
package access

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/alexbrainman/odbc" // Microsoft Access Driver connections

	"github.com/queuebridge/sqlbridge/pkg/connstr"
	"github.com/queuebridge/sqlbridge/pkg/handler"
)

// ErrNotSupported is returned for operations Access has no
// counterpart for (views and view definitions).
var ErrNotSupported = errors.New("operation not supported by Access databases")

// FileInfo describes the database file behind a connection.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Database is a handler bound to one Access database file.
type Database struct {
	*handler.Handler

	info FileInfo
}

// Open connects to the .mdb/.accdb file at dir/filename. Password may
// be empty. The file must exist: the Access ODBC driver would
// otherwise create an unusable handle.
func Open(ctx context.Context, dir, filename, password string, opts ...handler.Option) (*Database, error) {
	return openDSN(ctx, filepath.Join(dir, filename), connstr.BuildAccess(dir, filename, password), opts...)
}

// openDSN stats the file and opens the handler. Split from Open so
// tests can substitute the driver and DSN.
func openDSN(ctx context.Context, path, dsn string, opts ...handler.Option) (*Database, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("database file: %w", err)
	}

	h, err := handler.Open(ctx, dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", path, err)
	}

	return &Database{
		Handler: h,
		info: FileInfo{
			Path:    path,
			Size:    stat.Size(),
			ModTime: stat.ModTime(),
		},
	}, nil
}

// FileInfo returns path, size and modification time captured at Open.
func (d *Database) FileInfo() FileInfo {
	return d.info
}

// ========== Metadata ==========

// Tables lists user table names via the MSysObjects system table.
// Type 1 is a local table, 6 a linked one; the Flags filter excludes
// system-internal rows.
func (d *Database) Tables(ctx context.Context) ([]string, error) {
	rows, err := d.QueryRows(ctx, `
		SELECT Name FROM MSysObjects
		WHERE Type IN (1, 6)
		  AND Flags = 0
		  AND Name NOT LIKE 'MSys%'
	`)
	if err != nil {
		// MSysObjects is unreadable unless the Admin user has been
		// granted read permission on it in the Access file.
		return nil, fmt.Errorf("failed to list tables (is MSysObjects readable?): %w", err)
	}

	tables := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row[0].(string); ok {
			tables = append(tables, name)
		}
	}
	return tables, nil
}

// TableColumns lists the column names of a table using an empty
// SELECT, which returns schema without touching rows.
func (d *Database) TableColumns(ctx context.Context, tableName string) ([]string, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	result, err := d.Query(ctx, fmt.Sprintf("SELECT * FROM [%s] WHERE 1=0", tableName))
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", tableName, err)
	}
	return result.ColumnNames(), nil
}

// AllColumns maps every user table to its column names.
func (d *Database) AllColumns(ctx context.Context) (map[string][]string, error) {
	tables, err := d.Tables(ctx)
	if err != nil {
		return nil, err
	}

	all := make(map[string][]string, len(tables))
	for _, tableName := range tables {
		columns, err := d.TableColumns(ctx, tableName)
		if err != nil {
			return nil, err
		}
		all[tableName] = columns
	}
	return all, nil
}

// Views is not available through the Access ODBC driver.
func (d *Database) Views(context.Context) ([]string, error) {
	return nil, ErrNotSupported
}

// ViewDefinition is not available through the Access ODBC driver.
func (d *Database) ViewDefinition(context.Context, string) (string, error) {
	return "", ErrNotSupported
}

// validateTableName rejects names that would escape the [bracket]
// quoting. Access table names may contain spaces, so only the
// dangerous characters are refused.
func validateTableName(name string) error {
	if name == "" || strings.ContainsAny(name, "[];") {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}
