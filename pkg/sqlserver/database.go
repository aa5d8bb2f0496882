// Package sqlserver is the SQL Server facade: named constructors per
// environment and metadata queries against the system catalogs.
package sqlserver

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/alexbrainman/odbc" // ODBC Driver 17 connections

	"github.com/queuebridge/sqlbridge/pkg/connstr"
	"github.com/queuebridge/sqlbridge/pkg/core/table"
	"github.com/queuebridge/sqlbridge/pkg/handler"
)

// Database is a handler bound to one SQL Server environment.
type Database struct {
	*handler.Handler

	env string
}

// Connect opens the named environment from the store.
func Connect(ctx context.Context, store *connstr.Store, env string, opts ...handler.Option) (*Database, error) {
	dsn, err := store.Get(env)
	if err != nil {
		return nil, err
	}

	h, err := handler.Open(ctx, dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("environment %s: %w", env, err)
	}
	return &Database{Handler: h, env: env}, nil
}

// Local opens the local environment read-write.
func Local(ctx context.Context, store *connstr.Store, opts ...handler.Option) (*Database, error) {
	return Connect(ctx, store, connstr.EnvLocal, opts...)
}

// Dev opens the dev environment read-write.
func Dev(ctx context.Context, store *connstr.Store, opts ...handler.Option) (*Database, error) {
	return Connect(ctx, store, connstr.EnvDev, opts...)
}

// QA opens the qa environment read-write.
func QA(ctx context.Context, store *connstr.Store, opts ...handler.Option) (*Database, error) {
	return Connect(ctx, store, connstr.EnvQA, opts...)
}

// Prod opens the prod environment read-only. Use Connect directly for
// a writable production handle.
func Prod(ctx context.Context, store *connstr.Store, opts ...handler.Option) (*Database, error) {
	return Connect(ctx, store, connstr.EnvProd,
		append([]handler.Option{handler.WithReadOnly()}, opts...)...)
}

// Environment returns the environment this database was opened from.
func (d *Database) Environment() string {
	return d.env
}

// ========== Metadata ==========

// Tables lists the user tables of the dbo schema.
func (d *Database) Tables(ctx context.Context) (*table.Table, error) {
	return d.Query(ctx, `
		SELECT * FROM sys.tables
		WHERE SCHEMA_NAME(schema_id) = 'dbo'
	`)
}

// Views lists the views of the database.
func (d *Database) Views(ctx context.Context) (*table.Table, error) {
	return d.Query(ctx, `
		SELECT * FROM sys.objects
		WHERE type_desc = 'VIEW'
	`)
}

// ViewDefinition returns the T-SQL source of a view via sp_helptext.
// The name goes into an EXEC and is validated as a plain object name
// first.
func (d *Database) ViewDefinition(ctx context.Context, viewName string) (string, error) {
	if err := validateObjectName(viewName); err != nil {
		return "", err
	}

	result, err := d.Query(ctx, fmt.Sprintf("EXEC sp_helptext %s", viewName))
	if err != nil {
		return "", fmt.Errorf("view %s: %w", viewName, err)
	}

	lines := make([]string, 0, result.NumRows())
	for _, row := range result.Rows {
		if text, ok := row[0].(string); ok {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, ""), nil
}

// TableExists checks the dbo schema for a base table.
func (d *Database) TableExists(ctx context.Context, tableName string) (bool, error) {
	rows, err := d.QueryRows(ctx, `
		SELECT COUNT(*)
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = 'dbo'
		  AND TABLE_NAME = ?
		  AND TABLE_TYPE = 'BASE TABLE'
	`, tableName)
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}

	count, ok := rows[0][0].(int64)
	if !ok {
		return false, fmt.Errorf("unexpected count type %T", rows[0][0])
	}
	return count > 0, nil
}

// ServerVersion returns the SQL Server product version string.
func (d *Database) ServerVersion(ctx context.Context) (string, error) {
	rows, err := d.QueryRows(ctx, "SELECT SERVERPROPERTY('ProductVersion')")
	if err != nil {
		return "", fmt.Errorf("failed to get server version: %w", err)
	}

	switch v := rows[0][0].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// objectNamePattern matches an optionally schema-qualified object
// name. sp_helptext cannot take a bind parameter, so anything else is
// rejected before interpolation.
var objectNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func validateObjectName(name string) error {
	if !objectNamePattern.MatchString(name) {
		return fmt.Errorf("invalid object name %q", name)
	}
	return nil
}
