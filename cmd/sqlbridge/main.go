package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/queuebridge/sqlbridge/pkg/access"
	"github.com/queuebridge/sqlbridge/pkg/connstr"
	"github.com/queuebridge/sqlbridge/pkg/core/table"
	"github.com/queuebridge/sqlbridge/pkg/handler"
	"github.com/queuebridge/sqlbridge/pkg/sqlserver"
	"github.com/queuebridge/sqlbridge/pkg/xlsx"
)

func main() {
	ctx := context.Background()

	// Parse flags
	flags := ParseFlags()

	// Handle version
	if *flags.Version {
		PrintVersion()
		os.Exit(0)
	}

	// Handle help
	if *flags.Help {
		PrintHelp()
		os.Exit(0)
	}

	// Handle config creation
	if *flags.CreateConfig {
		if err := SaveSampleConfig(*flags.Config); err != nil {
			fatal("Failed to save config: %v", err)
		}
		fmt.Printf("Created sample config: %s\n", *flags.Config)
		fmt.Println("Edit it with your server names and run:")
		fmt.Printf("  sqlbridge --tables --env dev --config %s\n", *flags.Config)
		return
	}

	if !commandWasSpecified(flags) {
		PrintHelp()
		os.Exit(1)
	}

	// Load configuration
	config, store, err := LoadConfig(*flags.Config)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}

	if *flags.Environments {
		for _, env := range store.Environments() {
			fmt.Println(env)
		}
		return
	}

	auditLog, err := BuildAuditLogger(config)
	if err != nil {
		fatal("Failed to open audit log: %v", err)
	}
	defer auditLog.Close()

	opts := []handler.Option{handler.WithAudit(auditLog)}
	if *flags.ReadOnly {
		opts = append(opts, handler.WithReadOnly())
	}

	var cmdErr error
	if *flags.Access != "" {
		cmdErr = runAccess(ctx, flags, opts)
	} else {
		cmdErr = runSQLServer(ctx, flags, store, opts)
	}

	if cmdErr != nil {
		fatal("Command failed: %v", cmdErr)
	}
}

// runSQLServer routes commands over an environment connection.
func runSQLServer(ctx context.Context, flags *Flags, store *connstr.Store, opts []handler.Option) error {
	// Prod connects read-only unless --write is given.
	if strings.EqualFold(*flags.Env, connstr.EnvProd) && !*flags.Write {
		opts = append(opts, handler.WithReadOnly())
	}

	db, err := sqlserver.Connect(ctx, store, *flags.Env, opts...)
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case *flags.Tables:
		result, err := db.Tables(ctx)
		if err != nil {
			return err
		}
		return writeResult(result, *flags.Output)

	case *flags.Views:
		result, err := db.Views(ctx)
		if err != nil {
			return err
		}
		return writeResult(result, *flags.Output)

	case *flags.ViewDef != "":
		definition, err := db.ViewDefinition(ctx, *flags.ViewDef)
		if err != nil {
			return err
		}
		fmt.Println(definition)
		return nil

	default:
		return runCommon(ctx, flags, db.Handler)
	}
}

// runAccess routes commands over an Access file connection.
func runAccess(ctx context.Context, flags *Flags, opts []handler.Option) error {
	dir, file := filepath.Split(*flags.Access)
	if dir == "" {
		dir = "."
	}

	db, err := access.Open(ctx, dir, file, *flags.Password, opts...)
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case *flags.Tables:
		tables, err := db.Tables(ctx)
		if err != nil {
			return err
		}
		for _, name := range tables {
			fmt.Println(name)
		}
		return nil

	case *flags.Views:
		_, err := db.Views(ctx)
		return err

	case *flags.ViewDef != "":
		_, err := db.ViewDefinition(ctx, *flags.ViewDef)
		return err

	default:
		return runCommon(ctx, flags, db.Handler)
	}
}

// runCommon handles the commands shared by both facades.
func runCommon(ctx context.Context, flags *Flags, h *handler.Handler) error {
	switch {
	case *flags.Query != "":
		result, err := h.Query(ctx, *flags.Query)
		if err != nil {
			return err
		}
		return writeResult(result, *flags.Output)

	case *flags.Exec != "":
		return h.Execute(ctx, *flags.Exec)

	case *flags.ImportXLSX != "":
		return importXLSX(ctx, flags, h)
	}
	return nil
}

// importXLSX bulk inserts a workbook sheet into a table.
func importXLSX(ctx context.Context, flags *Flags, h *handler.Handler) error {
	tbl, err := xlsx.FromFile(*flags.ImportXLSX, *flags.Sheet)
	if err != nil {
		return err
	}

	tableName := *flags.Table
	if tableName == "" {
		tableName = tbl.Name
	}

	policy, err := parseNullPolicy(*flags.Nulls)
	if err != nil {
		return err
	}

	if err := h.BulkInsert(ctx, tableName, tbl, handler.BulkInsertOptions{
		NullPolicy:     policy,
		Column:         *flags.Column,
		TextFill:       *flags.Fill,
		IdentityInsert: *flags.IdentityInsert,
	}); err != nil {
		return err
	}

	fmt.Printf("Imported %d rows into %s\n", tbl.NumRows(), tableName)
	return nil
}

// parseNullPolicy maps the --nulls flag to a policy.
func parseNullPolicy(name string) (handler.NullPolicy, error) {
	switch name {
	case "keep", "":
		return handler.NullsKeep, nil
	case "drop":
		return handler.NullsDropRows, nil
	case "isolate":
		return handler.NullsIsolateColumn, nil
	case "fill":
		return handler.NullsFillText, nil
	default:
		return 0, fmt.Errorf("unknown null policy %q (keep, drop, isolate, fill)", name)
	}
}

// writeResult prints a table to stdout, or saves it as a workbook
// when --output names an .xlsx file.
func writeResult(result *table.Table, output string) error {
	if output != "" {
		if err := xlsx.ToFile(result, output, ""); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows to %s\n", result.NumRows(), output)
		return nil
	}
	printTable(result)
	return nil
}

// printTable renders a table as aligned columns. NULLs print as NULL.
func printTable(result *table.Table) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(result.ColumnNames(), "\t"))

	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, value := range row {
			if value == nil {
				cells[i] = "NULL"
			} else {
				cells[i] = fmt.Sprint(value)
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()

	fmt.Printf("(%d rows)\n", result.NumRows())
}

// commandWasSpecified checks if any command was specified
func commandWasSpecified(flags *Flags) bool {
	return *flags.Tables ||
		*flags.Views ||
		*flags.ViewDef != "" ||
		*flags.Query != "" ||
		*flags.Exec != "" ||
		*flags.ImportXLSX != "" ||
		*flags.Environments
}

// fatal prints error and exits
func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
