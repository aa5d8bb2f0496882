package main

import "flag"

// Flags holds all command-line flags
type Flags struct {
	// Commands
	Tables       *bool
	Views        *bool
	ViewDef      *string
	Query        *string
	Exec         *string
	ImportXLSX   *string
	Environments *bool

	// Connection
	Env      *string
	Access   *string // Access database file path (overrides --env)
	Password *string
	ReadOnly *bool
	Write    *bool // open prod read-write

	// Import options
	Table          *string
	Sheet          *string
	Nulls          *string
	Column         *string
	Fill           *string
	IdentityInsert *bool

	// Options
	Config *string
	Output *string

	// Config Creation
	CreateConfig *bool

	// Misc
	Version *bool
	Help    *bool
}

// ParseFlags defines and parses all command-line flags
func ParseFlags() *Flags {
	f := &Flags{}

	// Commands
	f.Tables = flag.Bool("tables", false, "List user tables")
	f.Views = flag.Bool("views", false, "List views")
	f.ViewDef = flag.String("viewdef", "", "Print the T-SQL definition of a view (view name)")
	f.Query = flag.String("query", "", "Run a SELECT and print the result")
	f.Exec = flag.String("exec", "", "Run a mutating statement")
	f.ImportXLSX = flag.String("import-xlsx", "", "Bulk insert an Excel workbook into a table (file path)")
	f.Environments = flag.Bool("environments", false, "List configured environments")

	// Connection
	f.Env = flag.String("env", "dev", "Environment to connect to: local, dev, qa, prod")
	f.Access = flag.String("access", "", "Connect to a Microsoft Access file instead of an environment")
	f.Password = flag.String("password", "", "Access database password")
	f.ReadOnly = flag.Bool("read-only", false, "Refuse mutating statements on this connection")
	f.Write = flag.Bool("write", false, "Open prod read-write (prod is read-only by default)")

	// Import options
	f.Table = flag.String("table", "", "Target table for --import-xlsx")
	f.Sheet = flag.String("sheet", "", "Excel sheet name (default: active sheet)")
	f.Nulls = flag.String("nulls", "keep", "NULL policy for --import-xlsx: keep, drop, isolate, fill")
	f.Column = flag.String("column", "", "Column to isolate for --nulls isolate")
	f.Fill = flag.String("fill", "", "Replacement text for --nulls fill")
	f.IdentityInsert = flag.Bool("identity-insert", false, "Bracket the import with SET IDENTITY_INSERT")

	// Options
	f.Config = flag.String("config", "config.yaml", "Configuration file path")
	f.Output = flag.String("output", "", "Write query result to an .xlsx file instead of stdout")

	// Config Creation
	f.CreateConfig = flag.Bool("create-config", false, "Create a sample config file")

	// Misc
	f.Version = flag.Bool("version", false, "Show version information")
	f.Help = flag.Bool("help", false, "Show detailed help with examples")

	flag.Parse()

	return f
}
