package main

import "fmt"

const version = "1.2.0"

// PrintVersion prints version information
func PrintVersion() {
	fmt.Printf("sqlbridge version %s\n", version)
	fmt.Println("SQL Server and Microsoft Access command line bridge")
	fmt.Println("https://github.com/queuebridge/sqlbridge")
}

// PrintHelp prints comprehensive help information
func PrintHelp() {
	fmt.Println("sqlbridge - SQL Server and Microsoft Access command line bridge")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Println("USAGE:")
	fmt.Println("  sqlbridge [command] [options]")
	fmt.Println()

	fmt.Println("COMMANDS:")
	fmt.Println()

	fmt.Println("  Metadata:")
	fmt.Println("    --tables                   List user tables")
	fmt.Println("    --views                    List views")
	fmt.Println("    --viewdef <view>           Print the T-SQL definition of a view")
	fmt.Println("    --environments             List configured environments")
	fmt.Println()

	fmt.Println("  Statements:")
	fmt.Println("    --query <sql>              Run a SELECT and print the result")
	fmt.Println("    --exec <sql>               Run a mutating statement")
	fmt.Println("    --import-xlsx <file>       Bulk insert an Excel workbook into a table")
	fmt.Println()

	fmt.Println("OPTIONS:")
	fmt.Println()

	fmt.Println("  Connection:")
	fmt.Println("    --env <name>               Environment: local, dev, qa, prod (default: dev)")
	fmt.Println("    --access <file>            Connect to an Access .mdb/.accdb file instead")
	fmt.Println("    --password <pwd>           Access database password")
	fmt.Println("    --read-only                Refuse mutating statements")
	fmt.Println("    --write                    Open prod read-write (read-only by default)")
	fmt.Println()

	fmt.Println("  Import:")
	fmt.Println("    --table <name>             Target table (default: sheet name)")
	fmt.Println("    --sheet <name>             Excel sheet (default: active sheet)")
	fmt.Println("    --nulls <policy>           NULL policy: keep, drop, isolate, fill (default: keep)")
	fmt.Println("    --column <name>            Column to isolate for --nulls isolate")
	fmt.Println("    --fill <text>              Replacement text for --nulls fill")
	fmt.Println("    --identity-insert          Bracket the import with SET IDENTITY_INSERT")
	fmt.Println()

	fmt.Println("  General:")
	fmt.Println("    --config <file>            Configuration file (default: config.yaml)")
	fmt.Println("    --output <file>            Write query result to an .xlsx file")
	fmt.Println("    --create-config            Create a sample config file")
	fmt.Println()

	fmt.Println("EXAMPLES:")
	fmt.Println()
	fmt.Println("  # List the dev database tables")
	fmt.Println("  sqlbridge --tables --env dev")
	fmt.Println()
	fmt.Println("  # Query prod (read-only) and save the result as a workbook")
	fmt.Println("  sqlbridge --query \"SELECT * FROM dbo.Orders\" --env prod --output orders.xlsx")
	fmt.Println()
	fmt.Println("  # Import a spreadsheet, dropping rows with NULLs")
	fmt.Println("  sqlbridge --import-xlsx people.xlsx --table dbo.People --nulls drop --env qa")
	fmt.Println()
	fmt.Println("  # Inspect an Access file")
	fmt.Println("  sqlbridge --tables --access C:/data/crm.accdb")
}
