/*
Package handler is the convenience layer over database/sql that the
rest of the library builds on.

Two handlers share one contract:

  - Handler opens ODBC connection strings (SQL Server via ODBC
    Driver 17, Access via the Access ODBC driver) and exposes Query,
    Execute, IterExecute and BulkInsert.
  - EngineHandler opens the native sqlserver:// driver and adds
    WriteTable, which creates the destination table from the data's
    schema when it is missing before appending.

Mutating operations are gated by a read-only flag set at construction:

	h, err := handler.Open(ctx, dsn, handler.WithReadOnly())
	...
	err = h.Execute(ctx, "DELETE FROM users") // handler.ErrReadOnly

BulkInsert reshapes NULLs before inserting according to a NullPolicy:
keep them, drop the rows, replace them in all TEXT columns, or
isolate one column's NULLs and insert in two passes.

IterExecute loops a parameterized statement over rows:

	report, err := h.IterExecute(ctx,
	    "INSERT INTO users (id, name) VALUES (?, ?)",
	    [][]any{{1, "Mary"}, {2, "Bob"}},
	    handler.ModeIgnore)

ModeRaise runs the batch in one transaction and rolls everything back
on the first failure; ModeIgnore commits row by row and reports the
failures instead.
*/
package handler
