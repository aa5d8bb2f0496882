// Package audit records database operations performed through the
// handlers: what ran, against which table, how long it took and how
// it ended. Entries go to pluggable appenders as JSON lines.
package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Level controls how much detail an appender records.
type Level int

const (
	// LevelMinimal - operation, status and timestamp only
	LevelMinimal Level = iota

	// LevelStandard - adds table, row counts and duration
	LevelStandard

	// LevelFull - adds the statement text
	LevelFull
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelMinimal:
		return "minimal"
	case LevelStandard:
		return "standard"
	case LevelFull:
		return "full"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// ParseLevel converts a level name from configuration.
func ParseLevel(name string) (Level, error) {
	switch name {
	case "minimal":
		return LevelMinimal, nil
	case "standard", "":
		return LevelStandard, nil
	case "full":
		return LevelFull, nil
	default:
		return 0, fmt.Errorf("unknown audit level %q", name)
	}
}

// Operation names the handler call being audited.
type Operation string

const (
	OpConnect     Operation = "connect"
	OpDisconnect  Operation = "disconnect"
	OpQuery       Operation = "query"
	OpExecute     Operation = "execute"
	OpIterExecute Operation = "iter_execute"
	OpBulkInsert  Operation = "bulk_insert"
	OpWriteTable  Operation = "write_table"
)

// Status is the outcome of an operation.
type Status string

const (
	StatusSuccess Status = "success"

	StatusFailure Status = "failure"

	// StatusSuppressed - a mutating call refused by the read-only guard
	StatusSuppressed Status = "suppressed"
)

// Entry is one audit record.
type Entry struct {
	Timestamp time.Time     `json:"timestamp"`
	Operation Operation     `json:"operation"`
	Status    Status        `json:"status"`
	Table     string        `json:"table,omitempty"`
	Statement string        `json:"statement,omitempty"`
	Rows      int           `json:"rows,omitempty"`
	Failed    int           `json:"failed,omitempty"`
	Duration  time.Duration `json:"duration_ns,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// MarshalFor renders the entry as JSON, dropping fields above the
// given level.
func (e *Entry) MarshalFor(level Level) ([]byte, error) {
	out := *e
	if level < LevelFull {
		out.Statement = ""
	}
	if level < LevelStandard {
		out.Table = ""
		out.Rows = 0
		out.Failed = 0
		out.Duration = 0
	}
	return json.Marshal(&out)
}
