package audit

import (
	"time"
)

// Logger fans audit entries out to its appenders. A nil *Logger is a
// valid no-op logger, so handlers can call it unconditionally.
type Logger struct {
	appenders []Appender
	onError   func(error)
}

// LoggerConfig configures a Logger.
type LoggerConfig struct {
	// OnError - callback for appender failures. Audit failures never
	// fail the audited operation; by default they are dropped.
	OnError func(error)
}

// NewLogger creates a logger over the given appenders.
func NewLogger(config LoggerConfig, appenders ...Appender) *Logger {
	return &Logger{
		appenders: appenders,
		onError:   config.OnError,
	}
}

// Log stamps and dispatches an entry.
func (l *Logger) Log(entry *Entry) {
	if l == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	for _, appender := range l.appenders {
		if err := appender.Append(entry); err != nil && l.onError != nil {
			l.onError(err)
		}
	}
}

// LogSuccess records a completed operation.
func (l *Logger) LogSuccess(op Operation, table string, rows int, duration time.Duration) {
	l.Log(&Entry{
		Operation: op,
		Status:    StatusSuccess,
		Table:     table,
		Rows:      rows,
		Duration:  duration,
	})
}

// LogFailure records a failed operation.
func (l *Logger) LogFailure(op Operation, table string, err error) {
	entry := &Entry{
		Operation: op,
		Status:    StatusFailure,
		Table:     table,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	l.Log(entry)
}

// LogSuppressed records a mutating call refused by the read-only
// guard.
func (l *Logger) LogSuppressed(op Operation, table string) {
	l.Log(&Entry{
		Operation: op,
		Status:    StatusSuppressed,
		Table:     table,
	})
}

// Close closes all appenders.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	var firstErr error
	for _, appender := range l.appenders {
		if err := appender.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
