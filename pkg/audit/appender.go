package audit

import (
	"fmt"
	"io"
	"sync"
)

// Appender writes audit entries to a destination.
type Appender interface {
	Append(entry *Entry) error
	Close() error
}

// WriterAppender writes JSON lines to an io.Writer. Useful for
// stderr logging and for tests.
type WriterAppender struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

// NewWriterAppender creates an appender over w.
func NewWriterAppender(w io.Writer, level Level) *WriterAppender {
	return &WriterAppender{w: w, level: level}
}

// Append implements Appender.
func (a *WriterAppender) Append(entry *Entry) error {
	payload, err := entry.MarshalFor(a.level)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.w.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// Close implements Appender. The underlying writer is not owned by
// the appender and stays open.
func (a *WriterAppender) Close() error { return nil }
