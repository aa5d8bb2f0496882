package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileAppender writes JSON lines to a file, rotating when the file
// exceeds the configured size.
type FileAppender struct {
	mu          sync.Mutex
	file        *os.File
	filePath    string
	maxSize     int64
	currentSize int64
	level       Level
}

// FileAppenderConfig configures a FileAppender.
type FileAppenderConfig struct {
	FilePath string
	MaxSize  int64 // megabytes, 0 means 100
	Level    Level
}

// NewFileAppender opens (or creates) the audit file.
func NewFileAppender(config FileAppenderConfig) (*FileAppender, error) {
	dir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat audit file: %w", err)
	}

	maxSize := config.MaxSize
	if maxSize == 0 {
		maxSize = 100
	}

	return &FileAppender{
		file:        file,
		filePath:    config.FilePath,
		maxSize:     maxSize * 1024 * 1024,
		currentSize: info.Size(),
		level:       config.Level,
	}, nil
}

// Append implements Appender.
func (a *FileAppender) Append(entry *Entry) error {
	payload, err := entry.MarshalFor(a.level)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	payload = append(payload, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentSize+int64(len(payload)) > a.maxSize {
		if err := a.rotate(); err != nil {
			return err
		}
	}

	n, err := a.file.Write(payload)
	a.currentSize += int64(n)
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// rotate moves the current file aside as <name>.1 and starts fresh.
// A previous backup is overwritten.
func (a *FileAppender) rotate() error {
	if err := a.file.Close(); err != nil {
		return fmt.Errorf("failed to close audit file: %w", err)
	}
	if err := os.Rename(a.filePath, a.filePath+".1"); err != nil {
		return fmt.Errorf("failed to rotate audit file: %w", err)
	}

	file, err := os.OpenFile(a.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to reopen audit file: %w", err)
	}
	a.file = file
	a.currentSize = 0
	return nil
}

// Close implements Appender.
func (a *FileAppender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}
