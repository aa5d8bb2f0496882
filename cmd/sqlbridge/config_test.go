package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/queuebridge/sqlbridge/pkg/handler"
)

func TestLoadConfigMissingFile(t *testing.T) {
	config, store, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.Audit.Path != "" {
		t.Errorf("Audit.Path = %q, want empty", config.Audit.Path)
	}
	if _, err := store.Get("dev"); err != nil {
		t.Errorf("default store has no dev entry: %v", err)
	}
}

func TestLoadConfigParsesBothSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
environments:
  dev:
    server: sql-dev.internal
    database: DevDb
    trusted: true
audit:
  path: audit.log
  level: full
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, store, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Audit.Path != "audit.log" || config.Audit.Level != "full" {
		t.Errorf("audit config = %+v", config.Audit)
	}

	dsn, err := store.Get("dev")
	if err != nil {
		t.Fatal(err)
	}
	want := "Driver={ODBC Driver 17 for SQL Server}; Server=sql-dev.internal; Database=DevDb; Trusted_Connection=yes;"
	if dsn != want {
		t.Errorf("dev dsn = %q, want %q", dsn, want)
	}
}

func TestSaveSampleConfigRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := SaveSampleConfig(path); err != nil {
		t.Fatalf("SaveSampleConfig() error = %v", err)
	}
	if err := SaveSampleConfig(path); err == nil {
		t.Error("SaveSampleConfig() on existing file: expected error, got nil")
	}

	// The sample must load cleanly.
	if _, _, err := LoadConfig(path); err != nil {
		t.Errorf("LoadConfig(sample) error = %v", err)
	}
}

func TestParseNullPolicy(t *testing.T) {
	tests := []struct {
		name    string
		want    handler.NullPolicy
		wantErr bool
	}{
		{"keep", handler.NullsKeep, false},
		{"drop", handler.NullsDropRows, false},
		{"isolate", handler.NullsIsolateColumn, false},
		{"fill", handler.NullsFillText, false},
		{"purge", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseNullPolicy(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseNullPolicy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseNullPolicy(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}
