package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/queuebridge/sqlbridge/pkg/audit"
	"github.com/queuebridge/sqlbridge/pkg/connstr"
)

// Config is the CLI's own slice of config.yaml. The environments
// section of the same file is parsed separately by connstr.Load, so
// one file configures both.
type Config struct {
	// Dotenv is a .env file loaded before SQLBRIDGE_CONN_* overrides
	// are applied. Defaults to ".env"; a missing file is fine.
	Dotenv string `yaml:"dotenv,omitempty"`

	Audit AuditConfig `yaml:"audit,omitempty"`
}

// AuditConfig configures the file audit log. An empty path disables
// auditing.
type AuditConfig struct {
	Path    string `yaml:"path,omitempty"`
	Level   string `yaml:"level,omitempty"` // minimal, standard, full
	MaxSize int64  `yaml:"max_size_mb,omitempty"`
}

// LoadConfig reads the CLI config and the connection store from the
// same YAML file. A missing file falls back to compiled-in defaults;
// environment variables still apply.
func LoadConfig(path string) (*Config, *connstr.Store, error) {
	config := &Config{Dotenv: ".env"}
	store := connstr.Defaults()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if config.Dotenv == "" {
			config.Dotenv = ".env"
		}
		if store, err = connstr.Load(path); err != nil {
			return nil, nil, err
		}
	}

	if err := store.LoadDotenv(config.Dotenv); err != nil {
		return nil, nil, err
	}
	store.ApplyEnv()
	return config, store, nil
}

// BuildAuditLogger creates the file audit logger, or nil when
// auditing is not configured. A nil logger is a valid no-op.
func BuildAuditLogger(config *Config) (*audit.Logger, error) {
	if config.Audit.Path == "" {
		return nil, nil
	}

	level, err := audit.ParseLevel(config.Audit.Level)
	if err != nil {
		return nil, err
	}

	appender, err := audit.NewFileAppender(audit.FileAppenderConfig{
		FilePath: config.Audit.Path,
		MaxSize:  config.Audit.MaxSize,
		Level:    level,
	})
	if err != nil {
		return nil, err
	}

	return audit.NewLogger(audit.LoggerConfig{
		OnError: func(err error) {
			fmt.Fprintf(os.Stderr, "audit: %v\n", err)
		},
	}, appender), nil
}

const sampleConfig = `# sqlbridge configuration
#
# Each environment provides either a literal ODBC connection string
# (dsn) or server/database parts. SQLBRIDGE_CONN_<ENV> environment
# variables override entries in this file.
environments:
  dev:
    server: sql-dev.internal
    database: DevDatabaseName
    trusted: true
  qa:
    server: sql-qa.internal
    database: QADatabaseName
    trusted: true
  prod:
    dsn: "Driver={ODBC Driver 17 for SQL Server}; Server=sql-prod.internal; Database=ProdDatabaseName; Trusted_Connection=yes;"

# Loaded before environment overrides apply. Optional.
dotenv: .env

audit:
  path: sqlbridge-audit.log
  level: standard
  max_size_mb: 100
`

// SaveSampleConfig writes the sample config, refusing to overwrite.
func SaveSampleConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0644)
}
