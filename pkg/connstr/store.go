// Package connstr maps named environments (local, dev, qa, prod) to
// driver connection strings. Defaults are compiled in; a YAML file
// and SQLBRIDGE_CONN_* environment variables can override them.
package connstr

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Well-known environment names.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvQA    = "qa"
	EnvProd  = "prod"
)

// EnvPrefix is the prefix for environment variable overrides:
// SQLBRIDGE_CONN_PROD overrides the "prod" entry.
const EnvPrefix = "SQLBRIDGE_CONN_"

// Store holds the environment → connection string table.
type Store struct {
	entries map[string]string
}

// Defaults returns a store preloaded with ODBC Driver 17 connection
// strings. Server and database names are placeholders: replace them
// via Set, a YAML file or environment variables.
func Defaults() *Store {
	return &Store{entries: map[string]string{
		EnvProd:  `Driver={ODBC Driver 17 for SQL Server}; Server=XXXXXXX; Database=ProdDatabaseName; Trusted_Connection=yes;`,
		EnvDev:   `Driver={ODBC Driver 17 for SQL Server}; Server=XXXXXXX; Database=DevDatabaseName; Trusted_Connection=yes;`,
		EnvQA:    `Driver={ODBC Driver 17 for SQL Server}; Server=XXXXXXX; Database=QADatabaseName; Trusted_Connection=yes;`,
		EnvLocal: `Driver={ODBC Driver 17 for SQL Server}; Server=(localDB)\MSSQLLocalDB; Database=MyLocalDb;`,
	}}
}

// Get returns the connection string for the named environment.
func (s *Store) Get(env string) (string, error) {
	dsn, ok := s.entries[strings.ToLower(env)]
	if !ok {
		return "", fmt.Errorf("unknown environment %q (known: %s)",
			env, strings.Join(s.Environments(), ", "))
	}
	return dsn, nil
}

// Set adds or replaces an environment entry.
func (s *Store) Set(env, dsn string) {
	if s.entries == nil {
		s.entries = make(map[string]string)
	}
	s.entries[strings.ToLower(env)] = dsn
}

// Environments returns the known environment names, sorted.
func (s *Store) Environments() []string {
	envs := make([]string, 0, len(s.entries))
	for env := range s.entries {
		envs = append(envs, env)
	}
	sort.Strings(envs)
	return envs
}

// ========== File configuration ==========

// fileConfig is the YAML layout:
//
//	environments:
//	  dev:
//	    dsn: "Driver={ODBC Driver 17 for SQL Server}; ..."
//	  qa:
//	    server: sql-qa.internal
//	    database: QADatabaseName
//	    trusted: true
type fileConfig struct {
	Environments map[string]entryConfig `yaml:"environments"`
}

type entryConfig struct {
	DSN      string `yaml:"dsn,omitempty"`
	Server   string `yaml:"server,omitempty"`
	Database string `yaml:"database,omitempty"`
	Trusted  bool   `yaml:"trusted,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Load reads a YAML file and returns Defaults overlaid with its
// entries. An entry provides either a literal dsn or server/database
// parts assembled by BuildSQLServer.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	store := Defaults()
	for env, entry := range cfg.Environments {
		switch {
		case entry.DSN != "":
			store.Set(env, entry.DSN)
		case entry.Server != "" && entry.Database != "":
			store.Set(env, BuildSQLServer(entry.Server, entry.Database,
				entry.Trusted, entry.User, entry.Password))
		default:
			return nil, fmt.Errorf("environment %q: need either dsn or server+database", env)
		}
	}
	return store, nil
}

// ApplyEnv overlays SQLBRIDGE_CONN_<ENV> environment variables onto
// the store. Unset variables leave existing entries alone.
func (s *Store) ApplyEnv() {
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) || value == "" {
			continue
		}
		s.Set(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value)
	}
}

// LoadDotenv loads a .env file into the process environment and then
// applies SQLBRIDGE_CONN_* overrides. A missing file is not an error:
// .env is a local development convenience.
func (s *Store) LoadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	s.ApplyEnv()
	return nil
}

// ========== Connection string builders ==========

// BuildSQLServer assembles an ODBC Driver 17 connection string for
// SQL Server. With trusted=true Windows authentication is used and
// user/password are ignored.
func BuildSQLServer(server, database string, trusted bool, user, password string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Driver={ODBC Driver 17 for SQL Server}; Server=%s; Database=%s;", server, database)
	if trusted {
		b.WriteString(" Trusted_Connection=yes;")
	} else if user != "" {
		fmt.Fprintf(&b, " UID=%s; PWD=%s;", user, password)
	}
	return b.String()
}

// BuildAccess assembles an ODBC connection string for a Microsoft
// Access database file. Password may be empty.
func BuildAccess(dir, filename, password string) string {
	path := filepath.Join(dir, filename)
	dsn := fmt.Sprintf("Driver={Microsoft Access Driver (*.mdb, *.accdb)}; DBQ=%s;", path)
	if password != "" {
		dsn += fmt.Sprintf(" PWD=%s;", password)
	}
	return dsn
}
