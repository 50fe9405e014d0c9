package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DatabaseType represents the type of database
type DatabaseType string

const (
	DatabaseTypeSQLite     DatabaseType = "sqlite"
	DatabaseTypePostgreSQL DatabaseType = "postgres"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type DatabaseType `json:"type"`
	// DSN is the driver-specific connection string. For SQLite it is the file path.
	DSN string `json:"dsn"`
}

// ParseDatabaseURL converts a connection string into a DatabaseConfig.
// Accepted forms: "sqlite:///relative.db", "sqlite:////abs/path.db",
// "postgres://..." / "postgresql://...", or a bare file path.
func ParseDatabaseURL(url string) (*DatabaseConfig, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("database url cannot be empty")
	}
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return &DatabaseConfig{Type: DatabaseTypePostgreSQL, DSN: url}, nil
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		// sqlite:///site.db is relative, sqlite:////abs/site.db is absolute
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			return nil, fmt.Errorf("SQLite path cannot be empty")
		}
		return &DatabaseConfig{Type: DatabaseTypeSQLite, DSN: path}, nil
	case strings.Contains(url, "://"):
		return nil, fmt.Errorf("unsupported database url scheme: %s", url[:strings.Index(url, "://")])
	default:
		return &DatabaseConfig{Type: DatabaseTypeSQLite, DSN: url}, nil
	}
}

// GetDatabaseConfig returns the database configuration derived from DATABASE_URL.
func GetDatabaseConfig() (*DatabaseConfig, error) {
	return ParseDatabaseURL(GetDatabaseURL())
}

// ValidateConfig validates the database configuration
func (c *DatabaseConfig) ValidateConfig() error {
	switch c.Type {
	case DatabaseTypeSQLite, DatabaseTypePostgreSQL:
		if c.DSN == "" {
			return fmt.Errorf("%s connection string cannot be empty", c.Type)
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

// IsPostgreSQL returns true if the database type is PostgreSQL
func (c *DatabaseConfig) IsPostgreSQL() bool {
	return c.Type == DatabaseTypePostgreSQL
}

// IsSQLite returns true if the database type is SQLite
func (c *DatabaseConfig) IsSQLite() bool {
	return c.Type == DatabaseTypeSQLite
}

// EnsureDirectoryExists ensures the directory for SQLite database exists
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	if c.IsSQLite() {
		dir := filepath.Dir(c.DSN)
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}
