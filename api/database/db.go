package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	config "github.com/tbeaudouin05/otmens-intake/api/config"
)

var db *sql.DB

const sqliteScheme = "sqlite://"

// Initialize connects to the configured database, verifies the connection
// and applies the schema. It is a no-op when DATABASE_URL is empty.
func Initialize() error {
	if config.AppConfig == nil || config.AppConfig.DatabaseURL == "" {
		return nil
	}
	conn, err := Open(config.AppConfig.DatabaseURL)
	if err != nil {
		return err
	}
	if err := Migrate(conn); err != nil {
		conn.Close()
		return err
	}
	db = conn
	return nil
}

// Open connects to dsn. sqlite:// URLs use the embedded SQLite driver,
// everything else is treated as a Postgres connection string.
func Open(dsn string) (*sql.DB, error) {
	driver, source := driverFor(dsn)
	conn, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	switch driver {
	case "sqlite3":
		// SQLite serialises writers; one connection also keeps :memory: databases alive.
		conn.SetMaxOpenConns(1)
	default:
		// Use a single connection to avoid prepared statement issues with PgBouncer/Neon.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}
	return conn, nil
}

func driverFor(dsn string) (driver, source string) {
	if strings.HasPrefix(dsn, sqliteScheme) {
		return "sqlite3", strings.TrimPrefix(dsn, sqliteScheme)
	}
	return "postgres", withDisablePreparedStatements(dsn)
}

// withDisablePreparedStatements appends disable_prepared_statements=true and binary_parameters=yes to the DSN if not present.
// This nudges lib/pq to avoid server-side prepared statements and binary mode, which can break with PgBouncer transaction pooling.
func withDisablePreparedStatements(dsn string) string {
	lower := strings.ToLower(dsn)
	if strings.Contains(lower, "disable_prepared_statements=") || strings.Contains(lower, "prefer_simple_protocol=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	extras := []string{"disable_prepared_statements=true"}
	if !strings.Contains(lower, "binary_parameters=") {
		extras = append(extras, "binary_parameters=yes")
	}
	return dsn + sep + strings.Join(extras, "&")
}

// GetDB returns the database connection, or nil when no database is configured.
func GetDB() *sql.DB {
	return db
}

// SetDB replaces the package connection. Tests use it to inject SQLite.
func SetDB(conn *sql.DB) {
	db = conn
}
