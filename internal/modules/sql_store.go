package modules

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const DefaultTable = "eva_modules"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLStore keeps module sources in a two-column table (name, source). Supported drivers
// are sqlite3, mysql and postgres.
type SQLStore struct {
	DB     *sql.DB
	Driver string
	Table  string
}

func OpenSQLStore(driver, dsn, table string) (*SQLStore, error) {
	switch driver {
	case "sqlite3", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported module store driver %q", driver)
	}
	if table == "" {
		table = DefaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid module table name %q", table)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open module store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping module store: %w", err)
	}

	slog.Info("opened module store",
		slog.String("driver", driver),
		slog.String("table", table))
	return &SQLStore{DB: db, Driver: driver, Table: table}, nil
}

// EnsureSchema creates the module table when it does not exist yet.
func (s *SQLStore) EnsureSchema() error {
	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (name VARCHAR(255) PRIMARY KEY, source TEXT NOT NULL)",
		s.Table)
	if _, err := s.DB.Exec(stmt); err != nil {
		return fmt.Errorf("failed to create module table: %w", err)
	}
	return nil
}

func (s *SQLStore) Load(name string) (Source, error) {
	if err := ValidateName(name); err != nil {
		return Source{}, err
	}

	query := fmt.Sprintf("SELECT source FROM %s WHERE name = %s", s.Table, s.placeholder(1))
	var text string
	err := s.DB.QueryRow(query, name).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return Source{}, fmt.Errorf("module '%s' in %s store: %w", name, s.Driver, ErrNotFound)
	}
	if err != nil {
		slog.Warn("module store query failed",
			slog.String("module", name),
			slog.Any("error", err))
		return Source{}, fmt.Errorf("failed to load module '%s': %w", name, err)
	}

	return Source{Name: name, Path: fmt.Sprintf("%s:%s/%s", s.Driver, s.Table, name), Text: text}, nil
}

// Save replaces the source stored for name.
func (s *SQLStore) Save(name, text string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	del := fmt.Sprintf("DELETE FROM %s WHERE name = %s", s.Table, s.placeholder(1))
	if _, err := tx.Exec(del, name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to save module '%s': %w", name, err)
	}
	ins := fmt.Sprintf("INSERT INTO %s (name, source) VALUES (%s, %s)", s.Table, s.placeholder(1), s.placeholder(2))
	if _, err := tx.Exec(ins, name, text); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to save module '%s': %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit module '%s': %w", name, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func (s *SQLStore) placeholder(n int) string {
	if s.Driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
