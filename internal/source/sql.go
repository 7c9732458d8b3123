package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/spherical-ai/hoidap/internal/config"
	"github.com/spherical-ai/hoidap/internal/reference"
)

// SQLSource reads each table with SELECT * from a database table of the
// same name.
type SQLSource struct {
	db     *sql.DB
	driver string
}

// NewSQLSource wraps an open database handle.
func NewSQLSource(db *sql.DB, driver string) *SQLSource {
	return &SQLSource{db: db, driver: driver}
}

// OpenSQLite opens a SQLite database file.
func OpenSQLite(ctx context.Context, path string) (*SQLSource, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, reference.NewSourceError("connect", "", fmt.Errorf("open sqlite: %w", err))
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, reference.NewSourceError("connect", "", fmt.Errorf("ping sqlite: %w", err))
	}
	return NewSQLSource(db, "sqlite3"), nil
}

// OpenPostgres opens a Postgres connection pool.
func OpenPostgres(ctx context.Context, cfg config.PostgresConfig) (*SQLSource, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, reference.NewSourceError("connect", "", fmt.Errorf("open postgres: %w", err))
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, reference.NewSourceError("connect", "", fmt.Errorf("ping postgres: %w", err))
	}
	return NewSQLSource(db, "postgres"), nil
}

// FetchTable selects every row of the named table. Cells are stringified;
// NULL becomes the empty string.
func (s *SQLSource) FetchTable(ctx context.Context, name string) (*reference.Table, error) {
	query := "SELECT * FROM " + quoteIdent(name)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, &reference.SourceError{Table: name, Op: "fetch", Err: reference.ErrTableNotFound}
		}
		return nil, &reference.SourceError{Table: name, Op: "fetch", Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &reference.SourceError{Table: name, Op: "fetch", Err: err}
	}

	t := &reference.Table{Name: name, Columns: cols}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &reference.SourceError{Table: name, Op: "scan", Err: err}
		}
		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = stringify(v)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &reference.SourceError{Table: name, Op: "scan", Err: err}
	}

	return t, nil
}

// Close closes the database handle.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// String identifies the source in logs.
func (s *SQLSource) String() string {
	return "sql(" + s.driver + ")"
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42P01"
	}
	return strings.Contains(err.Error(), "no such table")
}
