package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Drivers lists the accepted driver names.
func Drivers() []string {
	return []string{DriverSQLite, DriverPostgres, DriverMySQL}
}

// dialect covers the syntax differences between the supported databases.
type dialect struct {
	quote       func(string) string
	placeholder func(int) string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		quote:       doubleQuote,
		placeholder: func(int) string { return "?" },
	},
	DriverPostgres: {
		quote:       doubleQuote,
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	},
	DriverMySQL: {
		quote:       func(s string) string { return "`" + strings.ReplaceAll(s, "`", "``") + "`" },
		placeholder: func(int) string { return "?" },
	},
}

func doubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// SQLSink writes each table into a relational database, replacing any
// previous table of the same name. All columns are TEXT.
type SQLSink struct {
	driver  string
	dsn     string
	db      *sql.DB
	dialect dialect
}

// OpenSQL opens a database with one of Drivers().
func OpenSQL(driver, dsn string) (*SQLSink, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("dsn is required for %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &SQLSink{driver: driver, dsn: dsn, db: db, dialect: d}, nil
}

// Ping verifies connectivity.
func (s *SQLSink) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Kind implements Sink.
func (s *SQLSink) Kind() string { return "sql" }

// Location describes the database for logs. Postgres and MySQL DSNs may
// carry credentials, so only the driver is reported for them.
func (s *SQLSink) Location() string {
	if s.driver == DriverSQLite {
		return "sqlite:" + s.dsn
	}
	return s.driver
}

// Write drops, recreates, and fills the table in one transaction.
func (s *SQLSink) Write(ctx context.Context, t Table) (string, error) {
	if err := t.validate(); err != nil {
		return "", err
	}

	name := t.TableName()
	table := s.dialect.quote(name)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return "", fmt.Errorf("drop %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, s.createStatement(table, t.Columns)); err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	if len(t.Rows) > 0 {
		stmt, err := tx.PrepareContext(ctx, s.insertStatement(table, t.Columns))
		if err != nil {
			return "", fmt.Errorf("prepare insert %s: %w", name, err)
		}
		defer stmt.Close()

		args := make([]any, len(t.Columns))
		for i := range t.Rows {
			cells, valid := t.Values(i)
			for j := range cells {
				if valid[j] {
					args[j] = cells[j]
				} else {
					args[j] = nil
				}
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return "", fmt.Errorf("insert %s row %d: %w", name, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit %s: %w", name, err)
	}

	return fmt.Sprintf("%s table %s", s.Location(), name), nil
}

func (s *SQLSink) createStatement(table string, columns []string) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = s.dialect.quote(col) + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
}

func (s *SQLSink) insertStatement(table string, columns []string) string {
	cols := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, col := range columns {
		cols[i] = s.dialect.quote(col)
		marks[i] = s.dialect.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "))
}

// RowCount returns the number of rows in a table.
func (s *SQLSink) RowCount(ctx context.Context, name string) (int, error) {
	var n int
	query := "SELECT COUNT(*) FROM " + s.dialect.quote(strings.ToLower(name))
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", name, err)
	}
	return n, nil
}

// DB exposes the underlying handle for read-back.
func (s *SQLSink) DB() *sql.DB { return s.db }

// Close implements Sink.
func (s *SQLSink) Close() error {
	return s.db.Close()
}
