package ingestors

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"dbperf-analytics/internal/models"
	"dbperf-analytics/internal/shared/loggers"
	"dbperf-analytics/internal/shared/validators"
)

const sourceSQL = "sql"

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
)

// OpenDB opens a database handle for one of the supported drivers.
func OpenDB(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: driver %q", ErrUnsupportedKind, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s database: %w", ErrSourceUnreadable, driver, err)
	}
	if driver == DriverSQLite {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

type sqlLogReader struct {
	db     *sql.DB
	driver string
	table  string
}

// NewSQLLogReader reads the operation log from table, which must hold the database,
// operation, timestamp and duration_ms columns. Rows are read in the order the
// database returns them.
func NewSQLLogReader(db *sql.DB, driver, table string) (LogReader, error) {
	if !validators.IsSQLIdentifier(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", ErrSourceUnreadable, table)
	}
	return &sqlLogReader{db: db, driver: driver, table: table}, nil
}

func (r *sqlLogReader) Read(ctx context.Context) (*models.OperationLog, error) {
	query := r.selectQuery()
	loggers.Ctx(ctx).Debug().Str(loggers.FieldSource, r.table).Msg("reading sql operation log")

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	defer rows.Close()

	collector := newRecordCollector(sourceSQL)
	line := 0
	for rows.Next() {
		line++
		var raw rawRecord
		raw.line = line
		if err := rows.Scan(&raw.database, &raw.operation, &raw.timestamp, &raw.duration); err != nil {
			collector.exclude(ctx, line, reasonMalformedRow)
			continue
		}
		collector.add(ctx, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}

	return collector.finish(ctx), nil
}

func (r *sqlLogReader) selectQuery() string {
	cols := make([]string, 0, len(requiredColumns))
	for _, c := range requiredColumns {
		cols = append(cols, r.quote(c))
	}
	parts := strings.Split(r.table, ".")
	for i, p := range parts {
		parts[i] = r.quote(p)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), strings.Join(parts, "."))
}

// quote escapes identifiers; "database" and "timestamp" are reserved words in MySQL.
func (r *sqlLogReader) quote(ident string) string {
	if r.driver == DriverMySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}
