package officequery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func openDatabase(ctx context.Context, cfg Config) (*sql.DB, error) {
	var (
		driverName string
		dsn        string
	)

	switch cfg.DBType {
	case "sqlite":
		if err := validateSQLiteLocation(cfg.DBURL); err != nil {
			return nil, &DataAccessError{Op: "open database", Err: err}
		}
		driverName = "sqlite"
		dsn = sqliteReadOnlyDSN(strings.TrimSpace(cfg.DBURL))
	case "postgres":
		driverName = "pgx"
		dsn = strings.TrimSpace(cfg.DBURL)
	case "mysql":
		driverName = "mysql"
		dsn = strings.TrimSpace(cfg.DBURL)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, &DataAccessError{Op: "open database", Err: err}
	}

	// One run, one connection.
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &DataAccessError{Op: "connect", Err: err}
	}

	return db, nil
}

// sqlitePathFromDSN extracts the on-disk path from a sqlite DSN. In-memory
// databases report false.
func sqlitePathFromDSN(dsn string) (string, bool) {
	raw := strings.TrimSpace(dsn)
	if raw == "" || raw == ":memory:" {
		return "", false
	}

	path, query, _ := strings.Cut(raw, "?")
	path = strings.TrimPrefix(path, "file:")
	if path == "" || path == ":memory:" || strings.Contains(query, "mode=memory") {
		return "", false
	}
	return path, true
}

// validateSQLiteLocation rejects paths that do not name an existing file;
// opening one would create an empty database.
func validateSQLiteLocation(dsn string) error {
	path, ok := sqlitePathFromDSN(dsn)
	if !ok {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("sqlite database %q does not exist", path)
		}
		return fmt.Errorf("stat sqlite database %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("sqlite database %q points to a directory", path)
	}
	return nil
}

func sqliteReadOnlyDSN(dsn string) string {
	if _, ok := sqlitePathFromDSN(dsn); !ok {
		return dsn
	}

	path, query, _ := strings.Cut(dsn, "?")
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	if strings.Contains(query, "mode=") {
		return path + "?" + query
	}
	if query == "" {
		return path + "?mode=ro"
	}
	return path + "?" + query + "&mode=ro"
}

// executeQuery materializes at most maxRows rows; maxRows <= 0 reads them all.
func executeQuery(ctx context.Context, db DBTX, query string, maxRows int) ([]string, []map[string]any, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, classifyQueryError(query, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, &DataAccessError{Op: "read columns", Err: err}
	}

	result := make([]map[string]any, 0)
	for rows.Next() {
		if maxRows > 0 && len(result) >= maxRows {
			break
		}

		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, nil, &DataAccessError{Op: "scan row", Err: err}
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalizeDBValue(values[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, classifyQueryError(query, err)
	}

	return columns, result, nil
}

// Text columns stay text: an office code of "1" must not turn into 1 when a
// driver hands it back as raw bytes.
func normalizeDBValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case []byte:
		return string(t)
	default:
		return t
	}
}
