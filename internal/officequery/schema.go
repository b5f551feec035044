package officequery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type tableDef struct {
	Name    string
	Columns []string
}

// checkSchema confirms the table a preset reads exists and carries every
// column the preset projects.
func checkSchema(ctx context.Context, db *sql.DB, dbType string, table string, required []string) error {
	def, found, err := introspectTable(ctx, db, dbType, table)
	if err != nil {
		return &DataAccessError{Op: "inspect schema", Err: err}
	}
	if !found {
		return &DataAccessError{Op: "inspect schema", Err: fmt.Errorf("table %q not found", table)}
	}

	have := make(map[string]struct{}, len(def.Columns))
	for _, c := range def.Columns {
		have[strings.ToLower(c)] = struct{}{}
	}

	var missing []string
	for _, c := range required {
		if _, ok := have[strings.ToLower(c)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &DataAccessError{
			Op:  "inspect schema",
			Err: fmt.Errorf("table %q is missing column(s): %s", def.Name, strings.Join(missing, ", ")),
		}
	}
	return nil
}

// Both lookups stay inside the connection's own schema so a same-named table
// elsewhere cannot contribute columns.
const (
	postgresColumnsQuery = `
		SELECT table_name, column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND lower(table_name) = lower($1)
		ORDER BY ordinal_position`

	mysqlColumnsQuery = `
		SELECT table_name, column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND lower(table_name) = lower(?)
		ORDER BY ordinal_position`
)

func introspectTable(ctx context.Context, db *sql.DB, dbType string, table string) (tableDef, bool, error) {
	switch dbType {
	case "sqlite":
		return introspectSQLite(ctx, db, table)
	case "postgres":
		return introspectInformationSchema(ctx, db, postgresColumnsQuery, table)
	case "mysql":
		return introspectInformationSchema(ctx, db, mysqlColumnsQuery, table)
	default:
		return tableDef{}, false, fmt.Errorf("unsupported db type %q", dbType)
	}
}

func introspectSQLite(ctx context.Context, db *sql.DB, table string) (tableDef, bool, error) {
	var tableName string
	err := db.QueryRowContext(ctx, `
		SELECT name
		FROM sqlite_master
		WHERE type IN ('table', 'view') AND lower(name) = lower(?)
		LIMIT 1`, table).Scan(&tableName)
	if errors.Is(err, sql.ErrNoRows) {
		return tableDef{}, false, nil
	}
	if err != nil {
		return tableDef{}, false, err
	}

	escaped := strings.ReplaceAll(tableName, `"`, `""`)
	colRows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s" LIMIT 0`, escaped))
	if err != nil {
		return tableDef{}, false, err
	}
	colNames, err := colRows.Columns()
	if err != nil {
		_ = colRows.Close()
		return tableDef{}, false, err
	}
	if err := colRows.Close(); err != nil {
		return tableDef{}, false, err
	}

	return tableDef{Name: tableName, Columns: colNames}, true, nil
}

func introspectInformationSchema(ctx context.Context, db *sql.DB, query string, table string) (tableDef, bool, error) {
	rows, err := db.QueryContext(ctx, query, table)
	if err != nil {
		return tableDef{}, false, err
	}
	defer rows.Close()

	def := tableDef{}
	for rows.Next() {
		var tableName, colName string
		if err := rows.Scan(&tableName, &colName); err != nil {
			return tableDef{}, false, err
		}
		def.Name = tableName
		def.Columns = append(def.Columns, colName)
	}
	if err := rows.Err(); err != nil {
		return tableDef{}, false, err
	}

	return def, len(def.Columns) > 0, nil
}
