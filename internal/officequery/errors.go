package officequery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
)

// DataAccessError reports a database that cannot be opened or read, or one
// missing the table and columns a query depends on.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access: %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// QuerySyntaxError reports query text the database refused to parse.
type QuerySyntaxError struct {
	Query string
	Err   error
}

func (e *QuerySyntaxError) Error() string {
	return fmt.Sprintf("query syntax: %v", e.Err)
}

func (e *QuerySyntaxError) Unwrap() error { return e.Err }

const (
	pgSyntaxError    = "42601"
	mysqlSyntaxError = 1064
)

var sqliteSyntaxMarkers = []string{"syntax error", "incomplete input", "unrecognized token"}

func classifyQueryError(query string, err error) error {
	if err == nil {
		return nil
	}

	var dae *DataAccessError
	var qse *QuerySyntaxError
	if errors.As(err, &dae) || errors.As(err, &qse) {
		return err
	}

	if isSyntaxError(err) {
		return &QuerySyntaxError{Query: query, Err: err}
	}
	return &DataAccessError{Op: "execute query", Err: err}
}

func isSyntaxError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		msg := strings.ToLower(sqliteErr.Error())
		for _, marker := range sqliteSyntaxMarkers {
			if strings.Contains(msg, marker) {
				return true
			}
		}
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSyntaxError
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlSyntaxError
	}

	return false
}
