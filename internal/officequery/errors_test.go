package officequery

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyQueryError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		syntax bool
	}{
		{name: "postgres syntax", err: &pgconn.PgError{Code: "42601", Message: "syntax error at or near \"SELEC\""}, syntax: true},
		{name: "postgres undefined table", err: &pgconn.PgError{Code: "42P01", Message: "relation \"employees\" does not exist"}},
		{name: "mysql syntax", err: &mysql.MySQLError{Number: 1064, Message: "You have an error in your SQL syntax"}, syntax: true},
		{name: "mysql unknown table", err: &mysql.MySQLError{Number: 1146, Message: "Table 'app.employees' doesn't exist"}},
		{name: "plain error", err: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyQueryError("SELECT 1", tt.err)

			var qse *QuerySyntaxError
			var dae *DataAccessError
			switch {
			case tt.syntax && !errors.As(got, &qse):
				t.Fatalf("expected QuerySyntaxError, got %T", got)
			case !tt.syntax && !errors.As(got, &dae):
				t.Fatalf("expected DataAccessError, got %T", got)
			}
			if !errors.Is(got, tt.err) {
				t.Fatalf("classified error should wrap the driver error")
			}
		})
	}
}

func TestClassifyQueryErrorPassesThroughClassified(t *testing.T) {
	original := &DataAccessError{Op: "inspect schema", Err: errors.New("boom")}
	if got := classifyQueryError("SELECT 1", original); got != original {
		t.Fatalf("expected classified error to pass through, got %v", got)
	}
	if classifyQueryError("SELECT 1", nil) != nil {
		t.Fatal("nil error should stay nil")
	}
}

func TestErrorMessages(t *testing.T) {
	dae := &DataAccessError{Op: "connect", Err: errors.New("no such file")}
	if !strings.HasPrefix(dae.Error(), "data access: connect:") {
		t.Fatalf("unexpected message: %s", dae.Error())
	}

	qse := &QuerySyntaxError{Query: "SELEC", Err: errors.New("near SELEC")}
	if !strings.HasPrefix(qse.Error(), "query syntax:") {
		t.Fatalf("unexpected message: %s", qse.Error())
	}
}
