package officequery

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
)

func TestIntrospectSQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE Employees (firstName TEXT, lastName TEXT, officeCode TEXT)`); err != nil {
		t.Fatalf("create employees table: %v", err)
	}

	def, found, err := introspectTable(ctx, db, "sqlite", "employees")
	if err != nil {
		t.Fatalf("introspectTable returned error: %v", err)
	}
	if !found {
		t.Fatal("expected table lookup to be case-insensitive")
	}
	if def.Name != "Employees" || len(def.Columns) != 3 {
		t.Fatalf("unexpected table definition: %+v", def)
	}

	_, found, err = introspectTable(ctx, db, "sqlite", "offices")
	if err != nil {
		t.Fatalf("introspectTable returned error: %v", err)
	}
	if found {
		t.Fatal("expected offices table to be missing")
	}
}

func TestCheckSchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE employees (FIRSTNAME TEXT, lastName TEXT)`); err != nil {
		t.Fatalf("create employees table: %v", err)
	}

	if err := checkSchema(ctx, db, "sqlite", "employees", []string{"firstName", "lastName"}); err != nil {
		t.Fatalf("column match should be case-insensitive: %v", err)
	}

	err = checkSchema(ctx, db, "sqlite", "employees", []string{"firstName", "officeCode", "jobTitle"})
	var dae *DataAccessError
	if !errors.As(err, &dae) {
		t.Fatalf("expected DataAccessError, got %T: %v", err, err)
	}
	if got := err.Error(); got != `data access: inspect schema: table "employees" is missing column(s): officeCode, jobTitle` {
		t.Fatalf("unexpected error: %s", got)
	}

	if err := checkSchema(ctx, db, "oracle", "employees", nil); !errors.As(err, &dae) {
		t.Fatalf("expected DataAccessError for unsupported db type, got %v", err)
	}
}

func TestInformationSchemaQueriesStayInCurrentSchema(t *testing.T) {
	tests := []struct {
		name  string
		query string
		scope string
	}{
		{name: "postgres", query: postgresColumnsQuery, scope: "table_schema = current_schema()"},
		{name: "mysql", query: mysqlColumnsQuery, scope: "table_schema = DATABASE()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.query, tt.scope) {
				t.Fatalf("column lookup must filter on %q:\n%s", tt.scope, tt.query)
			}
			if strings.Contains(tt.query, "NOT IN") {
				t.Fatalf("column lookup must not span schemas:\n%s", tt.query)
			}
		})
	}
}
