package officequery

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

type employee struct {
	FirstName  string
	LastName   string
	JobTitle   string
	OfficeCode string
}

// newEmployeesDB writes a sqlite file holding the given employees in
// insertion order and returns its path.
func newEmployeesDB(t *testing.T, employees []employee) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE employees (
			employeeNumber INTEGER PRIMARY KEY,
			lastName TEXT NOT NULL,
			firstName TEXT NOT NULL,
			jobTitle TEXT,
			officeCode TEXT
		)`); err != nil {
		t.Fatalf("create employees table: %v", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin transaction: %v", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO employees(lastName, firstName, jobTitle, officeCode) VALUES(?, ?, ?, ?)`)
	if err != nil {
		t.Fatalf("prepare insert: %v", err)
	}
	defer stmt.Close()

	for _, e := range employees {
		if _, err := stmt.ExecContext(ctx, e.LastName, e.FirstName, e.JobTitle, e.OfficeCode); err != nil {
			t.Fatalf("insert employee %s %s: %v", e.FirstName, e.LastName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return path
}

func sqliteConfig(path, output string) Config {
	return Config{
		DBType:  "sqlite",
		DBURL:   path,
		Query:   defaultPreset,
		Output:  output,
		Timeout: 10 * time.Second,
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
