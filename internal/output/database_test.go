// internal/output/database_test.go
package output

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name        string
		dialect     dialect
		identifier  string
		expectError bool
	}{
		{"valid identifier", postgresDialect, "user_name", false},
		{"valid with numbers", sqliteDialect, "user123", false},
		{"starts with underscore", mysqlDialect, "_private", false},
		{"mixed case", postgresDialect, "UserName", false},
		{"empty string", sqliteDialect, "", true},
		{"starts with number", postgresDialect, "123user", true},
		{"contains space", mysqlDialect, "user name", true},
		{"contains hyphen", sqliteDialect, "user-name", true},
		{"injection", sqliteDialect, "results; DROP TABLE x", true},
		{"reserved word", postgresDialect, "select", true},
		{"reserved word case", sqliteDialect, "SELECT", true},
		{"reserved mysql", mysqlDialect, "table", true},
		{"postgres too long", postgresDialect, "a" + strings.Repeat("b", 63), true},
		{"postgres max length", postgresDialect, "a" + strings.Repeat("b", 62), false},
		{"mysql max length", mysqlDialect, strings.Repeat("r", 64), false},
		{"mysql too long", mysqlDialect, strings.Repeat("r", 65), true},
		{"sqlite too long", sqliteDialect, "a" + strings.Repeat("b", 999), true},
		{"sqlite max length", sqliteDialect, "a" + strings.Repeat("b", 997), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dialect.ValidateIdentifier(tt.identifier)
			if tt.expectError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDialectStatements(t *testing.T) {
	pg := postgresDialect.insert("test_results")
	if !strings.HasSuffix(pg, "$14, $15)") {
		t.Errorf("postgres insert placeholders: %s", pg)
	}
	if strings.Count(mysqlDialect.insert("test_results"), "?") != len(insertColumns) {
		t.Errorf("mysql insert: %s", mysqlDialect.insert("test_results"))
	}

	create := sqliteDialect.createTable("test_results")
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS test_results",
		"id INTEGER PRIMARY KEY AUTOINCREMENT",
		"run_id TEXT NOT NULL",
		"started_at DATETIME",
	} {
		if !strings.Contains(create, want) {
			t.Errorf("sqlite create table lacks %q:\n%s", want, create)
		}
	}
	if !strings.Contains(postgresDialect.createTable("r"), "id BIGSERIAL PRIMARY KEY") {
		t.Error("postgres id column")
	}
	if !strings.Contains(mysqlDialect.createTable("r"), "started_at DATETIME(3)") {
		t.Error("mysql time column")
	}
}

func TestNewSQLWriter_Validation(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name, sink, dsn, table, wantErr string
	}{
		{"unsupported sink", "oracle", "x", "results", "unsupported SQL sink"},
		{"empty dsn", SinkPostgreSQL, "", "results", "connection string is required"},
		{"bad table", SinkSQLite, "file.db", "drop", "invalid table name"},
		{"bad mysql dsn", SinkMySQL, "not a dsn", "results", "invalid MySQL DSN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSQLWriter(ctx, tt.sink, tt.dsn, tt.table)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPrepareSQLite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history", "db")
	dsn, err := prepareSQLite(filepath.Join(dir, "results.db"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dsn, "_journal_mode=WAL") {
		t.Errorf("default parameters missing: %s", dsn)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory not created: %v", err)
	}

	custom, err := prepareSQLite("file::memory:?cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	if custom != "file::memory:?cache=shared" {
		t.Errorf("explicit parameters changed: %s", custom)
	}
}

func TestPrepareMySQL(t *testing.T) {
	dsn, err := prepareMySQL("runner:secret@tcp(db:3306)/results")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("parseTime not set: %s", dsn)
	}
}

func TestSQLiteWriter_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	w, err := NewSQLWriter(ctx, SinkSQLite, filepath.Join(dir, "history.db"), "test_results")
	if err != nil {
		// go-sqlite3 needs cgo.
		if strings.Contains(err.Error(), "CGO") || strings.Contains(err.Error(), "cgo") {
			t.Skipf("sqlite unavailable: %v", err)
		}
		t.Fatal(err)
	}
	defer w.Close()

	if w.Name() != "sqlite" {
		t.Errorf("name %q", w.Name())
	}
	r := sampleReport(dir)
	if err := w.Write(ctx, r); err != nil {
		t.Fatal(err)
	}
	n, err := w.Count(ctx, r.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(r.Cases) {
		t.Errorf("stored %d rows, want %d", n, len(r.Cases))
	}
	if n, _ := w.Count(ctx, "other"); n != 0 {
		t.Errorf("other run has %d rows", n)
	}
}
