// internal/output/sql.go
package output

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SQL identifier regex: starts with letter or underscore, contains letters, digits, underscores
var sqlIdentifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// dialect captures what differs between the SQL result sinks.
type dialect struct {
	name      string
	driver    string
	maxIdent  int
	reserved  map[string]bool
	textType  string
	timeType  string
	intType   string
	bigType   string
	idColumn  string
	param     func(n int) string
	prepare   func(dsn string) (string, error)
	configure func(db *sql.DB) error
}

func questionMark(int) string { return "?" }

// ValidateIdentifier checks that name is a safe table name for the dialect.
func (d dialect) ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if len(name) > d.maxIdent {
		return fmt.Errorf("identifier too long: %d characters (max %d for %s)", len(name), d.maxIdent, d.name)
	}
	if !sqlIdentifierRegex.MatchString(name) {
		return fmt.Errorf("invalid identifier format: %s", name)
	}
	if d.reserved[strings.ToUpper(name)] {
		return fmt.Errorf("identifier is a reserved %s keyword: %s", d.name, name)
	}
	return nil
}

func (d dialect) createTable(table string) string {
	cols := []string{
		d.idColumn,
		"run_id " + d.textType + " NOT NULL",
		"title " + d.textType,
		"module " + d.textType + " NOT NULL",
		"name " + d.textType + " NOT NULL",
		"status " + d.textType + " NOT NULL",
		"started_at " + d.timeType,
		"duration_ms " + d.bigType,
		"tags " + d.textType,
		"failures " + d.textType,
		"error " + d.textType,
		"screenshot " + d.textType,
		"click_attempts " + d.intType,
		"forced_clicks " + d.intType,
		"browser " + d.textType,
		"base_url " + d.textType,
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(cols, ",\n\t"))
}

var insertColumns = []string{
	"run_id", "title", "module", "name", "status", "started_at", "duration_ms", "tags",
	"failures", "error", "screenshot", "click_attempts", "forced_clicks", "browser", "base_url",
}

func (d dialect) insert(table string) string {
	params := make([]string, len(insertColumns))
	for i := range params {
		params[i] = d.param(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(insertColumns, ", "), strings.Join(params, ", "))
}

// SQLWriter appends one row per case to a results table
type SQLWriter struct {
	db      *sql.DB
	dialect dialect
	table   string
}

func dialectFor(sinkType string) (dialect, error) {
	switch sinkType {
	case SinkSQLite:
		return sqliteDialect, nil
	case SinkPostgreSQL:
		return postgresDialect, nil
	case SinkMySQL:
		return mysqlDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported SQL sink: %s", sinkType)
	}
}

// NewSQLWriter connects to dsn and creates the table if needed.
func NewSQLWriter(ctx context.Context, sinkType, dsn, table string) (*SQLWriter, error) {
	d, err := dialectFor(sinkType)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, fmt.Errorf("%s connection string is required", d.name)
	}
	if err := d.ValidateIdentifier(table); err != nil {
		return nil, fmt.Errorf("invalid table name: %w", err)
	}
	if d.prepare != nil {
		if dsn, err = d.prepare(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", d.name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", d.name, err)
	}
	if d.configure != nil {
		if err := d.configure(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, d.createTable(table)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return &SQLWriter{db: db, dialect: d, table: table}, nil
}

func (w *SQLWriter) Name() string { return w.dialect.name }

// Write inserts every case in one transaction.
func (w *SQLWriter) Write(ctx context.Context, r *Report) error {
	if len(r.Cases) == 0 {
		return nil
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, w.dialect.insert(w.table))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range r.Rows() {
		var started interface{}
		if !row.Start.IsZero() {
			started = row.Start.UTC().Truncate(time.Millisecond)
		}
		if _, err := stmt.ExecContext(ctx,
			row.RunID, r.Title, row.Module, row.Name, row.Status, started, row.DurationMS, row.Tags,
			row.Failures, row.Error, row.Screenshot, row.ClickAttempts, row.ForcedClicks,
			r.Environment.Browser, r.Environment.BaseURL,
		); err != nil {
			return fmt.Errorf("failed to insert %s/%s: %w", row.Module, row.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Count returns how many rows a run stored.
func (w *SQLWriter) Count(ctx context.Context, runID string) (int, error) {
	var n int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE run_id = %s", w.table, w.dialect.param(1))
	if err := w.db.QueryRowContext(ctx, q, runID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (w *SQLWriter) Close() error {
	if w.db == nil {
		return nil
	}
	err := w.db.Close()
	w.db = nil
	return err
}
