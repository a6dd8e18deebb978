// internal/output/sqlite.go
package output

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MaxSQLiteIdentifierLength is a practical limit; SQLite itself has none.
const MaxSQLiteIdentifierLength = 999

// Reserved SQL keywords for SQLite (from https://www.sqlite.org/lang_keywords.html)
var sqliteReservedWords = keywordSet(
	"ABORT ACTION ADD AFTER ALL ALTER ANALYZE AND AS ASC ATTACH AUTOINCREMENT BEFORE BEGIN BETWEEN BY " +
		"CASCADE CASE CAST CHECK COLLATE COLUMN COMMIT CONFLICT CONSTRAINT CREATE CROSS CURRENT " +
		"CURRENT_DATE CURRENT_TIME CURRENT_TIMESTAMP DATABASE DEFAULT DEFERRABLE DEFERRED DELETE DESC " +
		"DETACH DISTINCT DROP EACH ELSE END ESCAPE EXCEPT EXCLUSIVE EXISTS EXPLAIN FAIL FOR FOREIGN FROM " +
		"FULL GLOB GROUP HAVING IF IGNORE IMMEDIATE IN INDEX INDEXED INITIALLY INNER INSERT INSTEAD " +
		"INTERSECT INTO IS ISNULL JOIN KEY LEFT LIKE LIMIT MATCH NATURAL NO NOT NOTNULL NULL OF OFFSET " +
		"ON OR ORDER OUTER PLAN PRAGMA PRIMARY QUERY RAISE RECURSIVE REFERENCES REGEXP REINDEX RELEASE " +
		"RENAME REPLACE RESTRICT RIGHT ROLLBACK ROW SAVEPOINT SELECT SET TABLE TEMP TEMPORARY THEN TO " +
		"TRANSACTION TRIGGER UNION UNIQUE UPDATE USING VACUUM VALUES VIEW VIRTUAL WHEN WHERE WITH WITHOUT")

func keywordSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

var sqliteDialect = dialect{
	name:     "sqlite",
	driver:   "sqlite3",
	maxIdent: MaxSQLiteIdentifierLength,
	reserved: sqliteReservedWords,
	textType: "TEXT",
	timeType: "DATETIME",
	intType:  "INTEGER",
	bigType:  "INTEGER",
	idColumn: "id INTEGER PRIMARY KEY AUTOINCREMENT",
	param:    questionMark,
	prepare:  prepareSQLite,
	configure: func(db *sql.DB) error {
		db.SetMaxOpenConns(1) // SQLite works best with single writer
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		return nil
	},
}

// prepareSQLite creates the database directory and adds the default
// connection parameters when the DSN is a plain path.
func prepareSQLite(dsn string) (string, error) {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path != "" && path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return "", fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
	}
	return dsn, nil
}
