// internal/output/postgresql.go
package output

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// MaxPostgreSQLIdentifierLength is NAMEDATALEN - 1.
const MaxPostgreSQLIdentifierLength = 63

// Reserved SQL keywords for PostgreSQL (from https://www.postgresql.org/docs/current/sql-keywords-appendix.html)
var postgresReservedWords = keywordSet(
	"ALL ANALYSE ANALYZE AND ANY ARRAY AS ASC ASYMMETRIC AUTHORIZATION BINARY BOTH CASE CAST CHECK " +
		"COLLATE COLLATION COLUMN CONCURRENTLY CONSTRAINT CREATE CROSS CURRENT_CATALOG CURRENT_DATE " +
		"CURRENT_ROLE CURRENT_SCHEMA CURRENT_TIME CURRENT_TIMESTAMP CURRENT_USER DEFAULT DEFERRABLE DESC " +
		"DISTINCT DO ELSE END EXCEPT FALSE FETCH FOR FOREIGN FREEZE FROM FULL GRANT GROUP HAVING ILIKE IN " +
		"INITIALLY INNER INTERSECT INTO IS ISNULL JOIN LATERAL LEADING LEFT LIKE LIMIT LOCALTIME " +
		"LOCALTIMESTAMP NATURAL NOT NOTNULL NULL OFFSET ON ONLY OR ORDER OUTER OVERLAPS PLACING PRIMARY " +
		"REFERENCES RETURNING RIGHT SELECT SESSION_USER SIMILAR SOME SYMMETRIC TABLE TABLESAMPLE THEN TO " +
		"TRAILING TRUE UNION UNIQUE USER USING VARIADIC VERBOSE WHEN WHERE WINDOW WITH")

var postgresDialect = dialect{
	name:     "postgresql",
	driver:   "postgres",
	maxIdent: MaxPostgreSQLIdentifierLength,
	reserved: postgresReservedWords,
	textType: "TEXT",
	timeType: "TIMESTAMPTZ",
	intType:  "INTEGER",
	bigType:  "BIGINT",
	idColumn: "id BIGSERIAL PRIMARY KEY",
	param:    func(n int) string { return fmt.Sprintf("$%d", n) },
	configure: func(db *sql.DB) error {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
		return nil
	},
}
