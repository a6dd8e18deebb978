// internal/output/mysql.go
package output

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MaxMySQLIdentifierLength is the MySQL limit for table names.
const MaxMySQLIdentifierLength = 64

// Reserved words likely to collide with table names (from
// https://dev.mysql.com/doc/refman/8.0/en/keywords.html).
var mysqlReservedWords = keywordSet(
	"ACCESSIBLE ADD ALL ALTER ANALYZE AND AS ASC BEFORE BETWEEN BIGINT BINARY BLOB BOTH BY CALL CASCADE " +
		"CASE CHANGE CHAR CHECK COLLATE COLUMN CONDITION CONSTRAINT CONTINUE CONVERT CREATE CROSS CUBE " +
		"CURRENT_DATE CURRENT_TIME CURRENT_TIMESTAMP CURRENT_USER CURSOR DATABASE DATABASES DEFAULT DELETE " +
		"DESC DESCRIBE DISTINCT DIV DOUBLE DROP EACH ELSE ELSEIF EXISTS EXIT EXPLAIN FALSE FETCH FLOAT FOR " +
		"FORCE FOREIGN FROM FULLTEXT GRANT GROUP GROUPS HAVING IF IGNORE IN INDEX INNER INSERT INT INTEGER " +
		"INTERVAL INTO IS JOIN KEY KEYS KILL LEADING LEFT LIKE LIMIT LINES LOAD LOCK LONG LOOP MATCH MOD " +
		"NATURAL NOT NULL NUMERIC ON OPTION OR ORDER OUT OUTER PARTITION PRIMARY PROCEDURE RANGE READ " +
		"REFERENCES REGEXP RENAME REPEAT REPLACE REQUIRE RESTRICT RETURN REVOKE RIGHT RLIKE ROW ROWS " +
		"SCHEMA SELECT SET SHOW SPATIAL SQL TABLE THEN TO TRAILING TRIGGER TRUE UNION UNIQUE UNLOCK " +
		"UPDATE USAGE USE USING VALUES WHEN WHERE WHILE WINDOW WITH WRITE")

var mysqlDialect = dialect{
	name:     "mysql",
	driver:   "mysql",
	maxIdent: MaxMySQLIdentifierLength,
	reserved: mysqlReservedWords,
	textType: "TEXT",
	timeType: "DATETIME(3)",
	intType:  "INT",
	bigType:  "BIGINT",
	idColumn: "id BIGINT AUTO_INCREMENT PRIMARY KEY",
	param:    questionMark,
	prepare:  prepareMySQL,
	configure: func(db *sql.DB) error {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(3 * time.Minute)
		return nil
	},
}

// prepareMySQL validates the DSN and turns on time parsing so started_at
// scans into time.Time.
func prepareMySQL(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	return cfg.FormatDSN(), nil
}
