package storage

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Dialect names a supported SQL database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect validates a dialect name.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case DialectSQLite, DialectPostgres:
		return Dialect(s), nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", s)
	}
}

func (d Dialect) bindType() int {
	if d == DialectPostgres {
		return sqlx.DOLLAR
	}
	return sqlx.QUESTION
}

// yearExpr and monthExpr extract the UTC calendar parts of created_at.
func (d Dialect) yearExpr() string {
	if d == DialectPostgres {
		return "CAST(EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC') AS INTEGER)"
	}
	return "CAST(strftime('%Y', created_at, 'unixepoch') AS INTEGER)"
}

func (d Dialect) monthExpr() string {
	if d == DialectPostgres {
		return "CAST(EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC') AS INTEGER)"
	}
	return "CAST(strftime('%m', created_at, 'unixepoch') AS INTEGER)"
}

func (d Dialect) nowExpr() string {
	if d == DialectPostgres {
		return "now()"
	}
	return "strftime('%s', 'now')"
}

// timeArg converts t to the column representation of created_at.
func (d Dialect) timeArg(t time.Time) any {
	if d == DialectPostgres {
		return t.UTC()
	}
	return t.UTC().Unix()
}

func (d Dialect) rebind(query string) string {
	return sqlx.Rebind(d.bindType(), query)
}
