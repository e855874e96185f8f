package db

import (
	"strconv"
	"strings"
)

// Dialect selects the placeholder style of the underlying driver. Queries
// are written with "?" placeholders and rebound per dialect.
type Dialect int

const (
	DialectSqlite Dialect = iota
	DialectPostgres
)

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// Rebind rewrites "?" placeholders into "$n" for Postgres.
func (d Dialect) Rebind(q string) string {
	if d != DialectPostgres {
		return q
	}

	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
