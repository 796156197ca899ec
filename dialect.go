package filtex

import "fmt"

// Dialect represents supported database dialects for SQL rendering.
// This type is shared across all packages.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
	DialectMariaDB  Dialect = "mariadb"
)

// ParseDialect validates a dialect name from config or CLI flags
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(name) {
	case DialectPostgres, DialectMySQL, DialectSQLite, DialectMariaDB:
		return Dialect(name), nil
	default:
		return "", fmt.Errorf("%w: %q (postgres, mysql, sqlite, mariadb)", ErrUnknownDialect, name)
	}
}

// OrdinalPlaceholders reports whether the dialect numbers its placeholders
// ($1, $2, ...) instead of using positional '?'.
func (d Dialect) OrdinalPlaceholders() bool {
	return d == DialectPostgres
}

// BackslashStringLiterals reports whether the dialect treats a backslash
// inside a string literal as an escape character, so generated SQL text must
// double backslashes it wants taken literally.
func (d Dialect) BackslashStringLiterals() bool {
	return d == DialectMySQL || d == DialectMariaDB
}
