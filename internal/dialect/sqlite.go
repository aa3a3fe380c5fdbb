package dialect

import (
	_ "modernc.org/sqlite"
)

// SQLite speaks to modernc.org/sqlite (pure Go, driver name "sqlite").
// RETURNING requires SQLite 3.35 or newer, which the bundled library satisfies.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) DriverName() string { return "sqlite" }

func (SQLite) Quote(ident string) string { return quoteDouble(ident) }

func (SQLite) Placeholder(int) string { return "?" }

// ColumnsQuery reads the table_info pragma through its table-valued form so
// the table name can be bound like any other value.
func (SQLite) ColumnsQuery() string {
	return `SELECT name FROM pragma_table_info(?) ORDER BY cid`
}

func (SQLite) PatternOperator() string { return "LIKE" }

// TruncateStatement falls back to an unqualified DELETE; SQLite has no TRUNCATE.
func (s SQLite) TruncateStatement(table string) string {
	return "DELETE FROM " + s.Quote(table)
}
