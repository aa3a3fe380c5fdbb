package dialect

import (
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"
)

// Postgres speaks to PostgreSQL. The default driver is pgx; lib/pq can be
// selected by configuring the driver name "postgres".
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) DriverName() string { return "pgx" }

func (Postgres) Quote(ident string) string { return quoteDouble(ident) }

func (Postgres) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

// ColumnsQuery filters by table name only; tables are expected to live in a
// schema on the connection's search path.
func (Postgres) ColumnsQuery() string {
	return `SELECT column_name FROM information_schema.columns WHERE table_name = $1 ORDER BY ordinal_position`
}

// PatternOperator is case-insensitive on postgres
func (Postgres) PatternOperator() string { return "ILIKE" }

func (p Postgres) TruncateStatement(table string) string {
	return "TRUNCATE " + p.Quote(table)
}
