// Package dialect describes the SQL flavours the mapping engine can speak.
//
// A Dialect owns every piece of statement text that differs between stores:
// identifier quoting, positional placeholders, the catalog query used for
// column discovery, the pattern-match operator and the table wipe statement.
// Values are never interpolated by a dialect; they are always bound.
package dialect

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Dialect is the store protocol consumed by the engine
type Dialect interface {
	// Name is the registry key ("sqlite", "postgres")
	Name() string
	// DriverName is the database/sql driver used when none is configured
	DriverName() string
	// Quote quotes an identifier, escaping embedded quotes
	Quote(ident string) string
	// Placeholder returns the bind marker for the n-th (1-based) argument
	Placeholder(n int) string
	// ColumnsQuery returns the catalog query listing a table's columns in
	// physical order. It takes exactly one argument: the table name.
	ColumnsQuery() string
	// PatternOperator is the operator used when a finder value holds a wildcard
	PatternOperator() string
	// TruncateStatement empties a table
	TruncateStatement(table string) string
}

var (
	dialects = make(map[string]Dialect)
	mu       sync.RWMutex
)

// Register makes a dialect available by name.
// It panics if a dialect with the same name is already registered.
func Register(d Dialect) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := dialects[d.Name()]; exists {
		panic(fmt.Sprintf("dialect: %q already registered", d.Name()))
	}
	dialects[d.Name()] = d
}

// Lookup returns the dialect registered under name
func Lookup(name string) (Dialect, error) {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := dialects[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("dialect: unknown dialect %q (known: %s)", name, strings.Join(namesLocked(), ", "))
	}
	return d, nil
}

// Names lists registered dialects in sorted order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// quoteDouble is the ANSI identifier quoting shared by both built-in dialects
func quoteDouble(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func init() {
	Register(SQLite{})
	Register(Postgres{})
}
