package orm

import (
	"context"

	"simpleorm/internal/errors"
)

// Columns returns the table's column names in physical order, read from the
// store's catalog. An empty result is reported as a missing table.
func (e *Engine) Columns(ctx context.Context, table string) ([]string, error) {
	if e.cacheSchema {
		e.schemaMu.RLock()
		cols, ok := e.schema[table]
		e.schemaMu.RUnlock()
		if ok {
			return append([]string(nil), cols...), nil
		}
	}

	query := e.dialect.ColumnsQuery()
	e.trace(ctx, table, query, 1)

	rows, err := e.conn.QueryContext(ctx, query, table)
	if err != nil {
		return nil, errors.NewSchemaLookupError(table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.NewSchemaLookupError(table, err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewSchemaLookupError(table, err)
	}

	if len(cols) == 0 {
		return nil, errors.NewSchemaLookupError(table, nil)
	}

	if e.cacheSchema {
		e.schemaMu.Lock()
		e.schema[table] = append([]string(nil), cols...)
		e.schemaMu.Unlock()
	}

	return cols, nil
}

// InvalidateSchema drops cached columns for the given tables, or for all
// tables when none are given
func (e *Engine) InvalidateSchema(tables ...string) {
	e.schemaMu.Lock()
	defer e.schemaMu.Unlock()

	if len(tables) == 0 {
		e.schema = make(map[string][]string)
		return
	}
	for _, t := range tables {
		delete(e.schema, t)
	}
}
