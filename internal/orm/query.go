package orm

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"simpleorm/internal/errors"
)

// expand substitutes the :database, :table and :pk shortcuts. The result is
// executed verbatim, so raw statements must come from trusted code.
func (m *Model[E]) expand(eng *Engine, raw string) string {
	return strings.NewReplacer(
		":database", eng.database,
		":table", eng.quote(m.binding.Table),
		":pk", eng.quote(m.binding.PrimaryKey),
	).Replace(raw)
}

// SQL runs a raw statement after shortcut expansion and hydrates the rows.
// Values belong in args, bound by the dialect's placeholders.
func (m *Model[E]) SQL(ctx context.Context, mode FetchMode, raw string, args ...any) ([]E, error) {
	eng, err := m.Engine()
	if err != nil {
		return nil, err
	}
	return m.fetch(ctx, eng, m.expand(eng, raw), mode, args...)
}

// All returns every row of the table
func (m *Model[E]) All(ctx context.Context) ([]E, error) {
	return m.SQL(ctx, FetchMany, "SELECT * FROM :table")
}

// Count runs a raw counting statement and returns its first column as an
// integer. Empty, null and negative results count as zero.
func (m *Model[E]) Count(ctx context.Context, raw string, args ...any) (int64, error) {
	eng, err := m.Engine()
	if err != nil {
		return 0, err
	}

	v, err := eng.queryValue(ctx, m.binding.Table, m.expand(eng, raw), args...)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	n := toCount(v)
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

func toCount(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float64:
		return int64(x)
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
			return n
		}
		if f, ok := parseNumber(x); ok {
			return int64(f)
		}
	}
	return 0
}

// Truncate DELETES EVERY ROW of the table. It asks for no confirmation and
// cannot be undone; the table's columns are left as they are.
func (m *Model[E]) Truncate(ctx context.Context) error {
	eng, err := m.Engine()
	if err != nil {
		return err
	}
	eng.logger.WarnContext(ctx, "truncating table", "table", m.binding.Table)
	_, err = eng.exec(ctx, m.binding.Table, eng.dialect.TruncateStatement(m.binding.Table))
	return err
}

// SelectOption is one entry of a select box: the row's key and its display label
type SelectOption struct {
	Value any
	Label string
}

// SelectOptions lists every row, optionally narrowed by a trusted WHERE
// clause, as key/label pairs in store order. The model needs WithLabel or
// an entity type implementing fmt.Stringer.
func (m *Model[E]) SelectOptions(ctx context.Context, where string) ([]SelectOption, error) {
	label := m.label
	if label == nil {
		if _, ok := any(m.newFn()).(fmt.Stringer); !ok {
			return nil, fmt.Errorf("%w: %s has no label function and does not implement fmt.Stringer", errors.ErrNoLabel, m.name)
		}
		label = func(e E) string { return any(e).(fmt.Stringer).String() }
	}

	raw := "SELECT * FROM :table"
	if where != "" {
		raw += " WHERE " + where
	}

	found, err := m.SQL(ctx, FetchMany, raw)
	if err != nil {
		return nil, err
	}

	out := make([]SelectOption, 0, len(found))
	for _, e := range found {
		out = append(out, SelectOption{Value: e.base().ID(), Label: label(e)})
	}
	return out, nil
}
