package orm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"simpleorm/internal/errors"
)

// FetchMode selects what a finder does with the statement's result
type FetchMode int

const (
	// FetchOne limits the result to the first matching row
	FetchOne FetchMode = iota + 1
	// FetchMany returns every matching row
	FetchMany
	// FetchNone executes the statement and discards any rows
	FetchNone
)

func (f FetchMode) String() string {
	switch f {
	case FetchOne:
		return "one"
	case FetchMany:
		return "many"
	case FetchNone:
		return "none"
	default:
		return fmt.Sprintf("FetchMode(%d)", int(f))
	}
}

// Wildcard in a string finder value switches the comparison to pattern matching
const Wildcard = "%"

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// ColumnName converts a Go-style field name to its snake_case column,
// e.g. "EmailAddress" -> "email_address"
func ColumnName(field string) string {
	return strings.ToLower(camelBoundary.ReplaceAllString(field, "${1}_${2}"))
}

// FindByField selects rows whose column equals value. A string value holding
// Wildcard is matched with the dialect's pattern operator instead.
func (m *Model[E]) FindByField(ctx context.Context, field string, value any, mode FetchMode) ([]E, error) {
	if strings.TrimSpace(field) == "" {
		return nil, errors.NewInvalidArgumentError("field", "the field name must be a non-empty string")
	}

	eng, err := m.Engine()
	if err != nil {
		return nil, err
	}

	op := "="
	if s, ok := value.(string); ok && strings.Contains(s, Wildcard) {
		op = eng.dialect.PatternOperator()
	}

	stmt := fmt.Sprintf("SELECT * FROM %s WHERE %s %s %s",
		eng.quote(m.binding.Table), eng.quote(field), op, eng.placeholder(1))
	if mode == FetchOne {
		stmt += " LIMIT 1"
	}

	return m.fetch(ctx, eng, stmt, mode, value)
}

// FindFirstByField returns the first row matching FindByField, or a
// NotFoundError when nothing matches
func (m *Model[E]) FindFirstByField(ctx context.Context, field string, value any) (E, error) {
	var zero E

	found, err := m.FindByField(ctx, field, value, FetchOne)
	if err != nil {
		return zero, err
	}
	if len(found) == 0 {
		return zero, errors.NewNotFoundError(m.name, value)
	}
	return found[0], nil
}

// FindBy is FindByField with a Go-style field name, e.g. FindBy(ctx, "EmailAddress", ...)
func (m *Model[E]) FindBy(ctx context.Context, name string, value any, mode FetchMode) ([]E, error) {
	return m.FindByField(ctx, ColumnName(name), value, mode)
}

// fetch runs stmt and hydrates each row according to mode
func (m *Model[E]) fetch(ctx context.Context, eng *Engine, stmt string, mode FetchMode, args ...any) ([]E, error) {
	switch mode {
	case FetchNone:
		_, err := eng.exec(ctx, m.binding.Table, stmt, args...)
		return nil, err
	case FetchOne, FetchMany:
	default:
		return nil, errors.NewInvalidArgumentError("mode", fmt.Sprintf("unknown fetch mode %v", mode))
	}

	rows, err := eng.query(ctx, m.binding.Table, stmt, args...)
	if err != nil {
		return nil, err
	}
	if mode == FetchOne && len(rows) > 1 {
		rows = rows[:1]
	}

	out := make([]E, 0, len(rows))
	for _, row := range rows {
		e, err := m.Load(ctx, LoadByData, row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
