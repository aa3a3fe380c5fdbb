package orm

import (
	"context"
	"fmt"
	"strings"

	"simpleorm/internal/errors"
)

// insert writes a new row from e's attributes and re-reads it so that store
// defaults and the generated key are reflected in memory. A nil attribute is
// sent as NULL only when it was given in the load data or through Set;
// other nils are left to the column default.
func (m *Model[E]) insert(ctx context.Context, e E) error {
	eng, err := m.Engine()
	if err != nil {
		return err
	}
	r := e.base()

	fields := r.Fields()
	if m.preInsert != nil {
		m.preInsert(e, fields)
	}
	fields, err = m.applyInputFilters(e, fields)
	if err != nil {
		return err
	}

	cols, err := eng.Columns(ctx, m.binding.Table)
	if err != nil {
		return err
	}

	var (
		names []string
		marks []string
		args  []any
	)
	for _, c := range cols {
		if c == m.binding.PrimaryKey && !m.binding.KeepKeyOnInsert {
			continue
		}
		v, ok := fields[c]
		if !ok || (v == nil && !r.explicit(c)) {
			continue
		}
		args = append(args, v)
		names = append(names, eng.quote(c))
		marks = append(marks, eng.placeholder(len(args)))
	}

	table := eng.quote(m.binding.Table)
	key := eng.quote(m.binding.PrimaryKey)

	var stmt string
	if len(names) == 0 {
		stmt = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", table, key)
	} else {
		stmt = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			table, strings.Join(names, ", "), strings.Join(marks, ", "), key)
	}

	id, err := eng.queryValue(ctx, m.binding.Table, stmt, args...)
	if err != nil {
		return err
	}
	if id != nil {
		r.Assign(m.binding.PrimaryKey, id)
	}
	r.isNew = false

	if err := m.hydrateFromStore(ctx, e); err != nil {
		return err
	}
	r.changes.reset()

	if m.postInsert != nil {
		m.postInsert(e)
	}
	return nil
}

// update writes every attribute that maps to a column back to e's row
func (m *Model[E]) update(ctx context.Context, e E) error {
	r := e.base()
	if err := m.persisted(r, "update"); err != nil {
		return err
	}

	eng, err := m.Engine()
	if err != nil {
		return err
	}

	fields, err := m.applyInputFilters(e, r.Fields())
	if err != nil {
		return err
	}

	cols, err := eng.Columns(ctx, m.binding.Table)
	if err != nil {
		return err
	}

	var (
		sets []string
		args []any
	)
	for _, c := range cols {
		if c == m.binding.PrimaryKey && !m.binding.KeepKeyOnUpdate {
			continue
		}
		v, ok := fields[c]
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = %s", eng.quote(c), eng.placeholder(len(args))))
	}

	if len(sets) == 0 {
		r.changes.reset()
		return nil
	}

	args = append(args, r.ID())
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		eng.quote(m.binding.Table), strings.Join(sets, ", "),
		eng.quote(m.binding.PrimaryKey), eng.placeholder(len(args)))

	if _, err := eng.exec(ctx, m.binding.Table, stmt, args...); err != nil {
		return err
	}
	r.changes.reset()
	return nil
}

// delete removes e's row
func (m *Model[E]) delete(ctx context.Context, e E) error {
	r := e.base()
	if err := m.persisted(r, "delete"); err != nil {
		return err
	}

	eng, err := m.Engine()
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		eng.quote(m.binding.Table), eng.quote(m.binding.PrimaryKey), eng.placeholder(1))
	_, err = eng.exec(ctx, m.binding.Table, stmt, r.ID())
	return err
}

// persisted guards operations that need an existing row
func (m *Model[E]) persisted(r *Record, op string) error {
	if r.isNew {
		return errors.NewInvalidStateError(m.name, op, "record is new and has not been inserted")
	}
	if r.ID() == nil {
		return errors.NewInvalidStateError(m.name, op, "primary key is not set")
	}
	return nil
}
