package orm

import (
	"context"
	"fmt"

	"simpleorm/internal/errors"
)

// Load constructs an entity in the given mode. data is the key for
// LoadByPK, a field map for LoadByData and LoadNew, and ignored for LoadEmpty.
func (m *Model[E]) Load(ctx context.Context, mode LoadMode, data any) (E, error) {
	var zero E

	e := m.instantiate(mode, data)
	r := e.base()

	switch mode {
	case LoadByPK:
		if err := validateKey(data); err != nil {
			return zero, err
		}
		r.Assign(m.binding.PrimaryKey, data)
		if err := m.hydrateFromStore(ctx, e); err != nil {
			return zero, err
		}

	case LoadByData, LoadNew:
		fields, err := asFields(data)
		if err != nil {
			return zero, err
		}
		for k, v := range fields {
			r.Assign(k, v)
		}
		m.runOutputFilters(e)

		if mode == LoadNew {
			if err := m.insert(ctx, e); err != nil {
				return zero, err
			}
		}

	case LoadEmpty:
		cols, err := m.Columns(ctx)
		if err != nil {
			return zero, err
		}
		for _, c := range cols {
			r.Assign(c, nil)
		}
		r.isNew = true

	default:
		return zero, errors.NewInvalidArgumentError("mode", fmt.Sprintf("unknown load mode %v", mode))
	}

	if m.initialise != nil {
		m.initialise(e)
	}
	return e, nil
}

// FindByPK loads the row whose primary key equals pk
func (m *Model[E]) FindByPK(ctx context.Context, pk any) (E, error) {
	return m.Load(ctx, LoadByPK, pk)
}

// Hydrate builds an entity from data without touching the store
func (m *Model[E]) Hydrate(ctx context.Context, data Fields) (E, error) {
	return m.Load(ctx, LoadByData, data)
}

// Create builds an entity from data and inserts it. A nil value in data is
// written as NULL; columns missing from data take their store default.
func (m *Model[E]) Create(ctx context.Context, data Fields) (E, error) {
	return m.Load(ctx, LoadNew, data)
}

// Empty builds a new entity with every column set to nil
func (m *Model[E]) Empty(ctx context.Context) (E, error) {
	return m.Load(ctx, LoadEmpty, nil)
}

// RevertCopy returns a detached copy of e re-read from the store; e itself
// is left untouched
func (m *Model[E]) RevertCopy(ctx context.Context, e E) (E, error) {
	var zero E

	src := e.base()
	c := m.instantiate(src.mode, src.loadData)
	c.base().copyFrom(src)

	if err := m.revert(ctx, c); err != nil {
		return zero, err
	}
	return c, nil
}

// hydrateFromStore reads the row matching e's key and runs output filters
func (m *Model[E]) hydrateFromStore(ctx context.Context, e E) error {
	eng, err := m.Engine()
	if err != nil {
		return err
	}

	r := e.base()
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s",
		eng.quote(m.binding.Table), eng.quote(m.binding.PrimaryKey), eng.placeholder(1))

	rows, err := eng.query(ctx, m.binding.Table, query, r.ID())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return errors.NewNotFoundError(m.name, r.ID())
	}

	for k, v := range rows[0] {
		r.Assign(k, v)
	}
	m.runOutputFilters(e)
	return nil
}

func (m *Model[E]) revert(ctx context.Context, e E) error {
	r := e.base()
	if r.ID() == nil {
		return errors.NewInvalidStateError(m.name, "revert", "primary key is not set")
	}
	if err := m.hydrateFromStore(ctx, e); err != nil {
		return err
	}
	r.changes.reset()
	return nil
}

// validateKey rejects keys that cannot identify a row
func validateKey(pk any) error {
	switch v := pk.(type) {
	case nil:
		return errors.NewInvalidArgumentError("pk", "the PK must be a valid value")
	case string:
		if v == "" {
			return errors.NewInvalidArgumentError("pk", "the PK must be a valid value")
		}
	case []byte:
		if len(v) == 0 {
			return errors.NewInvalidArgumentError("pk", "the PK must be a valid value")
		}
	}
	return nil
}

func asFields(data any) (Fields, error) {
	switch v := data.(type) {
	case Fields:
		if v != nil {
			return v, nil
		}
	case map[string]any:
		if v != nil {
			return Fields(v), nil
		}
	}
	return nil, errors.NewInvalidArgumentError("data", "the data given must be a field map")
}
