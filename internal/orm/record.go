package orm

import (
	"context"
	"fmt"

	"simpleorm/internal/errors"
)

// Fields maps column names to values
type Fields map[string]any

// LoadMode selects how an entity is populated at construction
type LoadMode int

const (
	LoadByPK LoadMode = iota + 1
	LoadByData
	LoadNew
	LoadEmpty
)

func (m LoadMode) String() string {
	switch m {
	case LoadByPK:
		return "by_pk"
	case LoadByData:
		return "by_data"
	case LoadNew:
		return "new"
	case LoadEmpty:
		return "empty"
	default:
		return fmt.Sprintf("LoadMode(%d)", int(m))
	}
}

// Entity is implemented by every type that embeds Record
type Entity interface {
	base() *Record
}

// persister performs store round-trips on behalf of one bound record
type persister interface {
	insert(ctx context.Context) error
	update(ctx context.Context) error
	delete(ctx context.Context) error
	reload(ctx context.Context) error
}

// Record is the state shared by every mapped entity. Embed it by value:
//
//	type User struct{ orm.Record }
type Record struct {
	attrs    Fields
	pk       string
	isNew    bool
	mode     LoadMode
	loadData any
	equality Equality
	changes  changeSet
	parent   Entity
	p        persister
}

func (r *Record) base() *Record { return r }

// ID returns the primary-key value, nil until the first insert
func (r *Record) ID() any {
	return r.attrs[r.pkName()]
}

func (r *Record) pkName() string {
	if r.pk == "" {
		return DefaultPrimaryKey
	}
	return r.pk
}

// IsNew reports whether the record has not been inserted yet
func (r *Record) IsNew() bool {
	return r.isNew
}

// LoadMode returns the mode the record was constructed with
func (r *Record) LoadMode() LoadMode {
	return r.mode
}

// LoadData returns the raw input given at construction (key or field map)
func (r *Record) LoadData() any {
	return r.loadData
}

// Get returns one attribute, nil when unset
func (r *Record) Get(field string) any {
	return r.attrs[field]
}

// Has reports whether the attribute is present, even if nil
func (r *Record) Has(field string) bool {
	_, ok := r.attrs[field]
	return ok
}

// Text returns an attribute in its printed form, "" for nil
func (r *Record) Text(field string) string {
	switch v := r.attrs[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Fields returns a copy of all attributes
func (r *Record) Fields() Fields {
	out := make(Fields, len(r.attrs))
	for k, v := range r.attrs {
		out[k] = v
	}
	return out
}

// Assign writes an attribute without recording a change. Output filters and
// hooks use it to rewrite state in place.
func (r *Record) Assign(field string, value any) {
	if r.attrs == nil {
		r.attrs = make(Fields)
	}
	r.attrs[field] = value
}

// Set writes an attribute and records the change when the value differs
// from the current one. An unset or nil current value always counts as a change.
func (r *Record) Set(field string, value any) *Record {
	cur, ok := r.attrs[field]
	if !ok || cur == nil || !r.equal(cur, value) {
		r.changes.record(field, value)
	}
	r.Assign(field, value)
	return r
}

func (r *Record) equal(a, b any) bool {
	if r.equality == nil {
		return LooseEqual(a, b)
	}
	return r.equality(a, b)
}

// Modified returns the pending changes since the last load or save. A field
// changed once maps to its new value; a field changed repeatedly maps to a
// []any holding every attempted value in order.
func (r *Record) Modified() (map[string]any, bool) {
	if r.changes.len() == 0 {
		return nil, false
	}
	return r.changes.snapshot(), true
}

// explicit reports whether field was given by the caller, in the load data
// of a new record or through Set, rather than filled in as a placeholder
func (r *Record) explicit(field string) bool {
	if _, ok := r.changes.history[field]; ok {
		return true
	}
	if r.mode != LoadNew {
		return false
	}
	switch data := r.loadData.(type) {
	case Fields:
		_, ok := data[field]
		return ok
	case map[string]any:
		_, ok := data[field]
		return ok
	}
	return false
}

// Parent returns the non-owning association set with SetParent
func (r *Record) Parent() Entity {
	return r.parent
}

// SetParent records an owning entity for convenience; the engine never
// loads, saves or deletes it.
func (r *Record) SetParent(parent Entity) {
	r.parent = parent
}

// Save inserts a new record or updates a persisted one
func (r *Record) Save(ctx context.Context) error {
	p, err := r.bound("save")
	if err != nil {
		return err
	}
	if r.isNew {
		return p.insert(ctx)
	}
	return p.update(ctx)
}

// Update writes the current attributes to the existing row
func (r *Record) Update(ctx context.Context) error {
	p, err := r.bound("update")
	if err != nil {
		return err
	}
	return p.update(ctx)
}

// Delete removes the row. The in-memory record stays readable but no longer
// matches a stored row.
func (r *Record) Delete(ctx context.Context) error {
	p, err := r.bound("delete")
	if err != nil {
		return err
	}
	return p.delete(ctx)
}

// Revert re-reads the row, discarding in-memory attributes and changes
func (r *Record) Revert(ctx context.Context) error {
	p, err := r.bound("revert")
	if err != nil {
		return err
	}
	return p.reload(ctx)
}

func (r *Record) bound(op string) (persister, error) {
	if r.p == nil {
		return nil, errors.NewInvalidStateError("record", op, "record is not bound to a model")
	}
	return r.p, nil
}

// copyFrom duplicates src's state, leaving the persister untouched
func (r *Record) copyFrom(src *Record) {
	r.attrs = src.Fields()
	r.isNew = src.isNew
	r.parent = src.parent
	r.changes = src.changes.clone()
}
