package orm

import (
	"context"
	"reflect"
	"strings"
)

// DefaultPrimaryKey is the key column used when a binding names none
const DefaultPrimaryKey = "id"

// Binding is the static per-type metadata of a model
type Binding struct {
	// Table defaults to the lower-cased Go type name
	Table string
	// PrimaryKey defaults to "id"
	PrimaryKey string
	// Engine pins the model to an engine; nil resolves Current() per call
	Engine *Engine
	// Equality decides what Set records as a change; nil means LooseEqual
	Equality Equality
	// KeepKeyOnInsert sends the primary key in INSERT statements
	KeepKeyOnInsert bool
	// KeepKeyOnUpdate sends the primary key in the SET list of UPDATE statements
	KeepKeyOnUpdate bool
}

// InputFilter transforms the candidate field map before a write
type InputFilter[E Entity] func(e E, fields Fields) (Fields, error)

// Model maps entity type E to one table
type Model[E Entity] struct {
	newFn   func() E
	name    string
	binding Binding

	initialise    func(E)
	preInsert     func(E, Fields)
	postInsert    func(E)
	label         func(E) string
	outputFilters []func(E)
	inputFilters  []InputFilter[E]
}

// Option registers a hook on a model
type Option[E Entity] func(*Model[E])

// WithInitialise runs fn once after every construction, whatever the load mode
func WithInitialise[E Entity](fn func(E)) Option[E] {
	return func(m *Model[E]) { m.initialise = fn }
}

// WithPreInsert runs fn before input filters on insert. fn may edit the
// candidate field map in place.
func WithPreInsert[E Entity](fn func(E, Fields)) Option[E] {
	return func(m *Model[E]) { m.preInsert = fn }
}

// WithPostInsert runs fn after an insert has been re-read from the store
func WithPostInsert[E Entity](fn func(E)) Option[E] {
	return func(m *Model[E]) { m.postInsert = fn }
}

// WithOutputFilter appends a filter run after every read, in registration order
func WithOutputFilter[E Entity](fn func(E)) Option[E] {
	return func(m *Model[E]) { m.outputFilters = append(m.outputFilters, fn) }
}

// WithInputFilter appends a filter to the chain run before insert and update
func WithInputFilter[E Entity](fn InputFilter[E]) Option[E] {
	return func(m *Model[E]) { m.inputFilters = append(m.inputFilters, fn) }
}

// WithLabel sets the string conversion used by SelectOptions; without it the
// entity must implement fmt.Stringer
func WithLabel[E Entity](fn func(E) string) Option[E] {
	return func(m *Model[E]) { m.label = fn }
}

// NewModel binds entity type E to a table. newFn must return a fresh,
// non-nil entity on every call.
func NewModel[E Entity](newFn func() E, b Binding, opts ...Option[E]) *Model[E] {
	m := &Model[E]{
		newFn:   newFn,
		name:    typeName(newFn()),
		binding: b,
	}
	if m.binding.Table == "" {
		m.binding.Table = strings.ToLower(m.name)
	}
	if m.binding.PrimaryKey == "" {
		m.binding.PrimaryKey = DefaultPrimaryKey
	}
	if m.binding.Equality == nil {
		m.binding.Equality = LooseEqual
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "entity"
	}
	return t.Name()
}

// Name returns the Go type name of E
func (m *Model[E]) Name() string {
	return m.name
}

// Table returns the bound table name
func (m *Model[E]) Table() string {
	return m.binding.Table
}

// PrimaryKey returns the primary-key column name
func (m *Model[E]) PrimaryKey() string {
	return m.binding.PrimaryKey
}

// Engine returns the pinned engine or the process default
func (m *Model[E]) Engine() (*Engine, error) {
	if m.binding.Engine != nil {
		return m.binding.Engine, nil
	}
	return Current()
}

// Columns returns the bound table's catalog columns
func (m *Model[E]) Columns(ctx context.Context) ([]string, error) {
	eng, err := m.Engine()
	if err != nil {
		return nil, err
	}
	return eng.Columns(ctx, m.binding.Table)
}

// instantiate creates a fresh entity wired back to this model
func (m *Model[E]) instantiate(mode LoadMode, data any) E {
	e := m.newFn()
	r := e.base()
	r.pk = m.binding.PrimaryKey
	r.mode = mode
	r.loadData = data
	r.equality = m.binding.Equality
	r.p = &bound[E]{model: m, entity: e}
	return e
}

// bound routes Record operations of one entity to its model
type bound[E Entity] struct {
	model  *Model[E]
	entity E
}

func (b *bound[E]) insert(ctx context.Context) error { return b.model.insert(ctx, b.entity) }
func (b *bound[E]) update(ctx context.Context) error { return b.model.update(ctx, b.entity) }
func (b *bound[E]) delete(ctx context.Context) error { return b.model.delete(ctx, b.entity) }
func (b *bound[E]) reload(ctx context.Context) error { return b.model.revert(ctx, b.entity) }
