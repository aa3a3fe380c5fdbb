package orm

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"simpleorm/internal/dialect"
	"simpleorm/internal/errors"
)

// Conn is the statement surface the engine needs. *sql.DB, *sql.Conn and
// *sql.Tx all satisfy it.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Engine holds the store handle shared by every model bound to it
type Engine struct {
	conn     Conn
	dialect  dialect.Dialect
	database string
	logger   *slog.Logger

	cacheSchema bool
	schemaMu    sync.RWMutex
	schema      map[string][]string
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithLogger sets the logger used for statement tracing
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSchemaCache keeps column lists per table instead of querying the
// catalog before every mutation. Call InvalidateSchema after DDL.
func WithSchemaCache() EngineOption {
	return func(e *Engine) {
		e.cacheSchema = true
	}
}

// NewEngine creates an engine over conn speaking dialect d
func NewEngine(conn Conn, d dialect.Dialect, database string, opts ...EngineOption) *Engine {
	e := &Engine{
		conn:     conn,
		dialect:  d,
		database: database,
		logger:   slog.Default(),
		schema:   make(map[string][]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Conn returns the underlying connection
func (e *Engine) Conn() Conn {
	return e.conn
}

// Dialect returns the engine's SQL dialect
func (e *Engine) Dialect() dialect.Dialect {
	return e.dialect
}

// Database returns the database name substituted for :database
func (e *Engine) Database() string {
	return e.database
}

// Close closes the connection if it can be closed
func (e *Engine) Close() error {
	if c, ok := e.conn.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Exec runs a trusted statement without fetching rows (DDL, maintenance)
func (e *Engine) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return e.exec(ctx, "", query, args...)
}

func (e *Engine) exec(ctx context.Context, table, query string, args ...any) (sql.Result, error) {
	e.trace(ctx, table, query, len(args))
	res, err := e.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, e.fail(ctx, table, query, err)
	}
	return res, nil
}

func (e *Engine) query(ctx context.Context, table, query string, args ...any) ([]Fields, error) {
	e.trace(ctx, table, query, len(args))
	rows, err := e.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, e.fail(ctx, table, query, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, e.fail(ctx, table, query, err)
	}
	return out, nil
}

// queryValue returns the first column of the first row
func (e *Engine) queryValue(ctx context.Context, table, query string, args ...any) (any, error) {
	e.trace(ctx, table, query, len(args))
	var v any
	if err := e.conn.QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			// no row is an answer, not a store failure
			e.logger.DebugContext(ctx, "orm statement returned no rows", "table", table, "statement", query)
			return nil, errors.NewPersistenceError(query, err)
		}
		return nil, e.fail(ctx, table, query, err)
	}
	return normalizeValue(v), nil
}

func (e *Engine) trace(ctx context.Context, table, query string, nargs int) {
	e.logger.DebugContext(ctx, "orm statement", "table", table, "statement", query, "args", nargs)
}

func (e *Engine) fail(ctx context.Context, table, query string, err error) error {
	e.logger.WarnContext(ctx, "orm statement failed", "table", table, "statement", query, "error", err)
	return errors.NewPersistenceError(query, err)
}

// placeholder returns the bind marker for the n-th argument
func (e *Engine) placeholder(n int) string {
	return e.dialect.Placeholder(n)
}

func (e *Engine) quote(ident string) string {
	return e.dialect.Quote(ident)
}

// ============================================================================
// Process default
// ============================================================================

var (
	defaultEngine *Engine
	defaultMu     sync.RWMutex
)

// Configure creates an engine and installs it as the process default
func Configure(conn Conn, d dialect.Dialect, database string, opts ...EngineOption) *Engine {
	e := NewEngine(conn, d, database, opts...)
	Use(e)
	return e
}

// Use installs e as the process default; nil clears it
func Use(e *Engine) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultEngine = e
}

// Current returns the process default engine
func Current() (*Engine, error) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	if defaultEngine == nil {
		return nil, fmt.Errorf("%w: call orm.Configure or orm.Use first", errors.ErrConnectionNotConfigured)
	}
	return defaultEngine, nil
}
