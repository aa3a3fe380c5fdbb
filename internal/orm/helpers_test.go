package orm

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"

	"simpleorm/internal/dialect"
)

// ============================================================================
// Test Helpers
// ============================================================================

const peopleDDL = `CREATE TABLE people (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	name   TEXT NOT NULL,
	email  TEXT,
	age    INTEGER,
	status TEXT NOT NULL DEFAULT 'active'
)`

// recordingConn remembers every statement sent through it
type recordingConn struct {
	*sql.DB

	mu         sync.Mutex
	statements []string
}

func (c *recordingConn) record(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statements = append(c.statements, query)
}

func (c *recordingConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.record(query)
	return c.DB.ExecContext(ctx, query, args...)
}

func (c *recordingConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	c.record(query)
	return c.DB.QueryContext(ctx, query, args...)
}

func (c *recordingConn) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	c.record(query)
	return c.DB.QueryRowContext(ctx, query, args...)
}

// last returns the most recent statement
func (c *recordingConn) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.statements) == 0 {
		return ""
	}
	return c.statements[len(c.statements)-1]
}

// count returns how many recorded statements contain fragment
func (c *recordingConn) count(fragment string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, s := range c.statements {
		if strings.Contains(s, fragment) {
			n++
		}
	}
	return n
}

func (c *recordingConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statements = nil
}

// newTestEngine creates an engine over an in-memory SQLite database holding
// the people table
func newTestEngine(t *testing.T, opts ...EngineOption) (*Engine, *recordingConn) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(peopleDDL); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	conn := &recordingConn{DB: db}
	opts = append([]EngineOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	eng := NewEngine(conn, dialect.SQLite{}, "main", opts...)

	t.Cleanup(func() {
		eng.Close()
	})
	return eng, conn
}

// person is the entity used throughout the package tests
type person struct {
	Record
}

func (p *person) String() string {
	return p.Text("name")
}

// capitaliseName upper-cases the first letter of the name
func capitaliseName(p *person) {
	s, ok := p.Get("name").(string)
	if !ok || s == "" {
		return
	}
	p.Assign("name", strings.ToUpper(s[:1])+s[1:])
}

func newPeople(eng *Engine, opts ...Option[*person]) *Model[*person] {
	return newPeopleWith(Binding{Table: "people", Engine: eng}, opts...)
}

func newPeopleWith(b Binding, opts ...Option[*person]) *Model[*person] {
	all := append([]Option[*person]{WithOutputFilter(capitaliseName)}, opts...)
	return NewModel(func() *person { return &person{} }, b, all...)
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v (%T), got %v (%T)", expected, expected, actual, actual)
	}
}

// assertContains fails the test if s does not contain sub
func assertContains(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("expected %q to contain %q", s, sub)
	}
}
