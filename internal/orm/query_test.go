package orm

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"testing"

	"simpleorm/internal/errors"
)

func TestExpandShortcuts(t *testing.T) {
	eng, _ := newTestEngine(t)
	people := newPeople(eng)

	got := people.expand(eng, "SELECT :pk FROM :database.:table WHERE :pk > ?")
	assertEqual(t, `SELECT "id" FROM main."people" WHERE "id" > ?`, got)
}

func TestSQLRunsExpandedStatement(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)
	seedPeople(t, people, "sam", "tia", "uma")

	found, err := people.SQL(ctx, FetchMany, "SELECT * FROM :table WHERE :pk > ? ORDER BY :pk", 1)
	assertNoError(t, err)
	assertEqual(t, 2, len(found))
	assertEqual(t, "Tia", found[0].Get("name"))

	one, err := people.SQL(ctx, FetchOne, "SELECT * FROM :table ORDER BY :pk DESC")
	assertNoError(t, err)
	assertEqual(t, 1, len(one))
	assertEqual(t, "Uma", one[0].Get("name"))
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)
	seedPeople(t, people, "vic", "wes")

	n, err := people.Count(ctx, "SELECT COUNT(*) FROM :table")
	assertNoError(t, err)
	assertEqual(t, int64(2), n)

	n, err = people.Count(ctx, "SELECT COUNT(*) FROM :table WHERE name = ?", "vic")
	assertNoError(t, err)
	assertEqual(t, int64(1), n)

	n, err = people.Count(ctx, "SELECT -5")
	assertNoError(t, err)
	assertEqual(t, int64(0), n)

	n, err = people.Count(ctx, "SELECT :pk FROM :table WHERE 1 = 0")
	assertNoError(t, err)
	assertEqual(t, int64(0), n)
}

func TestCountEmptyResultIsNotLoggedAsFailure(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	eng, _ := newTestEngine(t, WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	people := newPeople(eng)

	n, err := people.Count(ctx, "SELECT :pk FROM :table WHERE 1 = 0")
	assertNoError(t, err)
	assertEqual(t, int64(0), n)

	if strings.Contains(logs.String(), "orm statement failed") {
		t.Errorf("an empty count result was logged as a failure:\n%s", logs.String())
	}
	assertContains(t, logs.String(), "orm statement returned no rows")

	if _, err := people.Count(ctx, "SELECT COUNT(*) FROM no_such_table"); !errors.IsPersistence(err) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	assertContains(t, logs.String(), "orm statement failed")
}

func TestCountTypeConversion(t *testing.T) {
	tests := []struct {
		input any
		want  int64
	}{
		{int64(3), 3},
		{4, 4},
		{float64(5.9), 5},
		{"12", 12},
		{" 7 ", 7},
		{"2.5", 2},
		{"abc", 0},
		{nil, 0},
	}

	for _, tt := range tests {
		if got := toCount(tt.input); got != tt.want {
			t.Errorf("toCount(%#v) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

// Truncate is irreversible: every row is gone and there is no way back.
func TestTruncateDeletesEveryRow(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)
	seedPeople(t, people, "xena", "yuri", "zoe")

	before, err := people.Columns(ctx)
	assertNoError(t, err)

	assertNoError(t, people.Truncate(ctx))

	n, err := people.Count(ctx, "SELECT COUNT(*) FROM :table")
	assertNoError(t, err)
	assertEqual(t, int64(0), n)

	after, err := people.Columns(ctx)
	assertNoError(t, err)
	assertEqual(t, before, after)
}

func TestSelectOptions(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)
	seedPeople(t, people, "amy", "ben", "cal")

	opts, err := people.SelectOptions(ctx, "")
	assertNoError(t, err)
	assertEqual(t, []SelectOption{
		{Value: int64(1), Label: "Amy"},
		{Value: int64(2), Label: "Ben"},
		{Value: int64(3), Label: "Cal"},
	}, opts)

	opts, err = people.SelectOptions(ctx, "name LIKE 'b%'")
	assertNoError(t, err)
	assertEqual(t, []SelectOption{{Value: int64(2), Label: "Ben"}}, opts)
}

func TestSelectOptionsWithLabel(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng, WithLabel(func(p *person) string {
		return p.Text("email")
	}))
	seedPeople(t, people, "dee")

	opts, err := people.SelectOptions(ctx, "")
	assertNoError(t, err)
	assertEqual(t, []SelectOption{{Value: int64(1), Label: "dee@example.com"}}, opts)
}

// tag has no string form
type tag struct {
	Record
}

func TestSelectOptionsRequiresLabel(t *testing.T) {
	ctx := context.Background()
	eng, conn := newTestEngine(t)
	tags := NewModel(func() *tag { return &tag{} }, Binding{Table: "people", Engine: eng})

	conn.reset()
	_, err := tags.SelectOptions(ctx, "")
	if !stderrors.Is(err, errors.ErrNoLabel) {
		t.Fatalf("expected ErrNoLabel, got %v", err)
	}
	if len(conn.statements) != 0 {
		t.Error("the label check should happen before querying")
	}
}
