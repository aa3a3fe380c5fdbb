package orm

import (
	"context"
	"testing"

	"simpleorm/internal/errors"
)

func seedPeople(t *testing.T, people *Model[*person], names ...string) {
	t.Helper()
	for _, n := range names {
		if _, err := people.Create(context.Background(), Fields{"name": n, "email": n + "@example.com"}); err != nil {
			t.Fatalf("failed to seed %s: %v", n, err)
		}
	}
}

func TestFindByFieldOperator(t *testing.T) {
	ctx := context.Background()
	eng, conn := newTestEngine(t)
	people := newPeople(eng)
	seedPeople(t, people, "alice", "albert", "bob")

	tests := []struct {
		name     string
		value    any
		operator string
		want     int
	}{
		{"exact match", "alice", `"name" = ?`, 1},
		{"wildcard prefix", "al%", `"name" LIKE ?`, 2},
		{"wildcard anywhere", "%b%", `"name" LIKE ?`, 2},
		{"no match", "carol", `"name" = ?`, 0},
		{"non string value", 7, `"name" = ?`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn.reset()
			found, err := people.FindByField(ctx, "name", tt.value, FetchMany)
			assertNoError(t, err)
			assertContains(t, conn.last(), tt.operator)
			assertEqual(t, tt.want, len(found))
		})
	}
}

func TestFindByFieldFetchOne(t *testing.T) {
	ctx := context.Background()
	eng, conn := newTestEngine(t)
	people := newPeople(eng)
	seedPeople(t, people, "alice", "albert")

	found, err := people.FindByField(ctx, "name", "al%", FetchOne)
	assertNoError(t, err)
	assertEqual(t, 1, len(found))
	assertContains(t, conn.last(), "LIMIT 1")
}

func TestFindByFieldFetchNone(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)
	seedPeople(t, people, "alice")

	found, err := people.FindByField(ctx, "name", "alice", FetchNone)
	assertNoError(t, err)
	if found != nil {
		t.Errorf("FetchNone should return no entities, got %d", len(found))
	}
}

func TestFindByFieldInvalidArguments(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)

	if _, err := people.FindByField(ctx, "  ", "x", FetchMany); !errors.IsInvalidArgument(err) {
		t.Errorf("blank field: expected InvalidArgument, got %v", err)
	}
	if _, err := people.FindByField(ctx, "name", "x", FetchMode(0)); !errors.IsInvalidArgument(err) {
		t.Errorf("unknown mode: expected InvalidArgument, got %v", err)
	}
}

func TestFindFirstByField(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)
	seedPeople(t, people, "quinn")

	p, err := people.FindFirstByField(ctx, "email", "quinn@example.com")
	assertNoError(t, err)
	assertEqual(t, "Quinn", p.Get("name"))

	_, err = people.FindFirstByField(ctx, "email", "nobody@example.com")
	if !errors.IsNotFound(err) {
		t.Fatalf("expected RecordNotFound, got %v", err)
	}
}

func TestFindByGoName(t *testing.T) {
	ctx := context.Background()
	eng, conn := newTestEngine(t)
	people := newPeople(eng)
	seedPeople(t, people, "rita")

	found, err := people.FindBy(ctx, "Email", "rita@example.com", FetchMany)
	assertNoError(t, err)
	assertEqual(t, 1, len(found))
	assertContains(t, conn.last(), `"email" = ?`)
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Name", "name"},
		{"EmailAddress", "email_address"},
		{"createdAt", "created_at"},
		{"UserID2Name", "user_id2_name"},
		{"already_snake", "already_snake"},
	}

	for _, tt := range tests {
		if got := ColumnName(tt.input); got != tt.want {
			t.Errorf("ColumnName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFetchModeString(t *testing.T) {
	assertEqual(t, "one", FetchOne.String())
	assertEqual(t, "many", FetchMany.String())
	assertEqual(t, "none", FetchNone.String())
}
