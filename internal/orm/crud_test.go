package orm

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"simpleorm/internal/errors"
)

func TestInsertThenReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)

	created, err := people.Create(ctx, Fields{"name": "bob", "email": "bob@example.com", "age": 41})
	assertNoError(t, err)

	if created.IsNew() {
		t.Fatal("entity should not be new after insert")
	}
	if created.ID() == nil {
		t.Fatal("expected a generated primary key")
	}

	loaded, err := people.FindByPK(ctx, created.ID())
	assertNoError(t, err)

	assertEqual(t, "Bob", loaded.Get("name"))
	assertEqual(t, "bob@example.com", loaded.Get("email"))
	assertEqual(t, int64(41), loaded.Get("age"))
	assertEqual(t, created.Fields(), loaded.Fields())

	// the output filter is idempotent across repeated loads
	again, err := people.FindByPK(ctx, created.ID())
	assertNoError(t, err)
	assertEqual(t, "Bob", again.Get("name"))
}

func TestEndToEndLifecycle(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)

	alice, err := people.Create(ctx, Fields{"name": "alice"})
	assertNoError(t, err)

	id := alice.ID()
	if id == nil {
		t.Fatal("expected a generated primary key")
	}

	found, err := people.FindByPK(ctx, id)
	assertNoError(t, err)
	assertEqual(t, "Alice", found.Get("name"))

	found.Set("name", "alice2")
	assertNoError(t, found.Save(ctx))

	renamed, err := people.FindByPK(ctx, id)
	assertNoError(t, err)
	assertEqual(t, "Alice2", renamed.Get("name"))

	assertNoError(t, renamed.Delete(ctx))

	_, err = people.FindByPK(ctx, id)
	if !errors.IsNotFound(err) {
		t.Fatalf("expected RecordNotFound after delete, got %v", err)
	}

	var nf *errors.NotFoundError
	if !stderrors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
	assertEqual(t, errors.NotFoundCode, nf.Code())
	assertEqual(t, "person", nf.Type)
}

func TestUpdateAndDeleteOnNewEntityFail(t *testing.T) {
	ctx := context.Background()
	eng, conn := newTestEngine(t)
	people := newPeople(eng)

	fresh, err := people.Empty(ctx)
	assertNoError(t, err)
	fresh.Set("name", "nobody")
	conn.reset()

	if err := fresh.Update(ctx); !errors.IsInvalidState(err) {
		t.Errorf("update on new entity: expected InvalidStateError, got %v", err)
	}
	if err := fresh.Delete(ctx); !errors.IsInvalidState(err) {
		t.Errorf("delete on new entity: expected InvalidStateError, got %v", err)
	}
	if n := len(conn.statements); n != 0 {
		t.Errorf("expected no statements to reach the store, got %d", n)
	}
}

func TestSaveClearsModifications(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)

	fresh, err := people.Empty(ctx)
	assertNoError(t, err)
	fresh.Set("name", "dave")
	if _, ok := fresh.Modified(); !ok {
		t.Fatal("expected pending changes before save")
	}

	assertNoError(t, fresh.Save(ctx))
	if _, ok := fresh.Modified(); ok {
		t.Error("insert should clear pending changes")
	}
	if fresh.IsNew() {
		t.Error("save on a new entity should insert it")
	}

	fresh.Set("email", "dave@example.com")
	assertNoError(t, fresh.Save(ctx))
	if _, ok := fresh.Modified(); ok {
		t.Error("update should clear pending changes")
	}

	loaded, err := people.FindByPK(ctx, fresh.ID())
	assertNoError(t, err)
	assertEqual(t, "dave@example.com", loaded.Get("email"))
}

func TestInsertPicksUpStoreDefaults(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)

	p, err := people.Create(ctx, Fields{"name": "erin"})
	assertNoError(t, err)

	assertEqual(t, "active", p.Get("status"))
	assertEqual(t, nil, p.Get("email"))
}

func TestInsertExplicitNilIsWrittenAsNull(t *testing.T) {
	ctx := context.Background()
	eng, conn := newTestEngine(t)
	people := newPeople(eng)

	p, err := people.Create(ctx, Fields{"name": "hal", "email": nil})
	assertNoError(t, err)
	assertEqual(t, nil, p.Get("email"))
	if conn.count(`"email"`) == 0 {
		t.Error("an explicit nil should be part of the INSERT column list")
	}

	// status is NOT NULL with a default: NULL must reach the store, not the default
	if _, err := people.Create(ctx, Fields{"name": "ivy", "status": nil}); !errors.IsPersistence(err) {
		t.Fatalf("expected the store to reject NULL status, got %v", err)
	}
}

func TestInsertEmptyPlaceholdersUseDefaults(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)

	p, err := people.Empty(ctx)
	assertNoError(t, err)
	p.Set("name", "jo")
	assertNoError(t, p.Save(ctx))

	assertEqual(t, "active", p.Get("status"))

	q, err := people.Empty(ctx)
	assertNoError(t, err)
	q.Set("name", "kim")
	q.Set("status", nil)
	if err := q.Save(ctx); !errors.IsPersistence(err) {
		t.Fatalf("a status set to nil should be sent as NULL, got %v", err)
	}
}

func TestInsertSkipsUnknownAttributesAndKey(t *testing.T) {
	ctx := context.Background()
	eng, conn := newTestEngine(t)
	people := newPeople(eng)

	p, err := people.Create(ctx, Fields{"id": 500, "name": "frank", "nickname": "frankie"})
	assertNoError(t, err)

	if conn.count(`"nickname"`) != 0 {
		t.Error("attributes outside the table must not be written")
	}
	if p.ID() == int64(500) {
		t.Error("insert must let the store generate the key by default")
	}
}

func TestKeepKeyOnInsert(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeopleWith(Binding{Table: "people", Engine: eng, KeepKeyOnInsert: true})

	p, err := people.Create(ctx, Fields{"id": 42, "name": "gina"})
	assertNoError(t, err)
	assertEqual(t, int64(42), p.ID())
}

func TestUpdateDoesNotReread(t *testing.T) {
	ctx := context.Background()
	eng, conn := newTestEngine(t)
	people := newPeople(eng)

	p, err := people.Create(ctx, Fields{"name": "hank"})
	assertNoError(t, err)

	conn.reset()
	p.Set("age", 33)
	assertNoError(t, p.Save(ctx))

	assertContains(t, conn.last(), `UPDATE "people" SET`)
	assertContains(t, conn.last(), `WHERE "id" = ?`)
	if conn.count("SELECT * FROM") != 0 {
		t.Error("update should not re-read the row")
	}
	if strings.Contains(conn.last(), `SET "id"`) {
		t.Error("update should not send the primary key by default")
	}
}

func TestHooksAndInputFilters(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	var (
		preSeen  Fields
		postName any
	)
	people := newPeople(eng,
		WithPreInsert(func(p *person, f Fields) {
			preSeen = f
			f["status"] = "pending"
		}),
		WithInputFilter(func(p *person, f Fields) (Fields, error) {
			if s, ok := f["email"].(string); ok {
				f["email"] = strings.ToLower(s)
			}
			return f, nil
		}),
		WithPostInsert(func(p *person) {
			postName = p.Get("name")
		}),
	)

	p, err := people.Create(ctx, Fields{"name": "ivy", "email": "IVY@EXAMPLE.COM"})
	assertNoError(t, err)

	if preSeen == nil {
		t.Fatal("preInsert hook did not run")
	}
	assertEqual(t, "pending", p.Get("status"))
	assertEqual(t, "ivy@example.com", p.Get("email"))
	assertEqual(t, "Ivy", postName)
}

func TestInputFilterErrorAbortsWrite(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	reject := stderrors.New("rejected")
	people := newPeople(eng, WithInputFilter(func(p *person, f Fields) (Fields, error) {
		return nil, reject
	}))

	_, err := people.Create(ctx, Fields{"name": "jo"})
	if !stderrors.Is(err, reject) {
		t.Fatalf("expected the filter error, got %v", err)
	}

	n, err := people.Count(ctx, "SELECT COUNT(*) FROM :table")
	assertNoError(t, err)
	assertEqual(t, int64(0), n)
}

func TestPersistenceErrorCarriesStatement(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)

	// name is NOT NULL
	_, err := people.Create(ctx, Fields{"email": "nameless@example.com"})
	if !errors.IsPersistence(err) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}

	var pe *errors.PersistenceError
	if !stderrors.As(err, &pe) {
		t.Fatalf("expected *PersistenceError, got %T", err)
	}
	assertContains(t, pe.Statement, `INSERT INTO "people"`)
	assertContains(t, err.Error(), "SQL: INSERT INTO")
	if pe.Unwrap() == nil {
		t.Error("expected the driver error to be wrapped")
	}
}

func TestDeleteLeavesEntityReadable(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	people := newPeople(eng)

	p, err := people.Create(ctx, Fields{"name": "kim"})
	assertNoError(t, err)
	assertNoError(t, p.Delete(ctx))

	assertEqual(t, "Kim", p.Get("name"))

	n, err := people.Count(ctx, "SELECT COUNT(*) FROM :table")
	assertNoError(t, err)
	assertEqual(t, int64(0), n)
}
