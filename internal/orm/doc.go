// Package orm is a small Active Record engine over database/sql.
//
// One entity value represents one row of one table. Entity types embed
// Record, which carries the attribute map, the new/persisted flag, the load
// mode and the change history. A Model binds an entity type to its table and
// holds the hooks the type registers explicitly.
//
// # Engine
//
// An Engine pairs a connection (anything with ExecContext, QueryContext and
// QueryRowContext, such as *sql.DB) with a dialect. Models either carry their
// own engine or resolve the process default installed with Configure or Use.
// Current fails with ErrConnectionNotConfigured until one is installed.
//
// # Load modes
//
// Every entity is built through one of four modes:
//
//   - LoadByPK reads the row with the given key and fails with a NotFoundError
//     when it is missing
//   - LoadByData assigns a field map verbatim (used to hydrate query results)
//   - LoadNew does the same and inserts immediately
//   - LoadEmpty sets every catalog column to nil and marks the entity new
//
// Output filters run after every read, the initialise hook runs once per
// construction regardless of mode.
//
// # Persistence
//
// Save inserts new entities and updates persisted ones. Inserts and updates
// pass the candidate field map through the registered input filters and keep
// only columns that the catalog reports for the table. Every value is bound;
// identifiers are quoted by the dialect.
//
// # Concurrency
//
// Engine is safe for concurrent use when its connection is. A Record is not;
// callers sharing one entity across goroutines must serialise access. There
// is no locking or compare-and-swap on save: concurrent updates of one row
// are last-writer-wins.
package orm
