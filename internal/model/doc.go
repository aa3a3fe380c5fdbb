// Package model defines the sample entities mapped by the orm package.
//
// # Entities
//
// User maps the users table. Names are title-cased on every read, passwords
// are bcrypt-hashed before they are written and e-mail addresses are
// validated on every write.
//
// Service maps the servicos table, a catalogue of offered services with a
// free-text description.
//
// Both stamp created_at on insert when the caller left it empty and expose
// it as a strfmt.DateTime.
//
// # Schema
//
// Migrate creates the tables for the engine's dialect. Tables are created
// only when missing; existing data is never touched.
package model
