package errors

import (
	"errors"
	"fmt"
)

// NotFoundCode is the stable marker carried by NotFoundError so callers can
// tell "no such row" apart from every other failure without string matching.
const NotFoundCode = 2

// Common sentinel errors
var (
	// ErrConnectionNotConfigured is returned when no engine has been configured
	ErrConnectionNotConfigured = errors.New("database connection not configured")

	// ErrSchemaLookup is returned when column discovery yields nothing for a table
	ErrSchemaLookup = errors.New("schema lookup failed")

	// ErrNotFound is returned when a key-based load finds no row
	ErrNotFound = errors.New("record not found")

	// ErrInvalidState is returned when update/delete is attempted on an unpersisted record
	ErrInvalidState = errors.New("invalid record state")

	// ErrPersistence is returned when the store rejects a statement
	ErrPersistence = errors.New("persistence error")

	// ErrInvalidArgument is returned for malformed keys or field names
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoLabel is returned when an entity type has no string conversion for select options
	ErrNoLabel = errors.New("entity has no label")
)

// SchemaLookupError represents a failed column discovery for a table
type SchemaLookupError struct {
	Table string
	Err   error
}

func (e *SchemaLookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unable to fetch the column names for table %q: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("unable to fetch the column names for table %q: table might not exist", e.Table)
}

func (e *SchemaLookupError) Is(target error) bool {
	return target == ErrSchemaLookup
}

func (e *SchemaLookupError) Unwrap() error {
	return e.Err
}

// NotFoundError represents a key-based load that returned zero rows
type NotFoundError struct {
	Type string
	Key  any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s record not found in database (PK: %v)", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Code returns NotFoundCode
func (e *NotFoundError) Code() int {
	return NotFoundCode
}

// InvalidStateError represents an operation that requires a persisted record
type InvalidStateError struct {
	Type      string
	Operation string
	Reason    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("unable to %s %s: %s", e.Operation, e.Type, e.Reason)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// PersistenceError wraps a driver error together with the statement that failed
type PersistenceError struct {
	Statement string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%v\n\nSQL: %s", e.Err, e.Statement)
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// InvalidArgumentError represents a malformed argument passed to the engine
type InvalidArgumentError struct {
	Argument string
	Message  string
}

func (e *InvalidArgumentError) Error() string {
	if e.Argument != "" {
		return fmt.Sprintf("invalid argument %q: %s", e.Argument, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// Helper functions for creating errors

// NewSchemaLookupError creates a new SchemaLookupError
func NewSchemaLookupError(table string, err error) error {
	return &SchemaLookupError{Table: table, Err: err}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType string, key any) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewInvalidStateError creates a new InvalidStateError
func NewInvalidStateError(entityType, operation, reason string) error {
	return &InvalidStateError{Type: entityType, Operation: operation, Reason: reason}
}

// NewPersistenceError creates a new PersistenceError
func NewPersistenceError(statement string, err error) error {
	return &PersistenceError{Statement: statement, Err: err}
}

// NewInvalidArgumentError creates a new InvalidArgumentError
func NewInvalidArgumentError(argument, message string) error {
	return &InvalidArgumentError{Argument: argument, Message: message}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSchemaLookup checks if an error is a schema lookup error
func IsSchemaLookup(err error) bool {
	return errors.Is(err, ErrSchemaLookup)
}

// IsInvalidState checks if an error is an invalid state error
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsPersistence checks if an error is a persistence error
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsConnectionNotConfigured checks if an error reports a missing connection
func IsConnectionNotConfigured(err error) bool {
	return errors.Is(err, ErrConnectionNotConfigured)
}
