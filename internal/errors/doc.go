/*
Package errors provides the semantic error types of the mapping engine.

Every failure surfaces to the immediate caller; nothing is retried or swallowed.
Errors can be checked with the standard errors.Is() function or the helpers:

	var (
	    ErrConnectionNotConfigured = errors.New("database connection not configured")
	    ErrSchemaLookup            = errors.New("schema lookup failed")
	    ErrNotFound                = errors.New("record not found")
	    ErrInvalidState            = errors.New("invalid record state")
	    ErrPersistence             = errors.New("persistence error")
	    ErrInvalidArgument         = errors.New("invalid argument")
	)

Usage:

	user, err := users.FindByPK(ctx, 42)
	if err != nil {
	    if errors.IsNotFound(err) {
	        // the row is gone
	    }
	    return err
	}

PersistenceError keeps both the driver error (reachable through errors.Unwrap)
and the statement text that the store rejected.
*/
package errors
