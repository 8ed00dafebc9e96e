// Package errs provides the typed errors shared by every layer of the order
// relay service.
//
// Each kind follows the same shape: a sentinel (ErrValueIsRequired,
// ErrValueIsInvalid, ErrValueIsOutOfRange, ErrObjectNotFound,
// ErrInvalidTransition), a struct carrying the offending parameter, two
// constructors (with and without a cause) and an Unwrap method returning the
// sentinel, so callers classify failures with errors.Is:
//
//	if errors.Is(err, errs.ErrInvalidTransition) {
//	    // somebody else claimed the order first
//	}
//
// ValueIsRequired, ValueIsInvalid and ValueIsOutOfRange are validation
// failures; ObjectNotFound is an unknown identifier; InvalidTransition is a
// lifecycle precondition (status or ownership) that no longer holds.
package errs
