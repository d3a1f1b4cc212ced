package order

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected order attempt.
type Kind string

const (
	MissingName                  Kind = "missing_name"
	InvalidPhone                 Kind = "invalid_phone"
	MissingTable                 Kind = "missing_table"
	EmptyOrUnresolvableSelection Kind = "empty_or_unresolvable_selection"
	InvalidQuantity              Kind = "invalid_quantity"
)

// ValidationError rejects one attempt to place an order. The guest can fix
// the input and try again; nothing else is affected.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func invalid(kind Kind, format string, args ...any) error {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a ValidationError of the given kind.
func IsKind(err error, kind Kind) bool {
	var v *ValidationError
	return errors.As(err, &v) && v.Kind == kind
}

// PersistenceError means a valid order could not be appended. Record is
// still good and can be handed to Retry as is.
type PersistenceError struct {
	Record *OrderRecord
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order %s not saved: %v", e.Record.ID(), e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

var (
	// ErrDuplicateOrder is returned by sinks that already hold an order
	// under the same idempotency key.
	ErrDuplicateOrder = errors.New("order already placed for this idempotency key")

	ErrListingUnsupported = errors.New("order log does not support listing")
)
