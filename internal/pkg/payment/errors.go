package payment

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups against an unknown id or order reference. The API
// layer maps it to 404.
var ErrNotFound = errors.New("transaction not found")

// ErrMerchantNotFound means no active merchant is configured; nothing can be
// initiated without one.
var ErrMerchantNotFound = errors.New("merchant not found")

// ValidationError rejects a malformed intent before any state mutation. It is
// user-correctable and carries the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// InvalidStateError rejects an operation not permitted in the transaction's
// current state, e.g. cancelling a PAID transaction.
type InvalidStateError struct {
	Action  string
	Current string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s transaction with status: %s", e.Action, e.Current)
}

// AuthenticationError rejects webhook deliveries with a missing or invalid
// signature. The ledger is never touched on this path.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}
