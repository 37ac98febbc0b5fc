package orders

import (
	"errors"
	"fmt"
)

var (
	// Client input errors on order creation.
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")

	// Unknown order identifier.
	ErrOrderNotFound = errors.New("order not found")

	// The last persisted token does not match the T<digits> pattern.
	// Issuance aborts rather than silently reseeding the sequence.
	ErrMalformedSequence = errors.New("malformed token sequence state")

	// ErrTokenTaken is the storage layer's signal that the computed token
	// lost a race to a concurrent create. The caller retries issuance.
	ErrTokenTaken = errors.New("token number already taken")

	// ErrTokenConflict means issuance retries were exhausted.
	ErrTokenConflict = errors.New("token allocation conflict")
)

// InvalidTransitionError rejects a status update whose edge is not part of
// the order lifecycle.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}
