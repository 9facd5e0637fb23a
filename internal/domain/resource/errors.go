package resource

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// InsufficientResourcesError reports the first kind whose stock cannot cover a cost
type InsufficientResourcesError struct {
	*shared.DomainError
	Kind      Kind
	Required  int
	Available int
}

func NewInsufficientResourcesError(kind Kind, required, available int) *InsufficientResourcesError {
	return &InsufficientResourcesError{
		DomainError: shared.NewDomainError(fmt.Sprintf("insufficient %s: need %d, have %d", kind, required, available)),
		Kind:        kind,
		Required:    required,
		Available:   available,
	}
}

// ErrInvalidTransaction represents validation errors for transactions
type ErrInvalidTransaction struct {
	Field  string
	Reason string
}

func (e *ErrInvalidTransaction) Error() string {
	return fmt.Sprintf("invalid transaction: %s - %s", e.Field, e.Reason)
}

// ErrBalanceInvariantViolation represents errors when balance calculations don't match
type ErrBalanceInvariantViolation struct {
	BalanceBefore int
	Amount        int
	BalanceAfter  int
	Expected      int
}

func (e *ErrBalanceInvariantViolation) Error() string {
	return fmt.Sprintf("balance invariant violated: balance_before=%d + amount=%d should equal balance_after=%d, but got %d",
		e.BalanceBefore, e.Amount, e.Expected, e.BalanceAfter)
}
