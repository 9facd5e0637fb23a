package resource

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// Transaction is an immutable record of one stock movement of one resource kind.
// Transactions are stamped with the simulation tick, never with wall-clock time,
// so every peer journals identical entries.
type Transaction struct {
	playerID      shared.PlayerID
	tick          int64
	sequence      int64
	kind          Kind
	category      Category
	amount        int // Positive for income, negative for expenses
	balanceBefore int
	balanceAfter  int
	description   string
}

// NewTransaction creates a new transaction with validation
func NewTransaction(
	playerID shared.PlayerID,
	tick int64,
	sequence int64,
	kind Kind,
	category Category,
	amount int,
	balanceBefore int,
	balanceAfter int,
	description string,
) (*Transaction, error) {
	if !kind.IsValid() || kind == Time {
		return nil, &ErrInvalidTransaction{Field: "kind", Reason: fmt.Sprintf("not a spendable kind: %s", kind)}
	}
	if !category.IsValid() {
		return nil, &ErrInvalidTransaction{Field: "category", Reason: fmt.Sprintf("invalid category: %s", category)}
	}

	t := &Transaction{
		playerID:      playerID,
		tick:          tick,
		sequence:      sequence,
		kind:          kind,
		category:      category,
		amount:        amount,
		balanceBefore: balanceBefore,
		balanceAfter:  balanceAfter,
		description:   description,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that the transaction satisfies all invariants
func (t *Transaction) Validate() error {
	if t.amount == 0 {
		return &ErrInvalidTransaction{Field: "amount", Reason: "amount cannot be zero"}
	}

	if t.category.IsExpense() && t.amount > 0 {
		return &ErrInvalidTransaction{Field: "amount", Reason: "expense must be negative"}
	}

	expected := t.balanceBefore + t.amount
	if t.balanceAfter != expected {
		return &ErrBalanceInvariantViolation{
			BalanceBefore: t.balanceBefore,
			Amount:        t.amount,
			BalanceAfter:  t.balanceAfter,
			Expected:      expected,
		}
	}

	if t.balanceAfter < 0 {
		return &ErrInvalidTransaction{Field: "balance_after", Reason: "stock cannot go negative"}
	}

	return nil
}

// ID returns a deterministic identifier unique within a game
func (t *Transaction) ID() string {
	return fmt.Sprintf("p%d-t%d-%d", t.playerID.Value(), t.tick, t.sequence)
}

func (t *Transaction) PlayerID() shared.PlayerID { return t.playerID }
func (t *Transaction) Tick() int64                { return t.tick }
func (t *Transaction) Sequence() int64            { return t.sequence }
func (t *Transaction) Kind() Kind                 { return t.kind }
func (t *Transaction) Category() Category         { return t.category }
func (t *Transaction) Amount() int                { return t.amount }
func (t *Transaction) BalanceBefore() int         { return t.balanceBefore }
func (t *Transaction) BalanceAfter() int          { return t.balanceAfter }
func (t *Transaction) Description() string        { return t.description }

// ReconstructTransaction rebuilds a transaction from persistence without validation
func ReconstructTransaction(
	playerID shared.PlayerID,
	tick int64,
	sequence int64,
	kind Kind,
	category Category,
	amount int,
	balanceBefore int,
	balanceAfter int,
	description string,
) *Transaction {
	return &Transaction{
		playerID:      playerID,
		tick:          tick,
		sequence:      sequence,
		kind:          kind,
		category:      category,
		amount:        amount,
		balanceBefore: balanceBefore,
		balanceAfter:  balanceAfter,
		description:   description,
	}
}
