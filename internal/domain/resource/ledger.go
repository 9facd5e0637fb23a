package resource

import "github.com/andrescamacho/skirmish-go/internal/domain/shared"

// Ledger holds one player's resource stock and journals every movement.
//
// Invariants:
// - Stock never goes negative
// - DebitAll is all-or-nothing: either every kind is debited or none is
// - Every movement appends exactly one Transaction per non-zero kind
//
// The ledger is single-writer: it is only mutated from the simulation frame.
type Ledger struct {
	owner    shared.PlayerID
	stock    Costs
	journal  []*Transaction
	sequence int64
}

// NewLedger creates a ledger with an opening stock. Opening stock is not journaled.
func NewLedger(owner shared.PlayerID, opening Costs) *Ledger {
	opening[Time] = 0
	return &Ledger{owner: owner, stock: opening}
}

// Owner returns the player the ledger belongs to
func (l *Ledger) Owner() shared.PlayerID {
	return l.owner
}

// Stock returns the current amount held of a kind
func (l *Ledger) Stock(k Kind) int {
	if !k.IsValid() {
		return 0
	}
	return l.stock[k]
}

// Stocks returns a copy of the whole stock vector
func (l *Ledger) Stocks() Costs {
	return l.stock
}

// Sequence returns the number of transactions journaled so far
func (l *Ledger) Sequence() int64 {
	return l.sequence
}

// Shortfall returns the first spendable kind whose stock is strictly less than
// its cost. The time slot is never checked.
func (l *Ledger) Shortfall(costs Costs) (Kind, bool) {
	for _, k := range Spendable() {
		if l.stock[k] < costs[k] {
			return k, true
		}
	}
	return 0, false
}

// DebitAll subtracts a whole cost vector after confirming every kind is covered.
// Nothing is debited if any kind falls short.
func (l *Ledger) DebitAll(costs Costs, tick int64, category Category, description string) error {
	if k, short := l.Shortfall(costs); short {
		return NewInsufficientResourcesError(k, costs[k], l.stock[k])
	}

	pending := make([]*Transaction, 0, MaxCosts)
	seq := l.sequence
	for _, k := range Spendable() {
		if costs[k] == 0 {
			continue
		}
		seq++
		before := l.stock[k]
		tx, err := NewTransaction(l.owner, tick, seq, k, category, -costs[k], before, before-costs[k], description)
		if err != nil {
			return err
		}
		pending = append(pending, tx)
	}

	for _, tx := range pending {
		l.stock[tx.Kind()] = tx.BalanceAfter()
	}
	l.journal = append(l.journal, pending...)
	l.sequence = seq
	return nil
}

// Credit adds an amount of one kind to the stock
func (l *Ledger) Credit(k Kind, amount int, tick int64, category Category, description string) error {
	before := l.Stock(k)
	tx, err := NewTransaction(l.owner, tick, l.sequence+1, k, category, amount, before, before+amount, description)
	if err != nil {
		return err
	}
	l.stock[k] = tx.BalanceAfter()
	l.journal = append(l.journal, tx)
	l.sequence++
	return nil
}

// Journal returns the transactions not yet drained
func (l *Ledger) Journal() []*Transaction {
	out := make([]*Transaction, len(l.journal))
	copy(out, l.journal)
	return out
}

// DrainJournal returns and clears the pending transactions
func (l *Ledger) DrainJournal() []*Transaction {
	out := l.journal
	l.journal = nil
	return out
}

// RestoreForLoad replaces stock and sequence when rebuilding a ledger from a save
func (l *Ledger) RestoreForLoad(stock Costs, sequence int64) {
	stock[Time] = 0
	l.stock = stock
	l.sequence = sequence
	l.journal = nil
}
