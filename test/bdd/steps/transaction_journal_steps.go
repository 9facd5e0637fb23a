package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/skirmish-go/internal/adapters/persistence"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/test/helpers"
)

type transactionJournalContext struct {
	repo   *persistence.GormTransactionRepository
	ledger *resource.Ledger
	err    error

	stored []*resource.Transaction
}

func (c *transactionJournalContext) reset() error {
	c.ledger = nil
	c.err = nil
	c.stored = nil
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	c.repo = persistence.NewGormTransactionRepository(helpers.SharedTestDB)
	return nil
}

func (c *transactionJournalContext) aLedgerForPlayer(id, gold, wood int) error {
	playerID, err := shared.NewPlayerID(id)
	if err != nil {
		return err
	}
	var opening resource.Costs
	opening[resource.Gold] = gold
	opening[resource.Wood] = wood
	c.ledger = resource.NewLedger(playerID, opening)
	return nil
}

func (c *transactionJournalContext) theLedgerPays(gold, wood int, description string, tick int) error {
	var costs resource.Costs
	costs[resource.Gold] = gold
	costs[resource.Wood] = wood
	c.err = c.ledger.DebitAll(costs, int64(tick), resource.CategoryRepairCosts, description)
	return nil
}

func (c *transactionJournalContext) thePaymentShouldFailWith(text string) error {
	if c.err == nil {
		return fmt.Errorf("expected the payment to fail")
	}
	if !strings.Contains(strings.ToLower(c.err.Error()), text) {
		return fmt.Errorf("expected error containing %q, got %q", text, c.err.Error())
	}
	return nil
}

func (c *transactionJournalContext) theJournalIsDrainedInto(session string) error {
	return c.repo.CreateBatch(context.Background(), session, c.ledger.DrainJournal())
}

func (c *transactionJournalContext) find(session string, opts resource.QueryOptions) ([]*resource.Transaction, error) {
	stored, err := c.repo.FindByPlayer(context.Background(), session, c.ledger.Owner(), opts)
	if err != nil {
		return nil, err
	}
	c.stored = stored
	return stored, nil
}

func (c *transactionJournalContext) sessionShouldHoldTransactions(session string, count, playerID int) error {
	if playerID != c.ledger.Owner().Value() {
		return fmt.Errorf("no ledger for player %d", playerID)
	}
	stored, err := c.find(session, resource.DefaultQueryOptions())
	if err != nil {
		return err
	}
	if len(stored) != count {
		return fmt.Errorf("expected %d transactions in %s, got %d", count, session, len(stored))
	}
	return nil
}

func (c *transactionJournalContext) sessionShouldHoldKindTransactions(session string, count int, kindName string, playerID int) error {
	kind, err := resource.ParseKind(kindName)
	if err != nil {
		return err
	}
	opts := resource.DefaultQueryOptions()
	opts.Kind = &kind
	stored, err := c.find(session, opts)
	if err != nil {
		return err
	}
	if len(stored) != count {
		return fmt.Errorf("expected %d %s transactions, got %d", count, kindName, len(stored))
	}
	return nil
}

func (c *transactionJournalContext) sessionShouldHoldTransactionsBetween(session string, count, playerID, from, to int) error {
	opts := resource.DefaultQueryOptions()
	fromTick, toTick := int64(from), int64(to)
	opts.FromTick = &fromTick
	opts.ToTick = &toTick
	stored, err := c.find(session, opts)
	if err != nil {
		return err
	}
	if len(stored) != count {
		return fmt.Errorf("expected %d transactions between ticks %d and %d, got %d", count, from, to, len(stored))
	}
	return nil
}

func (c *transactionJournalContext) storedTransactionShouldBe(position int, kindName string, amount, balance int) error {
	if position < 1 || position > len(c.stored) {
		return fmt.Errorf("only %d transactions were loaded", len(c.stored))
	}
	tx := c.stored[position-1]
	if tx.Kind().String() != kindName {
		return fmt.Errorf("expected a %s transaction, got %s", kindName, tx.Kind())
	}
	if tx.Amount() != -amount {
		return fmt.Errorf("expected amount %d, got %d", -amount, tx.Amount())
	}
	if tx.BalanceAfter() != balance {
		return fmt.Errorf("expected balance %d, got %d", balance, tx.BalanceAfter())
	}
	if tx.Category() != resource.CategoryRepairCosts {
		return fmt.Errorf("expected category %s, got %s", resource.CategoryRepairCosts, tx.Category())
	}
	return nil
}

func (c *transactionJournalContext) theLedgerJournalShouldBeEmpty() error {
	if n := len(c.ledger.Journal()); n != 0 {
		return fmt.Errorf("expected an empty journal, got %d entries", n)
	}
	return nil
}

// InitializeTransactionJournalScenario registers the journal persistence steps
func InitializeTransactionJournalScenario(ctx *godog.ScenarioContext) {
	c := &transactionJournalContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, c.reset()
	})

	ctx.Step(`^a ledger for player (\d+) with (\d+) gold and (\d+) wood$`, c.aLedgerForPlayer)
	ctx.Step(`^the ledger pays (\d+) gold and (\d+) wood for "([^"]*)" at tick (\d+)$`, c.theLedgerPays)
	ctx.Step(`^the payment should fail with "([^"]*)"$`, c.thePaymentShouldFailWith)
	ctx.Step(`^the journal is drained into session "([^"]*)"$`, c.theJournalIsDrainedInto)
	ctx.Step(`^session "([^"]*)" should hold (\d+) transactions for player (\d+)$`, c.sessionShouldHoldTransactions)
	ctx.Step(`^session "([^"]*)" should hold (\d+) "([^"]*)" transactions for player (\d+)$`, c.sessionShouldHoldKindTransactions)
	ctx.Step(`^session "([^"]*)" should hold (\d+) transactions for player (\d+) between ticks (\d+) and (\d+)$`, c.sessionShouldHoldTransactionsBetween)
	ctx.Step(`^the stored transaction (\d+) should be a "([^"]*)" debit of (\d+) leaving (\d+)$`, c.storedTransactionShouldBe)
	ctx.Step(`^the ledger journal should be empty$`, c.theLedgerJournalShouldBeEmpty)
}
