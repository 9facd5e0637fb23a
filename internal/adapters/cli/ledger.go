package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/andrescamacho/skirmish-go/internal/adapters/persistence"
	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/application/ledger"
	"github.com/andrescamacho/skirmish-go/internal/application/ledger/queries"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/database"
)

// NewLedgerCommand creates the ledger command with subcommands
func NewLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Resource journal operations",
		Long: `View resource movements journaled by persisted runs.

Every paid repair step debits the owner's stock and is journaled once per
resource kind. Runs started with --persist store the journal in the
configured database.

Examples:
  skirmish ledger list --session farm-1a2b3c4d --player 0
  skirmish ledger list --session farm-1a2b3c4d --player 1 --kind gold --from-tick 100
  skirmish ledger flow --session farm-1a2b3c4d --player 0`,
	}

	cmd.AddCommand(newLedgerListCommand())
	cmd.AddCommand(newLedgerFlowCommand())

	return cmd
}

// ledgerFilter carries the flags of the ledger list command
type ledgerFilter struct {
	sessionID string
	player    string
	category  string
	kind      string
	fromTick  int64
	toTick    int64
	limit     int
	offset    int
}

// newLedgerListCommand creates the ledger list subcommand
func newLedgerListCommand() *cobra.Command {
	var filter ledgerFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled transactions",
		Long: `List journaled transactions of one player, ordered by tick.

Categories:
  REPAIR_COSTS  - Resources spent restoring hit points
  GRANT         - Stock handed out by a scenario or script
  REFUND        - Stock returned to a player`,
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := parsePlayerID(filter.player)
			if err != nil {
				return err
			}

			query := &queries.GetTransactionsQuery{
				SessionID: filter.sessionID,
				PlayerID:  playerID.Value(),
				FromTick:  tickFlag(filter.fromTick),
				ToTick:    tickFlag(filter.toTick),
				Limit:     filter.limit,
				Offset:    filter.offset,
			}
			if filter.category != "" {
				query.Category = &filter.category
			}
			if filter.kind != "" {
				query.Kind = &filter.kind
			}

			resp, err := sendLedgerQuery(cmd.Context(), query)
			if err != nil {
				return err
			}

			displayTransactionList(cmd.OutOrStdout(), resp.(*queries.GetTransactionsResponse).Transactions)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.sessionID, "session", "", "Session id [required]")
	cmd.Flags().StringVar(&filter.player, "player", "", "Player id [required]")
	cmd.Flags().StringVar(&filter.category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&filter.kind, "kind", "", "Filter by resource kind (gold, wood, ...)")
	cmd.Flags().Int64Var(&filter.fromTick, "from-tick", -1, "First tick to include")
	cmd.Flags().Int64Var(&filter.toTick, "to-tick", -1, "Last tick to include")
	cmd.Flags().IntVar(&filter.limit, "limit", 50, "Maximum number of transactions to return")
	cmd.Flags().IntVar(&filter.offset, "offset", 0, "Number of transactions to skip")
	cmd.MarkFlagRequired("session")
	cmd.MarkFlagRequired("player")

	return cmd
}

// newLedgerFlowCommand creates the ledger flow subcommand
func newLedgerFlowCommand() *cobra.Command {
	var filter ledgerFilter

	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Summarize resource movements per category and kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := parsePlayerID(filter.player)
			if err != nil {
				return err
			}

			resp, err := sendLedgerQuery(cmd.Context(), &queries.GetResourceFlowQuery{
				SessionID: filter.sessionID,
				PlayerID:  playerID.Value(),
				FromTick:  tickFlag(filter.fromTick),
				ToTick:    tickFlag(filter.toTick),
			})
			if err != nil {
				return err
			}

			displayResourceFlow(cmd.OutOrStdout(), resp.(*queries.GetResourceFlowResponse))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.sessionID, "session", "", "Session id [required]")
	cmd.Flags().StringVar(&filter.player, "player", "", "Player id [required]")
	cmd.Flags().Int64Var(&filter.fromTick, "from-tick", -1, "First tick to include")
	cmd.Flags().Int64Var(&filter.toTick, "to-tick", -1, "Last tick to include")
	cmd.MarkFlagRequired("session")
	cmd.MarkFlagRequired("player")

	return cmd
}

// tickFlag maps the -1 "unset" flag value to nil
func tickFlag(v int64) *int64 {
	if v < 0 {
		return nil
	}
	return &v
}

// sendLedgerQuery opens the database and dispatches one journal query
func sendLedgerQuery(ctx context.Context, request common.Request) (common.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := openDatabase(settings)
	if err != nil {
		return nil, err
	}
	defer database.Close(db)

	m, err := newLedgerMediator(db)
	if err != nil {
		return nil, err
	}
	return m.Send(ctx, request)
}

func newLedgerMediator(db *gorm.DB) (common.Mediator, error) {
	m := common.NewMediator()
	m.Use(common.LoggingMiddleware(logger))
	if err := ledger.RegisterHandlers(m, persistence.NewGormTransactionRepository(db)); err != nil {
		return nil, err
	}
	return m, nil
}

func displayTransactionList(out io.Writer, txs []*queries.TransactionDTO) {
	if len(txs) == 0 {
		fmt.Fprintln(out, "No transactions found")
		return
	}

	fmt.Fprintf(out, "\nTRANSACTIONS (%d)\n", len(txs))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Tick\tSeq\tKind\tCategory\tAmount\tBalance\tDescription")

	for _, tx := range txs {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%+d\t%d -> %d\t%s\n",
			tx.Tick,
			tx.Sequence,
			tx.Kind,
			tx.Category,
			tx.Amount,
			tx.BalanceBefore,
			tx.BalanceAfter,
			tx.Description,
		)
	}

	w.Flush()
}

func displayResourceFlow(out io.Writer, resp *queries.GetResourceFlowResponse) {
	if len(resp.Flows) == 0 {
		fmt.Fprintln(out, "No transactions found")
		return
	}

	fmt.Fprintln(out, "\nRESOURCE FLOW")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Category\tKind\tIn\tOut\tNet\tCount")
	for _, flow := range resp.Flows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%+d\t%d\n",
			flow.Category,
			flow.Kind,
			flow.TotalInflow,
			flow.TotalOutflow,
			flow.NetFlow,
			flow.Transactions,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal spent: %s\n", resp.Spent)
}
