package ledger

import (
	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/application/ledger/queries"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
)

// RegisterHandlers registers the journal queries on m
func RegisterHandlers(m common.Mediator, transactionRepo resource.TransactionRepository) error {
	if err := common.RegisterHandler[*queries.GetTransactionsQuery](m, queries.NewGetTransactionsHandler(transactionRepo)); err != nil {
		return err
	}
	return common.RegisterHandler[*queries.GetResourceFlowQuery](m, queries.NewGetResourceFlowHandler(transactionRepo))
}
