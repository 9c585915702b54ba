package ordering

import (
	"context"

	appinventory "github.com/lotledger/backend/internal/application/inventory"
	"github.com/lotledger/backend/internal/domain/ordering"
)

// TransactionalRepositories extends the ledger repositories with order
// persistence. Order confirmation and cancellation mutate the order and the
// stock ledger in the same database transaction, so one scope must carry both.
type TransactionalRepositories interface {
	appinventory.TransactionalRepositories

	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() ordering.OrderRepository
}

// TransactionScope provides transactional access to orders and the stock ledger
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
