package procurement

import (
	"context"

	appinventory "github.com/lotledger/backend/internal/application/inventory"
	"github.com/lotledger/backend/internal/domain/procurement"
)

// TransactionalRepositories extends the ledger repositories with receipt
// persistence. Confirming a receipt opens lots and marks the receipt in
// the same database transaction.
type TransactionalRepositories interface {
	appinventory.TransactionalRepositories

	// ReceiptRepo returns the receipt repository scoped to the current transaction
	ReceiptRepo() procurement.ReceiptRepository
}

// TransactionScope provides transactional access to receipts and the stock ledger
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
