package inventory

import (
	"context"

	"github.com/lotledger/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the ledger repositories.
// Everything executed within one scope commits or rolls back atomically:
// no partial lot mutation, no orphaned allocation rows, no dangling audit
// entries survive a failed operation.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories
// within one transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// VariantRepo returns the product variant repository scoped to the current transaction
	VariantRepo() inventory.VariantRepository
	// LotRepo returns the stock lot repository scoped to the current transaction
	LotRepo() inventory.StockLotRepository
	// AllocationRepo returns the allocation repository scoped to the current transaction
	AllocationRepo() inventory.AllocationRepository
	// TransactionRepo returns the audit log repository scoped to the current transaction
	TransactionRepo() inventory.TransactionRepository
}

// NoOpTransactionScope runs the callback without a real transaction.
// Used in tests where the repositories are in-memory fakes.
type NoOpTransactionScope struct {
	variantRepo     inventory.VariantRepository
	lotRepo         inventory.StockLotRepository
	allocationRepo  inventory.AllocationRepository
	transactionRepo inventory.TransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	variantRepo inventory.VariantRepository,
	lotRepo inventory.StockLotRepository,
	allocationRepo inventory.AllocationRepository,
	transactionRepo inventory.TransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		variantRepo:     variantRepo,
		lotRepo:         lotRepo,
		allocationRepo:  allocationRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// VariantRepo returns the variant repository
func (s *NoOpTransactionScope) VariantRepo() inventory.VariantRepository {
	return s.variantRepo
}

// LotRepo returns the lot repository
func (s *NoOpTransactionScope) LotRepo() inventory.StockLotRepository {
	return s.lotRepo
}

// AllocationRepo returns the allocation repository
func (s *NoOpTransactionScope) AllocationRepo() inventory.AllocationRepository {
	return s.allocationRepo
}

// TransactionRepo returns the audit log repository
func (s *NoOpTransactionScope) TransactionRepo() inventory.TransactionRepository {
	return s.transactionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
