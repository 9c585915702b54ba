package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/lotledger/backend/internal/application/inventory"
	appordering "github.com/lotledger/backend/internal/application/ordering"
	appprocurement "github.com/lotledger/backend/internal/application/procurement"
	"github.com/lotledger/backend/internal/domain/inventory"
	"github.com/lotledger/backend/internal/domain/ordering"
	"github.com/lotledger/backend/internal/domain/procurement"
)

// gormTransactionalRepositories provides access to all repositories within
// one database transaction. The same value backs the inventory, ordering,
// and procurement scopes, so a lifecycle operation and the ledger mutations
// it triggers always commit or roll back together.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// VariantRepo returns the product variant repository scoped to the current transaction
func (r *gormTransactionalRepositories) VariantRepo() inventory.VariantRepository {
	return NewGormVariantRepository(r.tx)
}

// LotRepo returns the stock lot repository scoped to the current transaction
func (r *gormTransactionalRepositories) LotRepo() inventory.StockLotRepository {
	return NewGormStockLotRepository(r.tx)
}

// AllocationRepo returns the allocation repository scoped to the current transaction
func (r *gormTransactionalRepositories) AllocationRepo() inventory.AllocationRepository {
	return NewGormAllocationRepository(r.tx)
}

// TransactionRepo returns the audit log repository scoped to the current transaction
func (r *gormTransactionalRepositories) TransactionRepo() inventory.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormTransactionalRepositories) OrderRepo() ordering.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// ReceiptRepo returns the goods receipt repository scoped to the current transaction
func (r *gormTransactionalRepositories) ReceiptRepo() procurement.ReceiptRepository {
	return NewGormReceiptRepository(r.tx)
}

// GormTransactionScope implements the inventory TransactionScope using GORM
// transactions. If the callback returns an error the transaction is rolled
// back, otherwise it is committed.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormOrderingTransactionScope implements the ordering TransactionScope,
// widening the repository set with the order repository
type GormOrderingTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderingTransactionScope creates a new GormOrderingTransactionScope
func NewGormOrderingTransactionScope(db *gorm.DB) *GormOrderingTransactionScope {
	return &GormOrderingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormOrderingTransactionScope) Execute(ctx context.Context, fn func(repos appordering.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormProcurementTransactionScope implements the procurement TransactionScope,
// widening the repository set with the goods receipt repository
type GormProcurementTransactionScope struct {
	db *gorm.DB
}

// NewGormProcurementTransactionScope creates a new GormProcurementTransactionScope
func NewGormProcurementTransactionScope(db *gorm.DB) *GormProcurementTransactionScope {
	return &GormProcurementTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormProcurementTransactionScope) Execute(ctx context.Context, fn func(repos appprocurement.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Ensure the scopes implement their application interfaces
var _ appinventory.TransactionScope = (*GormTransactionScope)(nil)
var _ appordering.TransactionScope = (*GormOrderingTransactionScope)(nil)
var _ appprocurement.TransactionScope = (*GormProcurementTransactionScope)(nil)

// Ensure the shared repository set satisfies every scope's view of it
var _ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ appordering.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ appprocurement.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
