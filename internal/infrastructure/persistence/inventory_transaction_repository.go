package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lotledger/backend/internal/domain/inventory"
	"github.com/lotledger/backend/internal/domain/shared"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create appends a transaction record. Rows are never updated or deleted.
func (r *GormTransactionRepository) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindByVariant lists transactions for a variant, newest first
func (r *GormTransactionRepository) FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	query := applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}).
			Where("variant_id = ?", variantID),
		filter,
		InventoryTransactionSortFields,
		"occurred_at DESC, created_at DESC",
	)
	if txType, ok := filter.Filters["transaction_type"]; ok {
		query = query.Where("transaction_type = ?", txType)
	}
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByReference lists transactions caused by a specific document
func (r *GormTransactionRepository) FindByReference(ctx context.Context, ref inventory.Reference) ([]inventory.InventoryTransaction, error) {
	if ref.IsNone() {
		return nil, shared.ErrInvalidInput
	}
	var txs []inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("reference_kind = ? AND reference_id = ?", ref.Kind, ref.ID).
		Order("occurred_at ASC, created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindLotHistory lists every transaction that touched a lot, chronologically:
// the inbound transaction that created it (matched through the lot's source
// reference, or through the lot itself when it has no source document),
// adjustments referencing the lot directly, sales that drew from it through
// its allocations, and reversals that replayed those allocations.
func (r *GormTransactionRepository) FindLotHistory(ctx context.Context, lotID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryTransaction{}).
		Select("inventory_transactions.*").
		Joins("JOIN stock_lots lot ON lot.id = ?", lotID).
		Joins("LEFT JOIN stock_lot_allocations rev ON inventory_transactions.reference_kind = ? AND inventory_transactions.reference_id = rev.id",
			inventory.ReferenceKindAllocation).
		Joins("LEFT JOIN stock_lot_allocations alloc ON inventory_transactions.reference_kind = ? AND inventory_transactions.reference_id = alloc.order_item_id",
			inventory.ReferenceKindOrderItem).
		Where("(inventory_transactions.reference_kind = ? AND inventory_transactions.reference_id = ?)"+
			" OR (inventory_transactions.variant_id = lot.variant_id AND inventory_transactions.reference_kind = lot.source_kind AND inventory_transactions.reference_id = lot.source_id)"+
			" OR rev.stock_lot_id = ? OR alloc.stock_lot_id = ?",
			inventory.ReferenceKindLot, lotID, lotID, lotID).
		Order("inventory_transactions.occurred_at ASC, inventory_transactions.created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ inventory.TransactionRepository = (*GormTransactionRepository)(nil)
