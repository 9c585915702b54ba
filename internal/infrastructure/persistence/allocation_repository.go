package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lotledger/backend/internal/domain/inventory"
)

// GormAllocationRepository implements AllocationRepository using GORM
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// Create appends an allocation record
func (r *GormAllocationRepository) Create(ctx context.Context, allocation *inventory.StockLotAllocation) error {
	return r.db.WithContext(ctx).Create(allocation).Error
}

// CreateBatch appends multiple allocation records
func (r *GormAllocationRepository) CreateBatch(ctx context.Context, allocations []*inventory.StockLotAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(allocations).Error
}

// FindByOrderItem lists allocations for one order line
func (r *GormAllocationRepository) FindByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]inventory.StockLotAllocation, error) {
	var allocations []inventory.StockLotAllocation
	if err := r.db.WithContext(ctx).
		Where("order_item_id = ?", orderItemID).
		Order("created_at ASC, id ASC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// FindActiveByOrderItem lists non-reversed allocations for one order line
func (r *GormAllocationRepository) FindActiveByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]inventory.StockLotAllocation, error) {
	var allocations []inventory.StockLotAllocation
	if err := r.db.WithContext(ctx).
		Where("order_item_id = ? AND reversed = FALSE", orderItemID).
		Order("created_at ASC, id ASC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// FindByLot lists allocations drawn from one lot
func (r *GormAllocationRepository) FindByLot(ctx context.Context, lotID uuid.UUID) ([]inventory.StockLotAllocation, error) {
	var allocations []inventory.StockLotAllocation
	if err := r.db.WithContext(ctx).
		Where("stock_lot_id = ?", lotID).
		Order("created_at ASC, id ASC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// MarkReversed flags allocations as replayed by a reversal
func (r *GormAllocationRepository) MarkReversed(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&inventory.StockLotAllocation{}).
		Where("id IN ?", ids).
		Update("reversed", true).Error
}

// Ensure GormAllocationRepository implements AllocationRepository
var _ inventory.AllocationRepository = (*GormAllocationRepository)(nil)
