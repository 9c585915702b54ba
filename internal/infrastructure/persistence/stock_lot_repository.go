package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lotledger/backend/internal/domain/inventory"
	"github.com/lotledger/backend/internal/domain/shared"
)

// fifoOrder is the total order lots are consumed in. The id tie-break keeps
// the order deterministic when purchase date and creation time collide.
const fifoOrder = "purchase_date ASC, created_at ASC, id ASC"

// GormStockLotRepository implements StockLotRepository using GORM
type GormStockLotRepository struct {
	db *gorm.DB
}

// NewGormStockLotRepository creates a new GormStockLotRepository
func NewGormStockLotRepository(db *gorm.DB) *GormStockLotRepository {
	return &GormStockLotRepository{db: db}
}

// FindByID finds a lot by its ID
func (r *GormStockLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockLot, error) {
	var lot inventory.StockLot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByIDForUpdate finds a lot and takes a row-level write lock on it
func (r *GormStockLotRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.StockLot, error) {
	var lot inventory.StockLot
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByVariant lists all lots for a variant, FIFO order
func (r *GormStockLotRepository) FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]inventory.StockLot, error) {
	var lots []inventory.StockLot
	query := applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockLot{}).
			Where("variant_id = ?", variantID),
		filter,
		StockLotSortFields,
		fifoOrder,
	)
	if has, ok := filter.Filters["has_stock"]; ok && has == true {
		query = query.Where("quantity_in > quantity_out")
	}
	if err := query.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindAvailableByVariant lists lots with remaining stock for a variant, FIFO order
func (r *GormStockLotRepository) FindAvailableByVariant(ctx context.Context, variantID uuid.UUID) ([]inventory.StockLot, error) {
	var lots []inventory.StockLot
	if err := r.db.WithContext(ctx).
		Where("variant_id = ? AND quantity_in > quantity_out", variantID).
		Order(fifoOrder).
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindAvailableByVariantForUpdate is FindAvailableByVariant with a write lock
// on the returned rows
func (r *GormStockLotRepository) FindAvailableByVariantForUpdate(ctx context.Context, variantID uuid.UUID) ([]inventory.StockLot, error) {
	var lots []inventory.StockLot
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("variant_id = ? AND quantity_in > quantity_out", variantID).
		Order(fifoOrder).
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// Save creates or updates a lot
func (r *GormStockLotRepository) Save(ctx context.Context, lot *inventory.StockLot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// SaveAll creates or updates multiple lots
func (r *GormStockLotRepository) SaveAll(ctx context.Context, lots []*inventory.StockLot) error {
	if len(lots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(lots).Error
}

// SumRemainingByVariant computes SUM(quantity_in - quantity_out) over the
// variant's lots. A variant with no lots sums to zero.
func (r *GormStockLotRepository) SumRemainingByVariant(ctx context.Context, variantID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockLot{}).
		Where("variant_id = ?", variantID).
		Select("COALESCE(SUM(quantity_in - quantity_out), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Ensure GormStockLotRepository implements StockLotRepository
var _ inventory.StockLotRepository = (*GormStockLotRepository)(nil)
