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

// GormVariantRepository implements VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByID finds a variant by its ID
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductVariant, error) {
	var variant inventory.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindByIDForUpdate finds a variant and takes a row-level write lock on it.
// Every ledger mutation for a variant goes through this lock.
func (r *GormVariantRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.ProductVariant, error) {
	var variant inventory.ProductVariant
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&variant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindBySKU finds a variant by SKU
func (r *GormVariantRepository) FindBySKU(ctx context.Context, sku string) (*inventory.ProductVariant, error) {
	var variant inventory.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindAll lists variants
func (r *GormVariantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.ProductVariant, error) {
	var variants []inventory.ProductVariant
	query := applyFilter(
		r.db.WithContext(ctx).Model(&inventory.ProductVariant{}),
		filter,
		VariantSortFields,
		"sku ASC",
	)
	if err := query.Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Save creates or updates a variant
func (r *GormVariantRepository) Save(ctx context.Context, variant *inventory.ProductVariant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

// UpdateCachedStock writes the denormalized stock counter
func (r *GormVariantRepository) UpdateCachedStock(ctx context.Context, variantID uuid.UUID, stock int64) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.ProductVariant{}).
		Where("id = ?", variantID).
		Update("cached_stock", stock)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormVariantRepository implements VariantRepository
var _ inventory.VariantRepository = (*GormVariantRepository)(nil)
