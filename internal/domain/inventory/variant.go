package inventory

import (
	"github.com/lotledger/backend/internal/domain/shared"
)

// ProductVariant is the unit of stock keeping. The CachedStock column is a
// denormalized read-optimization: the lot ledger is the source of truth and
// the counter is rebuilt from it after every mutation, never trusted.
type ProductVariant struct {
	shared.BaseEntity
	SKU         string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(255);not null"`
	CachedStock int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductVariant) TableName() string {
	return "product_variants"
}

// NewProductVariant creates a new variant with zero stock
func NewProductVariant(sku, name string) (*ProductVariant, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	return &ProductVariant{
		BaseEntity: shared.NewBaseEntity(),
		SKU:        sku,
		Name:       name,
	}, nil
}
