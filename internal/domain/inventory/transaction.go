package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/lotledger/backend/internal/domain/shared"
)

// TransactionType represents the type of inventory transaction
type TransactionType string

const (
	// TransactionTypeGoodsReceipt represents stock received against a goods receipt note
	TransactionTypeGoodsReceipt TransactionType = "IN_GRN"
	// TransactionTypeSale represents stock deducted for a sales order
	TransactionTypeSale TransactionType = "OUT_SALE"
	// TransactionTypeDamage represents stock written off as damaged
	TransactionTypeDamage TransactionType = "ADJ_DAMAGE"
	// TransactionTypeLoss represents stock written off as lost
	TransactionTypeLoss TransactionType = "ADJ_LOSS"
	// TransactionTypeFound represents stock discovered during handling
	TransactionTypeFound TransactionType = "ADJ_FOUND"
	// TransactionTypeReturnFromCustomer represents stock re-entering the ledger after a cancellation or return
	TransactionTypeReturnFromCustomer TransactionType = "ADJ_RETURN_FROM_CUSTOMER"
	// TransactionTypeReturnToSupplier represents stock sent back to a supplier
	TransactionTypeReturnToSupplier TransactionType = "ADJ_RETURN_TO_SUPPLIER"
	// TransactionTypeInventoryCount represents a stock-count correction in either direction
	TransactionTypeInventoryCount TransactionType = "ADJ_INVENTORY_COUNT"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is known
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeGoodsReceipt,
		TransactionTypeSale,
		TransactionTypeDamage,
		TransactionTypeLoss,
		TransactionTypeFound,
		TransactionTypeReturnFromCustomer,
		TransactionTypeReturnToSupplier,
		TransactionTypeInventoryCount:
		return true
	}
	return false
}

// IsInbound returns true if this transaction type adds stock to the ledger
func (t TransactionType) IsInbound() bool {
	switch t {
	case TransactionTypeGoodsReceipt,
		TransactionTypeFound,
		TransactionTypeReturnFromCustomer:
		return true
	case TransactionTypeInventoryCount:
		// count corrections go either way
		return true
	}
	return false
}

// IsOutbound returns true if this transaction type removes stock from the ledger
func (t TransactionType) IsOutbound() bool {
	switch t {
	case TransactionTypeSale,
		TransactionTypeDamage,
		TransactionTypeLoss,
		TransactionTypeReturnToSupplier,
		TransactionTypeInventoryCount:
		return true
	}
	return false
}

// AllowsPositiveAdjustment returns true if the type is valid for a positive lot delta
func (t TransactionType) AllowsPositiveAdjustment() bool {
	switch t {
	case TransactionTypeFound, TransactionTypeInventoryCount, TransactionTypeReturnFromCustomer:
		return true
	}
	return false
}

// AllowsNegativeAdjustment returns true if the type is valid for a negative lot delta
func (t TransactionType) AllowsNegativeAdjustment() bool {
	switch t {
	case TransactionTypeDamage, TransactionTypeLoss, TransactionTypeReturnToSupplier, TransactionTypeInventoryCount:
		return true
	}
	return false
}

// InventoryTransaction is an immutable audit record of one stock movement.
// Rows are append-only: corrections are made with new transactions, never updates.
type InventoryTransaction struct {
	shared.BaseEntity
	VariantID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_variant_time,priority:1"`
	TransactionType TransactionType `gorm:"type:varchar(30);not null;index:idx_inv_tx_type"`
	// Quantity is positive with the direction determined by the type, except
	// count corrections: those can go either way, so the row keeps the sign.
	Quantity int64 `gorm:"not null"`
	Reference       Reference       `gorm:"embedded;embeddedPrefix:reference_"`
	ActorID         *uuid.UUID      `gorm:"type:uuid"` // user who performed the operation, nil for system actions
	Notes           string          `gorm:"type:varchar(255)"`
	OccurredAt      time.Time       `gorm:"type:timestamptz;not null;index:idx_inv_tx_variant_time,priority:2"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates a new audit record for a stock movement
func NewInventoryTransaction(
	variantID uuid.UUID,
	txType TransactionType,
	quantity int64,
	ref Reference,
	actorID *uuid.UUID,
	notes string,
) (*InventoryTransaction, error) {
	if variantID == uuid.Nil {
		return nil, ErrVariantNotFound
	}
	if !txType.IsValid() {
		return nil, ErrInvalidTransactionType
	}
	if txType == TransactionTypeInventoryCount {
		if quantity == 0 {
			return nil, ErrInvalidQuantity
		}
	} else if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	return &InventoryTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		VariantID:       variantID,
		TransactionType: txType,
		Quantity:        quantity,
		Reference:       ref,
		ActorID:         actorID,
		Notes:           notes,
		OccurredAt:      time.Now().UTC(),
	}, nil
}

// SignedQuantity returns the quantity with sign based on transaction direction.
// Count corrections are stored signed already, so their quantity is returned as is.
func (t *InventoryTransaction) SignedQuantity() int64 {
	if t.TransactionType == TransactionTypeInventoryCount {
		return t.Quantity
	}
	if t.TransactionType.IsOutbound() {
		return -t.Quantity
	}
	return t.Quantity
}
