package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lotledger/backend/internal/domain/shared"
)

// StockLot is one receipt batch for one variant. QuantityIn records how much
// entered the lot; QuantityOut how much has left it. UnitCost is the
// historical cost basis and is immutable after creation: adjustments change
// quantities, never cost.
//
// Invariant: 0 <= QuantityOut <= QuantityIn at all times.
type StockLot struct {
	shared.BaseEntity
	VariantID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_lots_variant_fifo,priority:1"`
	QuantityIn   int64           `gorm:"not null"`
	QuantityOut  int64           `gorm:"not null;default:0"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PurchaseDate time.Time       `gorm:"type:timestamptz;not null;index:idx_stock_lots_variant_fifo,priority:2"` // FIFO ordering key
	Source       Reference       `gorm:"embedded;embeddedPrefix:source_"`
}

// TableName returns the table name for GORM
func (StockLot) TableName() string {
	return "stock_lots"
}

// NewStockLot opens a new lot. This is the only place a lot's unit cost is set.
func NewStockLot(
	variantID uuid.UUID,
	quantityIn int64,
	unitCost decimal.Decimal,
	purchaseDate time.Time,
	source Reference,
) (*StockLot, error) {
	if variantID == uuid.Nil {
		return nil, ErrVariantNotFound
	}
	if quantityIn <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitCost.IsNegative() {
		return nil, ErrInvalidUnitCost
	}
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if purchaseDate.IsZero() {
		purchaseDate = time.Now().UTC()
	}

	return &StockLot{
		BaseEntity:   shared.NewBaseEntity(),
		VariantID:    variantID,
		QuantityIn:   quantityIn,
		QuantityOut:  0,
		UnitCost:     unitCost,
		PurchaseDate: purchaseDate,
		Source:       source,
	}, nil
}

// Remaining returns the quantity still available in the lot
func (l *StockLot) Remaining() int64 {
	return l.QuantityIn - l.QuantityOut
}

// HasStock returns true if the lot has available quantity
func (l *StockLot) HasStock() bool {
	return l.Remaining() > 0
}

// Consume deducts quantity from the lot by increasing QuantityOut.
// The caller is expected to ask for at most Remaining(); anything more
// is an invariant violation, not a partial fill.
func (l *StockLot) Consume(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > l.Remaining() {
		return ErrInsufficientLotStock
	}
	l.QuantityOut += quantity
	l.Touch()
	return nil
}

// Extend increases QuantityIn for found inventory or upward count corrections
func (l *StockLot) Extend(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	l.QuantityIn += quantity
	l.Touch()
	return nil
}

// TotalValue returns the cost value of the remaining quantity
func (l *StockLot) TotalValue() decimal.Decimal {
	return decimal.NewFromInt(l.Remaining()).Mul(l.UnitCost)
}

// CheckInvariant verifies 0 <= QuantityOut <= QuantityIn
func (l *StockLot) CheckInvariant() error {
	if l.QuantityOut < 0 || l.QuantityOut > l.QuantityIn {
		return ErrInternalConsistency
	}
	return nil
}
