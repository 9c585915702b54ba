package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lotledger/backend/internal/domain/shared"
)

// ReceiptStatus represents the lifecycle of a goods receipt note
type ReceiptStatus string

const (
	// ReceiptStatusDraft means the receipt is recorded but no stock has entered the ledger
	ReceiptStatusDraft ReceiptStatus = "DRAFT"
	// ReceiptStatusConfirmed means every line has been opened as a stock lot
	ReceiptStatusConfirmed ReceiptStatus = "CONFIRMED"
)

// String returns the string representation of ReceiptStatus
func (s ReceiptStatus) String() string {
	return string(s)
}

// ReceiptLine is one received batch: a variant, a quantity, and the unit
// cost that will become the cost basis of the lot opened for it.
type ReceiptLine struct {
	shared.BaseEntity
	ReceiptID uuid.UUID       `gorm:"type:uuid;not null;index:idx_receipt_lines_receipt"`
	VariantID uuid.UUID       `gorm:"type:uuid;not null;index:idx_receipt_lines_variant"`
	Quantity  int64           `gorm:"not null"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ReceiptLine) TableName() string {
	return "goods_receipt_lines"
}

// GoodsReceipt is a purchase receipt note. Confirming it opens one stock
// lot per line.
type GoodsReceipt struct {
	shared.BaseEntity
	Number string        `gorm:"type:varchar(40);not null;uniqueIndex"`
	Status ReceiptStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Lines  []ReceiptLine `gorm:"foreignKey:ReceiptID"`
}

// TableName returns the table name for GORM
func (GoodsReceipt) TableName() string {
	return "goods_receipts"
}

// NewGoodsReceipt creates a draft receipt with the given lines
func NewGoodsReceipt(number string, lines []ReceiptLine) (*GoodsReceipt, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_RECEIPT", "Receipt must have at least one line")
	}
	receipt := &GoodsReceipt{
		BaseEntity: shared.NewBaseEntity(),
		Number:     number,
		Status:     ReceiptStatusDraft,
	}
	for idx := range lines {
		if lines[idx].Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Receipt line quantity must be positive")
		}
		if lines[idx].UnitCost.IsNegative() {
			return nil, shared.NewDomainError("INVALID_UNIT_COST", "Receipt line unit cost cannot be negative")
		}
		if lines[idx].ID == uuid.Nil {
			lines[idx].BaseEntity = shared.NewBaseEntity()
		}
		lines[idx].ReceiptID = receipt.ID
	}
	receipt.Lines = lines
	return receipt, nil
}

// MarkConfirmed transitions the receipt to CONFIRMED
func (r *GoodsReceipt) MarkConfirmed() error {
	if r.Status != ReceiptStatusDraft {
		return shared.ErrInvalidState
	}
	r.Status = ReceiptStatusConfirmed
	r.Touch()
	return nil
}
