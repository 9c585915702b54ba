package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lotledger/backend/internal/domain/shared"
)

// StockLotAllocation records that N units of an order line were fulfilled
// from a specific lot at a specific cost. UnitCostAtAllocation is a snapshot
// taken at deduction time, independent of anything that happens to the lot
// afterwards. Allocations are never mutated or deleted; a reversal marks
// them Reversed so they cannot be replayed twice.
type StockLotAllocation struct {
	shared.BaseEntity
	OrderItemID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_lot_alloc_order_item,where:reversed = false"`
	StockLotID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_lot_alloc_lot"`
	AllocatedQuantity    int64           `gorm:"not null"`
	UnitCostAtAllocation decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reversed             bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (StockLotAllocation) TableName() string {
	return "stock_lot_allocations"
}

// NewStockLotAllocation creates an allocation record
func NewStockLotAllocation(
	orderItemID, stockLotID uuid.UUID,
	quantity int64,
	unitCost decimal.Decimal,
) (*StockLotAllocation, error) {
	if orderItemID == uuid.Nil || stockLotID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitCost.IsNegative() {
		return nil, ErrInvalidUnitCost
	}
	return &StockLotAllocation{
		BaseEntity:           shared.NewBaseEntity(),
		OrderItemID:          orderItemID,
		StockLotID:           stockLotID,
		AllocatedQuantity:    quantity,
		UnitCostAtAllocation: unitCost,
	}, nil
}

// TotalCost returns AllocatedQuantity * UnitCostAtAllocation
func (a *StockLotAllocation) TotalCost() decimal.Decimal {
	return decimal.NewFromInt(a.AllocatedQuantity).Mul(a.UnitCostAtAllocation)
}

// SumAllocatedQuantity sums the allocated quantity across allocations,
// skipping reversed rows
func SumAllocatedQuantity(allocations []StockLotAllocation) int64 {
	var total int64
	for _, a := range allocations {
		if a.Reversed {
			continue
		}
		total += a.AllocatedQuantity
	}
	return total
}

// SumAllocationCost sums the snapshot cost across allocations,
// skipping reversed rows
func SumAllocationCost(allocations []StockLotAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		if a.Reversed {
			continue
		}
		total = total.Add(a.TotalCost())
	}
	return total
}
