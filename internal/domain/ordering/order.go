package ordering

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lotledger/backend/internal/domain/shared"
)

// OrderStatus represents where an order sits in its lifecycle with the stock ledger
type OrderStatus string

const (
	// OrderStatusPending means the order exists but no stock has been allocated
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusConfirmed means stock was deducted and allocations recorded
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// OrderStatusCancelled means the order was cancelled; if it had been
	// confirmed, its allocations were replayed into fresh lots
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is known
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is one line of a sales order. COGS fields are filled at
// confirmation time from the weighted cost the ledger reports.
type OrderItem struct {
	shared.BaseEntity
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_order_items_order"`
	VariantID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_order_items_variant"`
	Quantity     int64           `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // selling price, not cost
	COGSTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	COGSPerUnit  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// RecordCOGS stores the weighted cost the ledger computed for this line
func (i *OrderItem) RecordCOGS(totalCost decimal.Decimal) {
	i.COGSTotal = totalCost
	if i.Quantity > 0 {
		i.COGSPerUnit = totalCost.Div(decimal.NewFromInt(i.Quantity)).Round(4)
	}
	i.Touch()
}

// Order aggregates order items. Only the transitions the stock ledger cares
// about are modeled here; payment and shipping live elsewhere.
type Order struct {
	shared.BaseEntity
	Number string      `gorm:"type:varchar(40);not null;uniqueIndex"`
	Status OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Items  []OrderItem `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order with the given lines
func NewOrder(number string, items []OrderItem) (*Order, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}
	order := &Order{
		BaseEntity: shared.NewBaseEntity(),
		Number:     number,
		Status:     OrderStatusPending,
	}
	for idx := range items {
		if items[idx].Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Order item quantity must be positive")
		}
		if items[idx].ID == uuid.Nil {
			items[idx].BaseEntity = shared.NewBaseEntity()
		}
		items[idx].OrderID = order.ID
	}
	order.Items = items
	return order, nil
}

// CanConfirm returns true if the order may move to CONFIRMED
func (o *Order) CanConfirm() bool {
	return o.Status == OrderStatusPending
}

// MarkConfirmed transitions the order to CONFIRMED
func (o *Order) MarkConfirmed() error {
	if !o.CanConfirm() {
		return shared.ErrInvalidState
	}
	o.Status = OrderStatusConfirmed
	o.Touch()
	return nil
}

// CanCancel returns true if the order may move to CANCELLED.
// There is no path back from CANCELLED; a re-order is a new allocation cycle.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// RequiresReversal returns true if cancelling this order must replay
// its allocations back into the ledger
func (o *Order) RequiresReversal() bool {
	return o.Status == OrderStatusConfirmed
}

// MarkCancelled transitions the order to CANCELLED
func (o *Order) MarkCancelled() error {
	if !o.CanCancel() {
		return shared.ErrInvalidState
	}
	o.Status = OrderStatusCancelled
	o.Touch()
	return nil
}
