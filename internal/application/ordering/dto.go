package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lotledger/backend/internal/domain/ordering"
)

// CreateOrderInput describes a new pending order
type CreateOrderInput struct {
	Number string
	Items  []CreateOrderItemInput
}

// CreateOrderItemInput is one requested line of a new order
type CreateOrderItemInput struct {
	VariantID uuid.UUID
	Quantity  int64
	UnitPrice decimal.Decimal
}

// OrderItemResponse is the read model for an order line
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	VariantID   uuid.UUID       `json:"variant_id"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	COGSTotal   decimal.Decimal `json:"cogs_total"`
	COGSPerUnit decimal.Decimal `json:"cogs_per_unit"`
}

// OrderResponse is the read model for an order
type OrderResponse struct {
	ID        uuid.UUID           `json:"id"`
	Number    string              `json:"number"`
	Status    string              `json:"status"`
	Items     []OrderItemResponse `json:"items"`
	COGSTotal decimal.Decimal     `json:"cogs_total"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ToOrderResponse maps a domain order to its read model
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	total := decimal.Zero
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			VariantID:   item.VariantID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			COGSTotal:   item.COGSTotal,
			COGSPerUnit: item.COGSPerUnit,
		})
		total = total.Add(item.COGSTotal)
	}
	return OrderResponse{
		ID:        order.ID,
		Number:    order.Number,
		Status:    order.Status.String(),
		Items:     items,
		COGSTotal: total,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}
