package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appordering "github.com/lotledger/backend/internal/application/ordering"
)

// OrderHandler serves the order lifecycle: create, confirm, cancel
type OrderHandler struct {
	BaseHandler
	orderService *appordering.OrderLifecycleService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *appordering.OrderLifecycleService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/confirm", h.Confirm)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// OrderItemRequest is one requested line of a new order
type OrderItemRequest struct {
	VariantID uuid.UUID       `json:"variant_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest is the payload for registering a pending order
type CreateOrderRequest struct {
	Number string             `json:"number" binding:"required,max=64"`
	Items  []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// Create registers a pending order. No stock moves until confirmation.
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items := make([]appordering.CreateOrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, appordering.CreateOrderItemInput{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := h.orderService.Create(c.Request.Context(), appordering.CreateOrderInput{
		Number: req.Number,
		Items:  items,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Get returns one order with its lines
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Confirm deducts stock for every line FIFO and freezes the cost of goods
// sold onto the order. A shortfall on any line rejects the whole request.
func (h *OrderHandler) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid X-Actor-ID header")
		return
	}

	order, err := h.orderService.Confirm(c.Request.Context(), id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel cancels an order. Cancelling a confirmed order returns its stock
// to the ledger at the cost it was deducted with.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid X-Actor-ID header")
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
