package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appprocurement "github.com/lotledger/backend/internal/application/procurement"
)

// ReceiptHandler serves goods receipts. Confirming a receipt is how
// purchased stock enters the lot ledger with its cost basis.
type ReceiptHandler struct {
	BaseHandler
	receivingService *appprocurement.ReceivingService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receivingService *appprocurement.ReceivingService) *ReceiptHandler {
	return &ReceiptHandler{receivingService: receivingService}
}

// RegisterRoutes registers receipt routes
func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/receipts")
	{
		receipts.POST("", h.Create)
		receipts.GET("/:id", h.Get)
		receipts.POST("/:id/confirm", h.Confirm)
	}
}

// ReceiptLineRequest is one received batch on a new receipt
type ReceiptLineRequest struct {
	VariantID uuid.UUID       `json:"variant_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreateReceiptRequest is the payload for registering a draft receipt
type CreateReceiptRequest struct {
	Number string               `json:"number" binding:"required,max=64"`
	Lines  []ReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Create registers a draft receipt. No stock moves until confirmation.
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines := make([]appprocurement.CreateReceiptLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, appprocurement.CreateReceiptLineInput{
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
		})
	}

	receipt, err := h.receivingService.Create(c.Request.Context(), appprocurement.CreateReceiptInput{
		Number: req.Number,
		Lines:  lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}

// Get returns one receipt with its lines
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	receipt, err := h.receivingService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// Confirm opens one stock lot per line with the line's quantity and unit cost
func (h *ReceiptHandler) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid X-Actor-ID header")
		return
	}

	receipt, err := h.receivingService.Confirm(c.Request.Context(), id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}
