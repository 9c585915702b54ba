package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/lotledger/backend/internal/application/inventory"
	"github.com/lotledger/backend/internal/domain/inventory"
)

// StockLotHandler serves direct lot operations: manual lot entry, targeted
// adjustments against one physical batch, and the per-lot audit trail
type StockLotHandler struct {
	BaseHandler
	stockService *appinventory.StockLotService
}

// NewStockLotHandler creates a new StockLotHandler
func NewStockLotHandler(stockService *appinventory.StockLotService) *StockLotHandler {
	return &StockLotHandler{stockService: stockService}
}

// RegisterRoutes registers lot routes
func (h *StockLotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	lots := rg.Group("/lots")
	{
		lots.POST("", h.Create)
		lots.POST("/:id/adjustments", h.Adjust)
		lots.GET("/:id/history", h.History)
	}
}

// CreateLotRequest is the payload for opening a lot by hand, outside the
// goods-receipt flow
type CreateLotRequest struct {
	VariantID       uuid.UUID       `json:"variant_id" binding:"required"`
	Quantity        int64           `json:"quantity" binding:"required,gt=0"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	PurchaseDate    *time.Time      `json:"purchase_date"`
	TransactionType string          `json:"transaction_type"`
	Notes           string          `json:"notes" binding:"max=500"`
}

// Create opens a new stock lot. The transaction type defaults to a found
// adjustment; receipts and reversals open their lots through their own flows.
func (h *StockLotHandler) Create(c *gin.Context) {
	var req CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid X-Actor-ID header")
		return
	}

	txType := inventory.TransactionTypeFound
	if req.TransactionType != "" {
		txType = inventory.TransactionType(req.TransactionType)
	}
	var purchaseDate time.Time
	if req.PurchaseDate != nil {
		purchaseDate = *req.PurchaseDate
	}

	lot, err := h.stockService.CreateLot(c.Request.Context(), appinventory.CreateLotInput{
		VariantID:       req.VariantID,
		QuantityIn:      req.Quantity,
		UnitCost:        req.UnitCost,
		PurchaseDate:    purchaseDate,
		Source:          inventory.NoReference(),
		TransactionType: txType,
		ActorID:         actorID,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, lot)
}

// AdjustLotRequest is the payload for a signed correction against one lot
type AdjustLotRequest struct {
	Delta           int64  `json:"delta" binding:"required"`
	TransactionType string `json:"transaction_type" binding:"required"`
	Notes           string `json:"notes" binding:"max=500"`
}

// Adjust applies a signed delta to one named lot. Positive deltas add stock
// at the lot's original cost, negative deltas consume remaining stock.
func (h *StockLotHandler) Adjust(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid lot ID format")
		return
	}

	var req AdjustLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid X-Actor-ID header")
		return
	}

	lot, err := h.stockService.AdjustLot(c.Request.Context(), appinventory.AdjustInput{
		LotID:           id,
		Delta:           req.Delta,
		TransactionType: inventory.TransactionType(req.TransactionType),
		ActorID:         actorID,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lot)
}

// History returns the lot's audit trail: the inbound transaction that opened
// it and every movement that drew from it
func (h *StockLotHandler) History(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid lot ID format")
		return
	}

	txs, err := h.stockService.LotHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txs)
}
