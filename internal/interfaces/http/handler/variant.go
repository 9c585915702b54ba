package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appinventory "github.com/lotledger/backend/internal/application/inventory"
	"github.com/lotledger/backend/internal/domain/inventory"
	"github.com/lotledger/backend/internal/interfaces/http/dto"
)

// VariantHandler serves product variants and the per-variant ledger views
type VariantHandler struct {
	BaseHandler
	variantService *appinventory.VariantService
	stockService   *appinventory.StockLotService
}

// NewVariantHandler creates a new VariantHandler
func NewVariantHandler(variantService *appinventory.VariantService, stockService *appinventory.StockLotService) *VariantHandler {
	return &VariantHandler{
		variantService: variantService,
		stockService:   stockService,
	}
}

// RegisterRoutes registers variant routes
func (h *VariantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	variants := rg.Group("/variants")
	{
		variants.POST("", h.Create)
		variants.GET("", h.List)
		variants.GET("/:id", h.Get)
		variants.GET("/:id/lots", h.ListAvailableLots)
		variants.GET("/:id/transactions", h.ListTransactions)
		variants.GET("/:id/cost-preview", h.PreviewCost)
		variants.POST("/:id/deductions", h.Deduct)
		variants.POST("/:id/stock-sync", h.SyncStock)
	}
}

// CreateVariantRequest is the payload for registering a variant
type CreateVariantRequest struct {
	SKU  string `json:"sku" binding:"required,max=64,sku"`
	Name string `json:"name" binding:"required,max=255"`
}

// Create registers a new variant with zero stock
func (h *VariantHandler) Create(c *gin.Context) {
	var req CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	variant, err := h.variantService.Create(c.Request.Context(), req.SKU, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, variant)
}

// Get returns one variant
func (h *VariantHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	variant, err := h.variantService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variant)
}

// List returns variants. ?sku= looks up a single variant by its SKU.
func (h *VariantHandler) List(c *gin.Context) {
	if sku := c.Query("sku"); sku != "" {
		variant, err := h.variantService.GetBySKU(c.Request.Context(), sku)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, []any{variant})
		return
	}

	req, ok := h.bindList(c)
	if !ok {
		return
	}
	filter := toFilter(req)

	variants, err := h.variantService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, variants, filter.Page, filter.PageSize, len(variants))
}

// ListAvailableLots returns the variant's lots with remaining stock, FIFO order
func (h *VariantHandler) ListAvailableLots(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	lots, err := h.stockService.AvailableLots(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lots)
}

// ListTransactions returns the variant's audit trail
func (h *VariantHandler) ListTransactions(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	req, ok := h.bindList(c)
	if !ok {
		return
	}
	filter := toFilter(req)
	if txType := c.Query("transaction_type"); txType != "" {
		filter.Filters["transaction_type"] = txType
	}

	txs, err := h.variantService.Transactions(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, txs, filter.Page, filter.PageSize, len(txs))
}

// PreviewCost reports what deducting ?quantity= units would cost, FIFO,
// without moving any stock
func (h *VariantHandler) PreviewCost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	quantity, err := strconv.ParseInt(c.Query("quantity"), 10, 64)
	if err != nil {
		h.BadRequest(c, "quantity must be an integer")
		return
	}

	preview, err := h.stockService.PreviewCost(c.Request.Context(), id, quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// DeductStockRequest is the payload for a manual FIFO deduction
type DeductStockRequest struct {
	Quantity        int64  `json:"quantity" binding:"required,gt=0"`
	TransactionType string `json:"transaction_type" binding:"required"`
	Notes           string `json:"notes" binding:"max=500"`
}

// Deduct removes stock from the variant in FIFO order. This is the manual
// entry point for write-offs; sales deductions go through order confirmation.
func (h *VariantHandler) Deduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	var req DeductStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid X-Actor-ID header")
		return
	}

	result, err := h.stockService.Deduct(c.Request.Context(), appinventory.DeductInput{
		VariantID:       id,
		Quantity:        req.Quantity,
		TransactionType: inventory.TransactionType(req.TransactionType),
		Reference:       inventory.NoReference(),
		ActorID:         actorID,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SyncStock rebuilds the variant's cached stock counter from the lot ledger
func (h *VariantHandler) SyncStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	stock, err := h.stockService.SyncVariantStock(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"variant_id": id, "cached_stock": stock})
}

func (h *VariantHandler) bindList(c *gin.Context) (req dto.ListRequest, ok bool) {
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return req, false
	}
	return req, true
}
