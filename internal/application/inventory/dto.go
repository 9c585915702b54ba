package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lotledger/backend/internal/domain/inventory"
)

// DeductInput describes one FIFO deduction request
type DeductInput struct {
	VariantID       uuid.UUID
	Quantity        int64
	TransactionType inventory.TransactionType
	Reference       inventory.Reference
	ActorID         *uuid.UUID
	Notes           string
}

// AllocationLine is one lot's share of a deduction
type AllocationLine struct {
	LotID    uuid.UUID       `json:"lot_id"`
	Quantity int64           `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Cost     decimal.Decimal `json:"cost"`
}

// DeductionResult reports how a deduction was funded and what it cost
type DeductionResult struct {
	TransactionID uuid.UUID        `json:"transaction_id"`
	Quantity      int64            `json:"quantity"`
	TotalCost     decimal.Decimal  `json:"total_cost"`
	UnitCost      decimal.Decimal  `json:"unit_cost"` // weighted per-unit COGS
	Lines         []AllocationLine `json:"lines"`
	StockAfter    int64            `json:"stock_after"`
}

// CreateLotInput describes a new lot to open
type CreateLotInput struct {
	VariantID       uuid.UUID
	QuantityIn      int64
	UnitCost        decimal.Decimal
	PurchaseDate    time.Time // zero value means "now"
	Source          inventory.Reference
	TransactionType inventory.TransactionType
	ActorID         *uuid.UUID
	Notes           string
}

// AdjustInput describes a signed correction against one named lot
type AdjustInput struct {
	LotID           uuid.UUID
	Delta           int64
	TransactionType inventory.TransactionType
	ActorID         *uuid.UUID
	Notes           string
}

// CostPreview reports what a deduction would cost without mutating anything
type CostPreview struct {
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  int64           `json:"quantity"`
	TotalCost decimal.Decimal `json:"total_cost"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// LotResponse is the read model for a stock lot
type LotResponse struct {
	ID           uuid.UUID       `json:"id"`
	VariantID    uuid.UUID       `json:"variant_id"`
	QuantityIn   int64           `json:"quantity_in"`
	QuantityOut  int64           `json:"quantity_out"`
	Remaining    int64           `json:"remaining"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	PurchaseDate time.Time       `json:"purchase_date"`
	SourceKind   string          `json:"source_kind,omitempty"`
	SourceID     *uuid.UUID      `json:"source_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToLotResponse maps a domain lot to its read model
func ToLotResponse(lot *inventory.StockLot) LotResponse {
	resp := LotResponse{
		ID:           lot.ID,
		VariantID:    lot.VariantID,
		QuantityIn:   lot.QuantityIn,
		QuantityOut:  lot.QuantityOut,
		Remaining:    lot.Remaining(),
		UnitCost:     lot.UnitCost,
		PurchaseDate: lot.PurchaseDate,
		CreatedAt:    lot.CreatedAt,
	}
	if !lot.Source.IsNone() {
		resp.SourceKind = lot.Source.Kind.String()
		resp.SourceID = lot.Source.ID
	}
	return resp
}

// VariantResponse is the read model for a product variant
type VariantResponse struct {
	ID          uuid.UUID `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	CachedStock int64     `json:"cached_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToVariantResponse maps a domain variant to its read model
func ToVariantResponse(variant *inventory.ProductVariant) VariantResponse {
	return VariantResponse{
		ID:          variant.ID,
		SKU:         variant.SKU,
		Name:        variant.Name,
		CachedStock: variant.CachedStock,
		CreatedAt:   variant.CreatedAt,
		UpdatedAt:   variant.UpdatedAt,
	}
}

// TransactionResponse is the read model for an audit record
type TransactionResponse struct {
	ID              uuid.UUID  `json:"id"`
	VariantID       uuid.UUID  `json:"variant_id"`
	TransactionType string     `json:"transaction_type"`
	Quantity        int64      `json:"quantity"`
	ReferenceKind   string     `json:"reference_kind,omitempty"`
	ReferenceID     *uuid.UUID `json:"reference_id,omitempty"`
	ActorID         *uuid.UUID `json:"actor_id,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	OccurredAt      time.Time  `json:"occurred_at"`
}

// ToTransactionResponse maps a domain transaction to its read model
func ToTransactionResponse(tx *inventory.InventoryTransaction) TransactionResponse {
	resp := TransactionResponse{
		ID:              tx.ID,
		VariantID:       tx.VariantID,
		TransactionType: tx.TransactionType.String(),
		Quantity:        tx.Quantity,
		ActorID:         tx.ActorID,
		Notes:           tx.Notes,
		OccurredAt:      tx.OccurredAt,
	}
	if !tx.Reference.IsNone() {
		resp.ReferenceKind = tx.Reference.Kind.String()
		resp.ReferenceID = tx.Reference.ID
	}
	return resp
}
