package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/lotledger/backend/internal/domain/shared"
)

// VariantRepository defines the interface for product variant persistence
type VariantRepository interface {
	// FindByID finds a variant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductVariant, error)

	// FindByIDForUpdate finds a variant and takes a row-level write lock on it.
	// Every mutating ledger operation locks the variant row first, which is
	// what serializes concurrent deductions, receipts, and reversals per variant.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ProductVariant, error)

	// FindBySKU finds a variant by SKU
	FindBySKU(ctx context.Context, sku string) (*ProductVariant, error)

	// FindAll lists variants
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductVariant, error)

	// Save creates or updates a variant
	Save(ctx context.Context, variant *ProductVariant) error

	// UpdateCachedStock writes the denormalized stock counter
	UpdateCachedStock(ctx context.Context, variantID uuid.UUID, stock int64) error
}

// StockLotRepository defines the interface for stock lot persistence
type StockLotRepository interface {
	// FindByID finds a lot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockLot, error)

	// FindByIDForUpdate finds a lot and takes a row-level write lock on it
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*StockLot, error)

	// FindByVariant lists all lots for a variant, FIFO order
	FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]StockLot, error)

	// FindAvailableByVariant lists lots with remaining stock for a variant in
	// FIFO order (purchase_date, created_at, id)
	FindAvailableByVariant(ctx context.Context, variantID uuid.UUID) ([]StockLot, error)

	// FindAvailableByVariantForUpdate is FindAvailableByVariant with a
	// write-intent lock on the returned rows
	FindAvailableByVariantForUpdate(ctx context.Context, variantID uuid.UUID) ([]StockLot, error)

	// Save creates or updates a lot
	Save(ctx context.Context, lot *StockLot) error

	// SaveAll creates or updates multiple lots
	SaveAll(ctx context.Context, lots []*StockLot) error

	// SumRemainingByVariant computes SUM(quantity_in - quantity_out) over the
	// variant's lots. This is the ledger truth the cached counter is rebuilt from.
	SumRemainingByVariant(ctx context.Context, variantID uuid.UUID) (int64, error)
}

// AllocationRepository defines the interface for stock lot allocation persistence
type AllocationRepository interface {
	// Create appends an allocation record
	Create(ctx context.Context, allocation *StockLotAllocation) error

	// CreateBatch appends multiple allocation records
	CreateBatch(ctx context.Context, allocations []*StockLotAllocation) error

	// FindByOrderItem lists allocations for one order line
	FindByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]StockLotAllocation, error)

	// FindActiveByOrderItem lists non-reversed allocations for one order line
	FindActiveByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]StockLotAllocation, error)

	// FindByLot lists allocations drawn from one lot
	FindByLot(ctx context.Context, lotID uuid.UUID) ([]StockLotAllocation, error)

	// MarkReversed flags allocations as replayed by a reversal
	MarkReversed(ctx context.Context, ids []uuid.UUID) error
}

// TransactionRepository defines the interface for the append-only audit log
type TransactionRepository interface {
	// Create appends a transaction record (no update path exists)
	Create(ctx context.Context, tx *InventoryTransaction) error

	// FindByVariant lists transactions for a variant, newest first
	FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]InventoryTransaction, error)

	// FindByReference lists transactions caused by a specific document
	FindByReference(ctx context.Context, ref Reference) ([]InventoryTransaction, error)

	// FindLotHistory merges the inbound transactions that reference the lot
	// with every outbound transaction that drew from it via its allocations,
	// ordered chronologically. The join is one explicit query, not a
	// per-allocation lookup.
	FindLotHistory(ctx context.Context, lotID uuid.UUID) ([]InventoryTransaction, error)
}
