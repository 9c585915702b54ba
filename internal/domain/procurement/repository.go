package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/lotledger/backend/internal/domain/shared"
)

// ReceiptRepository defines the interface for goods receipt persistence
type ReceiptRepository interface {
	// FindByID finds a receipt with its lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*GoodsReceipt, error)

	// FindByIDForUpdate finds a receipt with its lines and locks the receipt row
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*GoodsReceipt, error)

	// FindByNumber finds a receipt by its business number
	FindByNumber(ctx context.Context, number string) (*GoodsReceipt, error)

	// FindAll lists receipts
	FindAll(ctx context.Context, filter shared.Filter) ([]GoodsReceipt, error)

	// Save creates or updates a receipt together with its lines
	Save(ctx context.Context, receipt *GoodsReceipt) error
}
