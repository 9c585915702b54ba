package ordering

import (
	"context"

	"github.com/google/uuid"

	"github.com/lotledger/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate finds an order with its items and takes a row-level
	// write lock on the order row, so confirm and cancel cannot interleave
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its business number
	FindByNumber(ctx context.Context, number string) (*Order, error)

	// FindAll lists orders
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order together with its items
	Save(ctx context.Context, order *Order) error
}
