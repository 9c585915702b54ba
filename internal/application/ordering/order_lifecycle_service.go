package ordering

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appinventory "github.com/lotledger/backend/internal/application/inventory"
	"github.com/lotledger/backend/internal/domain/inventory"
	"github.com/lotledger/backend/internal/domain/ordering"
	"github.com/lotledger/backend/internal/domain/shared"
)

// OrderLifecycleService drives the order transitions that touch the stock
// ledger. Confirmation deducts stock FIFO per line and freezes the weighted
// cost into the order; cancellation of a confirmed order replays the
// recorded allocations into fresh lots at their snapshot cost.
type OrderLifecycleService struct {
	scope    TransactionScope
	stockSvc *appinventory.StockLotService
	logger   *zap.Logger
}

// NewOrderLifecycleService creates an OrderLifecycleService
func NewOrderLifecycleService(scope TransactionScope, stockSvc *appinventory.StockLotService, logger *zap.Logger) *OrderLifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderLifecycleService{scope: scope, stockSvc: stockSvc, logger: logger}
}

// Create registers a new pending order. No stock moves until confirmation.
func (s *OrderLifecycleService) Create(ctx context.Context, input CreateOrderInput) (*OrderResponse, error) {
	items := make([]ordering.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		items = append(items, ordering.OrderItem{
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	order, err := ordering.NewOrder(input.Number, items)
	if err != nil {
		return nil, err
	}

	var result *OrderResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, item := range order.Items {
			if _, err := repos.VariantRepo().FindByID(ctx, item.VariantID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return inventory.ErrVariantNotFound
				}
				return err
			}
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		resp := ToOrderResponse(order)
		result = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Confirm deducts stock for every line of a pending order in one transaction
// and records the resulting cost of goods sold on each line. A shortfall on
// any line aborts the whole confirmation; no line is partially fulfilled.
func (s *OrderLifecycleService) Confirm(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID) (*OrderResponse, error) {
	var result *OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return mapOrderErr(err)
		}
		if !order.CanConfirm() {
			return ordering.ErrOrderNotPending
		}

		for i := range order.Items {
			item := &order.Items[i]
			deduction, err := s.stockSvc.DeductWithin(ctx, repos, appinventory.DeductInput{
				VariantID:       item.VariantID,
				Quantity:        item.Quantity,
				TransactionType: inventory.TransactionTypeSale,
				Reference:       inventory.OrderItemReference(item.ID),
				ActorID:         actorID,
				Notes:           fmt.Sprintf("order %s", order.Number),
			})
			if err != nil {
				return err
			}
			item.RecordCOGS(deduction.TotalCost)
		}

		if err := order.MarkConfirmed(); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		s.logger.Info("order confirmed",
			zap.String("order_id", order.ID.String()),
			zap.String("order_number", order.Number),
			zap.Int("lines", len(order.Items)),
		)

		resp := ToOrderResponse(order)
		result = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel cancels an order. A pending order just changes status. A confirmed
// order additionally has its allocations replayed: each active allocation
// becomes a new lot carrying the allocation's snapshot cost, so returned
// units re-enter the ledger at the cost they left with. The consumed lots
// are never rewound.
func (s *OrderLifecycleService) Cancel(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID) (*OrderResponse, error) {
	var result *OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return mapOrderErr(err)
		}
		if !order.CanCancel() {
			return ordering.ErrOrderNotCancellable
		}

		reversed := order.RequiresReversal()
		if reversed {
			for i := range order.Items {
				if err := s.reverseItem(ctx, repos, &order.Items[i], order.Number, actorID); err != nil {
					return err
				}
			}
		}

		if err := order.MarkCancelled(); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		s.logger.Info("order cancelled",
			zap.String("order_id", order.ID.String()),
			zap.String("order_number", order.Number),
			zap.Bool("reversed", reversed),
		)

		resp := ToOrderResponse(order)
		result = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// reverseItem replays one confirmed line's allocations back into the ledger
func (s *OrderLifecycleService) reverseItem(ctx context.Context, repos TransactionalRepositories, item *ordering.OrderItem, orderNumber string, actorID *uuid.UUID) error {
	allocations, err := repos.AllocationRepo().FindActiveByOrderItem(ctx, item.ID)
	if err != nil {
		return err
	}
	// a confirmed line with no active allocations means the ledger lost
	// track of what was deducted; refusing is safer than guessing
	if len(allocations) == 0 {
		s.logger.Error("confirmed order line has no active allocations",
			zap.String("order_item_id", item.ID.String()),
			zap.String("order_number", orderNumber),
		)
		return inventory.ErrInternalConsistency
	}
	if inventory.SumAllocatedQuantity(allocations) != item.Quantity {
		s.logger.Error("allocation sum does not match order line quantity",
			zap.String("order_item_id", item.ID.String()),
			zap.Int64("expected", item.Quantity),
			zap.Int64("allocated", inventory.SumAllocatedQuantity(allocations)),
		)
		return inventory.ErrInternalConsistency
	}

	ids := make([]uuid.UUID, 0, len(allocations))
	for _, alloc := range allocations {
		_, err := s.stockSvc.CreateLotWithin(ctx, repos, appinventory.CreateLotInput{
			VariantID:       item.VariantID,
			QuantityIn:      alloc.AllocatedQuantity,
			UnitCost:        alloc.UnitCostAtAllocation,
			Source:          inventory.AllocationReference(alloc.ID),
			TransactionType: inventory.TransactionTypeReturnFromCustomer,
			ActorID:         actorID,
			Notes:           fmt.Sprintf("reversal of order %s", orderNumber),
		})
		if err != nil {
			return err
		}
		ids = append(ids, alloc.ID)
	}
	return repos.AllocationRepo().MarkReversed(ctx, ids)
}

// Get returns one order with its lines
func (s *OrderLifecycleService) Get(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	var result *OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return mapOrderErr(err)
		}
		resp := ToOrderResponse(order)
		result = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func mapOrderErr(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return ordering.ErrOrderNotFound
	}
	return err
}
