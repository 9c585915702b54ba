package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lotledger/backend/internal/domain/inventory"
	"github.com/lotledger/backend/internal/domain/shared"
)

// StockLotService owns every mutation of the stock-lot ledger: FIFO
// deduction, lot creation, targeted adjustment, and the cached-stock
// synchronizer. Each public mutation runs inside one TransactionScope so
// the lot rows, allocation rows, audit entry, and cached counter move
// together or not at all.
type StockLotService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewStockLotService creates a StockLotService
func NewStockLotService(scope TransactionScope, logger *zap.Logger) *StockLotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockLotService{scope: scope, logger: logger}
}

// Deduct removes quantity from a variant's stock in FIFO order and returns
// the weighted cost of the removed units. Fails with ErrInsufficientStock
// when the ledger cannot cover the quantity; nothing is written in that case.
func (s *StockLotService) Deduct(ctx context.Context, input DeductInput) (*DeductionResult, error) {
	var result *DeductionResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		result, err = s.DeductWithin(ctx, repos, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeductWithin is Deduct running inside an existing transaction scope.
// Order confirmation uses it to deduct several lines atomically.
func (s *StockLotService) DeductWithin(ctx context.Context, repos TransactionalRepositories, input DeductInput) (*DeductionResult, error) {
	if input.Quantity <= 0 {
		return nil, inventory.ErrInvalidQuantity
	}
	if !input.TransactionType.IsValid() || !input.TransactionType.IsOutbound() {
		return nil, inventory.ErrInvalidTransactionType
	}
	if err := input.Reference.Validate(); err != nil {
		return nil, err
	}

	// Locking the variant row serializes every ledger mutation for this
	// variant; the availability check below cannot race another deduction.
	if _, err := s.lockVariant(ctx, repos, input.VariantID); err != nil {
		return nil, err
	}

	lots, err := repos.LotRepo().FindAvailableByVariantForUpdate(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	if inventory.TotalRemaining(lots) < input.Quantity {
		return nil, inventory.ErrInsufficientStock
	}

	plan, err := inventory.PlanFIFODeduction(input.Quantity, lots)
	if err != nil {
		return nil, err
	}
	if !plan.FullyFulfilled() {
		// the pre-check said the stock was there; a short walk means the
		// ledger changed under our lock, which should be impossible
		s.logger.Error("fifo walk fell short after passed pre-check",
			zap.String("variant_id", input.VariantID.String()),
			zap.Int64("requested", input.Quantity),
			zap.Int64("unfulfilled", plan.Unfulfilled),
		)
		return nil, inventory.ErrInternalConsistency
	}

	lotPtrs := make([]*inventory.StockLot, len(lots))
	for i := range lots {
		lotPtrs[i] = &lots[i]
	}
	if err := inventory.ApplyDeductionPlan(plan, lotPtrs); err != nil {
		return nil, err
	}
	if err := repos.LotRepo().SaveAll(ctx, lotPtrs); err != nil {
		return nil, err
	}

	if input.Reference.IsOrderItem() {
		allocations := make([]*inventory.StockLotAllocation, 0, len(plan.Deductions))
		for _, d := range plan.Deductions {
			alloc, err := inventory.NewStockLotAllocation(*input.Reference.ID, d.LotID, d.Quantity, d.UnitCost)
			if err != nil {
				return nil, err
			}
			allocations = append(allocations, alloc)
		}
		if err := repos.AllocationRepo().CreateBatch(ctx, allocations); err != nil {
			return nil, err
		}
	}

	// one audit row for the whole deduction, not one per lot; an outbound
	// count correction is stored negative so the row keeps its direction
	auditQuantity := input.Quantity
	if input.TransactionType == inventory.TransactionTypeInventoryCount {
		auditQuantity = -input.Quantity
	}
	tx, err := inventory.NewInventoryTransaction(
		input.VariantID, input.TransactionType, auditQuantity,
		input.Reference, input.ActorID, input.Notes,
	)
	if err != nil {
		return nil, err
	}
	if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
		return nil, err
	}

	stockAfter, err := s.syncWithin(ctx, repos, input.VariantID)
	if err != nil {
		return nil, err
	}

	lines := make([]AllocationLine, 0, len(plan.Deductions))
	for _, d := range plan.Deductions {
		lines = append(lines, AllocationLine{
			LotID:    d.LotID,
			Quantity: d.Quantity,
			UnitCost: d.UnitCost,
			Cost:     d.Cost,
		})
	}

	s.logger.Debug("stock deducted",
		zap.String("variant_id", input.VariantID.String()),
		zap.String("transaction_type", input.TransactionType.String()),
		zap.Int64("quantity", input.Quantity),
		zap.String("total_cost", plan.TotalCost.String()),
		zap.Int("lots_touched", len(lines)),
	)

	return &DeductionResult{
		TransactionID: tx.ID,
		Quantity:      input.Quantity,
		TotalCost:     plan.TotalCost,
		UnitCost:      plan.WeightedUnitCost,
		Lines:         lines,
		StockAfter:    stockAfter,
	}, nil
}

// CreateLot opens a new lot and adds its quantity to the variant's stock.
// This is the only place a lot's unit cost is set; the reversal path relies
// on that by replaying allocation cost snapshots through here.
func (s *StockLotService) CreateLot(ctx context.Context, input CreateLotInput) (*LotResponse, error) {
	var result *LotResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		result, err = s.CreateLotWithin(ctx, repos, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateLotWithin is CreateLot running inside an existing transaction scope
func (s *StockLotService) CreateLotWithin(ctx context.Context, repos TransactionalRepositories, input CreateLotInput) (*LotResponse, error) {
	if input.QuantityIn <= 0 {
		return nil, inventory.ErrInvalidQuantity
	}
	if input.UnitCost.IsNegative() {
		return nil, inventory.ErrInvalidUnitCost
	}
	if !input.TransactionType.IsValid() || !input.TransactionType.IsInbound() {
		return nil, inventory.ErrInvalidTransactionType
	}

	variant, err := s.lockVariant(ctx, repos, input.VariantID)
	if err != nil {
		return nil, err
	}

	lot, err := inventory.NewStockLot(input.VariantID, input.QuantityIn, input.UnitCost, input.PurchaseDate, input.Source)
	if err != nil {
		return nil, err
	}
	if err := repos.LotRepo().Save(ctx, lot); err != nil {
		return nil, err
	}

	// a lot without a causing document anchors its audit row on the lot
	// itself, so the creation always shows up in the lot's history
	txRef := input.Source
	if txRef.IsNone() {
		txRef = inventory.LotReference(lot.ID)
	}
	tx, err := inventory.NewInventoryTransaction(
		input.VariantID, input.TransactionType, input.QuantityIn,
		txRef, input.ActorID, input.Notes,
	)
	if err != nil {
		return nil, err
	}
	if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
		return nil, err
	}

	if _, err := s.syncWithin(ctx, repos, variant.ID); err != nil {
		return nil, err
	}

	s.logger.Debug("stock lot created",
		zap.String("variant_id", input.VariantID.String()),
		zap.String("lot_id", lot.ID.String()),
		zap.Int64("quantity_in", input.QuantityIn),
		zap.String("unit_cost", input.UnitCost.String()),
		zap.String("transaction_type", input.TransactionType.String()),
	)

	resp := ToLotResponse(lot)
	return &resp, nil
}

// AdjustLot applies a signed delta to one named lot. Positive deltas extend
// QuantityIn, negative deltas consume remaining stock. The FIFO order plays
// no part here: the operator has identified a specific physical batch.
func (s *StockLotService) AdjustLot(ctx context.Context, input AdjustInput) (*LotResponse, error) {
	var result *LotResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if input.Delta == 0 {
			// no-op: return the lot unchanged
			lot, err := repos.LotRepo().FindByID(ctx, input.LotID)
			if err != nil {
				return mapLotErr(err)
			}
			resp := ToLotResponse(lot)
			result = &resp
			return nil
		}
		if !input.TransactionType.IsValid() {
			return inventory.ErrInvalidTransactionType
		}
		if input.Delta > 0 && !input.TransactionType.AllowsPositiveAdjustment() {
			return inventory.ErrInvalidTransactionType
		}
		if input.Delta < 0 && !input.TransactionType.AllowsNegativeAdjustment() {
			return inventory.ErrInvalidTransactionType
		}

		// read the lot to learn its variant, then take locks in the same
		// variant-then-lot order as every other mutation
		peek, err := repos.LotRepo().FindByID(ctx, input.LotID)
		if err != nil {
			return mapLotErr(err)
		}
		if _, err := s.lockVariant(ctx, repos, peek.VariantID); err != nil {
			return err
		}
		lot, err := repos.LotRepo().FindByIDForUpdate(ctx, input.LotID)
		if err != nil {
			return mapLotErr(err)
		}

		if input.Delta > 0 {
			if err := lot.Extend(input.Delta); err != nil {
				return err
			}
		} else {
			needed := -input.Delta
			if needed > lot.Remaining() {
				return inventory.ErrInsufficientLotStock
			}
			if err := lot.Consume(needed); err != nil {
				return err
			}
		}
		if err := repos.LotRepo().Save(ctx, lot); err != nil {
			return err
		}

		// count corrections keep the sign of the delta so the audit row
		// records the direction; other adjustment types encode it in the type
		quantity := input.Delta
		if quantity < 0 && input.TransactionType != inventory.TransactionTypeInventoryCount {
			quantity = -quantity
		}
		tx, err := inventory.NewInventoryTransaction(
			lot.VariantID, input.TransactionType, quantity,
			inventory.LotReference(lot.ID), input.ActorID, input.Notes,
		)
		if err != nil {
			return err
		}
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return err
		}

		if _, err := s.syncWithin(ctx, repos, lot.VariantID); err != nil {
			return err
		}

		s.logger.Info("stock lot adjusted",
			zap.String("lot_id", lot.ID.String()),
			zap.Int64("delta", input.Delta),
			zap.String("transaction_type", input.TransactionType.String()),
		)

		resp := ToLotResponse(lot)
		result = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PreviewCost computes what a deduction would cost without mutating anything
func (s *StockLotService) PreviewCost(ctx context.Context, variantID uuid.UUID, quantity int64) (*CostPreview, error) {
	if quantity <= 0 {
		return nil, inventory.ErrInvalidQuantity
	}
	var preview *CostPreview
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.VariantRepo().FindByID(ctx, variantID); err != nil {
			return mapVariantErr(err)
		}
		lots, err := repos.LotRepo().FindAvailableByVariant(ctx, variantID)
		if err != nil {
			return err
		}
		plan, err := inventory.PlanFIFODeduction(quantity, lots)
		if err != nil {
			return err
		}
		if !plan.FullyFulfilled() {
			return inventory.ErrInsufficientStock
		}
		preview = &CostPreview{
			VariantID: variantID,
			Quantity:  quantity,
			TotalCost: plan.TotalCost,
			UnitCost:  plan.WeightedUnitCost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return preview, nil
}

// AvailableLots lists a variant's lots with remaining stock in FIFO order
func (s *StockLotService) AvailableLots(ctx context.Context, variantID uuid.UUID) ([]LotResponse, error) {
	var responses []LotResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.VariantRepo().FindByID(ctx, variantID); err != nil {
			return mapVariantErr(err)
		}
		lots, err := repos.LotRepo().FindAvailableByVariant(ctx, variantID)
		if err != nil {
			return err
		}
		responses = make([]LotResponse, 0, len(lots))
		for i := range lots {
			responses = append(responses, ToLotResponse(&lots[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// LotHistory returns the audit trail of one lot: the inbound transaction
// that created it merged with every outbound transaction that drew from it
func (s *StockLotService) LotHistory(ctx context.Context, lotID uuid.UUID) ([]TransactionResponse, error) {
	var responses []TransactionResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.LotRepo().FindByID(ctx, lotID); err != nil {
			return mapLotErr(err)
		}
		txs, err := repos.TransactionRepo().FindLotHistory(ctx, lotID)
		if err != nil {
			return err
		}
		responses = make([]TransactionResponse, 0, len(txs))
		for i := range txs {
			responses = append(responses, ToTransactionResponse(&txs[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// SyncVariantStock rebuilds the variant's cached stock from the lot ledger.
// It is idempotent and safe to call at any time as a consistency repair.
func (s *StockLotService) SyncVariantStock(ctx context.Context, variantID uuid.UUID) (int64, error) {
	var stock int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := s.lockVariant(ctx, repos, variantID); err != nil {
			return err
		}
		var err error
		stock, err = s.syncWithin(ctx, repos, variantID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return stock, nil
}

// syncWithin recomputes SUM(quantity_in - quantity_out) over the variant's
// lots and writes it as the cached counter. Called as the last step of every
// mutation so the counter can never silently drift from the ledger.
func (s *StockLotService) syncWithin(ctx context.Context, repos TransactionalRepositories, variantID uuid.UUID) (int64, error) {
	stock, err := repos.LotRepo().SumRemainingByVariant(ctx, variantID)
	if err != nil {
		return 0, err
	}
	if err := repos.VariantRepo().UpdateCachedStock(ctx, variantID, stock); err != nil {
		return 0, err
	}
	return stock, nil
}

func (s *StockLotService) lockVariant(ctx context.Context, repos TransactionalRepositories, variantID uuid.UUID) (*inventory.ProductVariant, error) {
	variant, err := repos.VariantRepo().FindByIDForUpdate(ctx, variantID)
	if err != nil {
		return nil, mapVariantErr(err)
	}
	return variant, nil
}

func mapVariantErr(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return inventory.ErrVariantNotFound
	}
	return err
}

func mapLotErr(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return inventory.ErrLotNotFound
	}
	return err
}
