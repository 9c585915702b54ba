package procurement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinventory "github.com/lotledger/backend/internal/application/inventory"
	"github.com/lotledger/backend/internal/domain/inventory"
	"github.com/lotledger/backend/internal/domain/procurement"
	"github.com/lotledger/backend/internal/domain/shared"
)

// Sentinel errors for the receiving workflow
var (
	// ErrReceiptNotFound indicates the requested receipt does not exist
	ErrReceiptNotFound = shared.NewDomainError("RECEIPT_NOT_FOUND", "Goods receipt not found")
	// ErrReceiptNotDraft indicates a confirmation was attempted on a confirmed receipt
	ErrReceiptNotDraft = shared.NewDomainError("RECEIPT_NOT_DRAFT", "Only draft receipts can be confirmed")
)

// CreateReceiptInput describes a new draft goods receipt
type CreateReceiptInput struct {
	Number string
	Lines  []CreateReceiptLineInput
}

// CreateReceiptLineInput is one received batch on a new receipt
type CreateReceiptLineInput struct {
	VariantID uuid.UUID
	Quantity  int64
	UnitCost  decimal.Decimal
}

// ReceiptLineResponse is the read model for a receipt line
type ReceiptLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// ReceiptResponse is the read model for a goods receipt
type ReceiptResponse struct {
	ID        uuid.UUID             `json:"id"`
	Number    string                `json:"number"`
	Status    string                `json:"status"`
	Lines     []ReceiptLineResponse `json:"lines"`
	CreatedAt time.Time             `json:"created_at"`
}

// ToReceiptResponse maps a domain receipt to its read model
func ToReceiptResponse(receipt *procurement.GoodsReceipt) ReceiptResponse {
	lines := make([]ReceiptLineResponse, 0, len(receipt.Lines))
	for i := range receipt.Lines {
		line := &receipt.Lines[i]
		lines = append(lines, ReceiptLineResponse{
			ID:        line.ID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
		})
	}
	return ReceiptResponse{
		ID:        receipt.ID,
		Number:    receipt.Number,
		Status:    receipt.Status.String(),
		Lines:     lines,
		CreatedAt: receipt.CreatedAt,
	}
}

// ReceivingService drives goods receipts. A draft receipt is just a
// document; confirming it opens one stock lot per line, which is how
// purchased stock enters the ledger with its cost basis.
type ReceivingService struct {
	scope    TransactionScope
	stockSvc *appinventory.StockLotService
	logger   *zap.Logger
}

// NewReceivingService creates a ReceivingService
func NewReceivingService(scope TransactionScope, stockSvc *appinventory.StockLotService, logger *zap.Logger) *ReceivingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceivingService{scope: scope, stockSvc: stockSvc, logger: logger}
}

// Create registers a draft receipt. No stock moves until confirmation.
func (s *ReceivingService) Create(ctx context.Context, input CreateReceiptInput) (*ReceiptResponse, error) {
	lines := make([]procurement.ReceiptLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		lines = append(lines, procurement.ReceiptLine{
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
		})
	}
	receipt, err := procurement.NewGoodsReceipt(input.Number, lines)
	if err != nil {
		return nil, err
	}

	var result *ReceiptResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range receipt.Lines {
			if _, err := repos.VariantRepo().FindByID(ctx, line.VariantID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return inventory.ErrVariantNotFound
				}
				return err
			}
		}
		if err := repos.ReceiptRepo().Save(ctx, receipt); err != nil {
			return err
		}
		resp := ToReceiptResponse(receipt)
		result = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Confirm opens one stock lot per receipt line with the line's quantity and
// unit cost. All lines land or none do.
func (s *ReceivingService) Confirm(ctx context.Context, receiptID uuid.UUID, actorID *uuid.UUID) (*ReceiptResponse, error) {
	var result *ReceiptResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		receipt, err := repos.ReceiptRepo().FindByIDForUpdate(ctx, receiptID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return ErrReceiptNotFound
			}
			return err
		}
		if receipt.Status != procurement.ReceiptStatusDraft {
			return ErrReceiptNotDraft
		}

		for i := range receipt.Lines {
			line := &receipt.Lines[i]
			_, err := s.stockSvc.CreateLotWithin(ctx, repos, appinventory.CreateLotInput{
				VariantID:       line.VariantID,
				QuantityIn:      line.Quantity,
				UnitCost:        line.UnitCost,
				Source:          inventory.ReceiptLineReference(line.ID),
				TransactionType: inventory.TransactionTypeGoodsReceipt,
				ActorID:         actorID,
				Notes:           fmt.Sprintf("receipt %s", receipt.Number),
			})
			if err != nil {
				return err
			}
		}

		if err := receipt.MarkConfirmed(); err != nil {
			return err
		}
		if err := repos.ReceiptRepo().Save(ctx, receipt); err != nil {
			return err
		}

		s.logger.Info("goods receipt confirmed",
			zap.String("receipt_id", receipt.ID.String()),
			zap.String("receipt_number", receipt.Number),
			zap.Int("lines", len(receipt.Lines)),
		)

		resp := ToReceiptResponse(receipt)
		result = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns one receipt with its lines
func (s *ReceivingService) Get(ctx context.Context, receiptID uuid.UUID) (*ReceiptResponse, error) {
	var result *ReceiptResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		receipt, err := repos.ReceiptRepo().FindByID(ctx, receiptID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return ErrReceiptNotFound
			}
			return err
		}
		resp := ToReceiptResponse(receipt)
		result = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
