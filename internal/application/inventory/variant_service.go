package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lotledger/backend/internal/domain/inventory"
	"github.com/lotledger/backend/internal/domain/shared"
)

// VariantService exposes product variant reads and registration. It never
// touches the lot ledger; stock only moves through StockLotService.
type VariantService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewVariantService creates a VariantService
func NewVariantService(scope TransactionScope, logger *zap.Logger) *VariantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VariantService{scope: scope, logger: logger}
}

// Create registers a new variant with zero stock. SKUs are unique.
func (s *VariantService) Create(ctx context.Context, sku, name string) (*VariantResponse, error) {
	variant, err := inventory.NewProductVariant(sku, name)
	if err != nil {
		return nil, err
	}

	var result *VariantResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.VariantRepo().FindBySKU(ctx, sku); err == nil {
			return shared.ErrAlreadyExists
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if err := repos.VariantRepo().Save(ctx, variant); err != nil {
			return err
		}
		resp := ToVariantResponse(variant)
		result = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("variant created",
		zap.String("variant_id", variant.ID.String()),
		zap.String("sku", variant.SKU),
	)
	return result, nil
}

// Get returns one variant by id
func (s *VariantService) Get(ctx context.Context, variantID uuid.UUID) (*VariantResponse, error) {
	var result *VariantResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		variant, err := repos.VariantRepo().FindByID(ctx, variantID)
		if err != nil {
			return mapVariantErr(err)
		}
		resp := ToVariantResponse(variant)
		result = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetBySKU returns one variant by its SKU
func (s *VariantService) GetBySKU(ctx context.Context, sku string) (*VariantResponse, error) {
	var result *VariantResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		variant, err := repos.VariantRepo().FindBySKU(ctx, sku)
		if err != nil {
			return mapVariantErr(err)
		}
		resp := ToVariantResponse(variant)
		result = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List returns variants matching the filter
func (s *VariantService) List(ctx context.Context, filter shared.Filter) ([]VariantResponse, error) {
	var responses []VariantResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		variants, err := repos.VariantRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		responses = make([]VariantResponse, 0, len(variants))
		for i := range variants {
			responses = append(responses, ToVariantResponse(&variants[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// Transactions returns a variant's audit trail, newest first by default
func (s *VariantService) Transactions(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]TransactionResponse, error) {
	var responses []TransactionResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.VariantRepo().FindByID(ctx, variantID); err != nil {
			return mapVariantErr(err)
		}
		txs, err := repos.TransactionRepo().FindByVariant(ctx, variantID, filter)
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
