// Package inventorytest provides in-memory repository fakes for service
// tests. Reads hand out copies so an aborted operation cannot leak partial
// mutations into the store; only Save and SaveAll write anything back. That
// mirrors how the real repositories behave across a rolled-back transaction.
package inventorytest

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/lotledger/backend/internal/domain/inventory"
	"github.com/lotledger/backend/internal/domain/shared"
)

// VariantRepo is an in-memory inventory.VariantRepository
type VariantRepo struct {
	variants map[uuid.UUID]*inventory.ProductVariant
}

// NewVariantRepo creates an empty VariantRepo
func NewVariantRepo() *VariantRepo {
	return &VariantRepo{variants: make(map[uuid.UUID]*inventory.ProductVariant)}
}

// Add seeds a variant into the store
func (r *VariantRepo) Add(v *inventory.ProductVariant) {
	cp := *v
	r.variants[v.ID] = &cp
}

func (r *VariantRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.ProductVariant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *VariantRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.ProductVariant, error) {
	return r.FindByID(ctx, id)
}

func (r *VariantRepo) FindBySKU(_ context.Context, sku string) (*inventory.ProductVariant, error) {
	for _, v := range r.variants {
		if v.SKU == sku {
			cp := *v
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *VariantRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.ProductVariant, error) {
	out := make([]inventory.ProductVariant, 0, len(r.variants))
	for _, v := range r.variants {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *VariantRepo) Save(_ context.Context, variant *inventory.ProductVariant) error {
	cp := *variant
	r.variants[variant.ID] = &cp
	return nil
}

func (r *VariantRepo) UpdateCachedStock(_ context.Context, variantID uuid.UUID, stock int64) error {
	v, ok := r.variants[variantID]
	if !ok {
		return shared.ErrNotFound
	}
	v.CachedStock = stock
	return nil
}

// LotRepo is an in-memory inventory.StockLotRepository
type LotRepo struct {
	lots map[uuid.UUID]*inventory.StockLot
}

// NewLotRepo creates an empty LotRepo
func NewLotRepo() *LotRepo {
	return &LotRepo{lots: make(map[uuid.UUID]*inventory.StockLot)}
}

// Add seeds a lot into the store
func (r *LotRepo) Add(l *inventory.StockLot) {
	cp := *l
	r.lots[l.ID] = &cp
}

func (r *LotRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockLot, error) {
	l, ok := r.lots[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *LotRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.StockLot, error) {
	return r.FindByID(ctx, id)
}

func (r *LotRepo) byVariant(variantID uuid.UUID, availableOnly bool) []inventory.StockLot {
	out := make([]inventory.StockLot, 0)
	for _, l := range r.lots {
		if l.VariantID != variantID {
			continue
		}
		if availableOnly && !l.HasStock() {
			continue
		}
		out = append(out, *l)
	}
	inventory.SortLotsFIFO(out)
	return out
}

func (r *LotRepo) FindByVariant(_ context.Context, variantID uuid.UUID, _ shared.Filter) ([]inventory.StockLot, error) {
	return r.byVariant(variantID, false), nil
}

func (r *LotRepo) FindAvailableByVariant(_ context.Context, variantID uuid.UUID) ([]inventory.StockLot, error) {
	return r.byVariant(variantID, true), nil
}

func (r *LotRepo) FindAvailableByVariantForUpdate(ctx context.Context, variantID uuid.UUID) ([]inventory.StockLot, error) {
	return r.FindAvailableByVariant(ctx, variantID)
}

func (r *LotRepo) Save(_ context.Context, lot *inventory.StockLot) error {
	cp := *lot
	r.lots[lot.ID] = &cp
	return nil
}

func (r *LotRepo) SaveAll(ctx context.Context, lots []*inventory.StockLot) error {
	for _, l := range lots {
		if err := r.Save(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *LotRepo) SumRemainingByVariant(_ context.Context, variantID uuid.UUID) (int64, error) {
	var total int64
	for _, l := range r.lots {
		if l.VariantID == variantID {
			total += l.Remaining()
		}
	}
	return total, nil
}

// AllocationRepo is an in-memory inventory.AllocationRepository.
// Allocations holds every stored row in insertion order.
type AllocationRepo struct {
	Allocations []inventory.StockLotAllocation
}

// NewAllocationRepo creates an empty AllocationRepo
func NewAllocationRepo() *AllocationRepo {
	return &AllocationRepo{}
}

func (r *AllocationRepo) Create(_ context.Context, allocation *inventory.StockLotAllocation) error {
	r.Allocations = append(r.Allocations, *allocation)
	return nil
}

func (r *AllocationRepo) CreateBatch(ctx context.Context, allocations []*inventory.StockLotAllocation) error {
	for _, a := range allocations {
		if err := r.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (r *AllocationRepo) FindByOrderItem(_ context.Context, orderItemID uuid.UUID) ([]inventory.StockLotAllocation, error) {
	out := make([]inventory.StockLotAllocation, 0)
	for _, a := range r.Allocations {
		if a.OrderItemID == orderItemID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AllocationRepo) FindActiveByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]inventory.StockLotAllocation, error) {
	all, _ := r.FindByOrderItem(ctx, orderItemID)
	out := make([]inventory.StockLotAllocation, 0, len(all))
	for _, a := range all {
		if !a.Reversed {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AllocationRepo) FindByLot(_ context.Context, lotID uuid.UUID) ([]inventory.StockLotAllocation, error) {
	out := make([]inventory.StockLotAllocation, 0)
	for _, a := range r.Allocations {
		if a.StockLotID == lotID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AllocationRepo) MarkReversed(_ context.Context, ids []uuid.UUID) error {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	for i := range r.Allocations {
		if set[r.Allocations[i].ID] {
			r.Allocations[i].Reversed = true
		}
	}
	return nil
}

// TransactionRepo is an in-memory inventory.TransactionRepository.
// Transactions holds every stored row in insertion order. Allocs and Lots,
// when set, let FindLotHistory resolve sales and reversals back to the lots
// they touched and creations back to the lot's source document, the way the
// real repository joins through the allocation and lot tables.
type TransactionRepo struct {
	Transactions []inventory.InventoryTransaction
	Allocs       *AllocationRepo
	Lots         *LotRepo
}

// NewTransactionRepo creates an empty TransactionRepo
func NewTransactionRepo() *TransactionRepo {
	return &TransactionRepo{}
}

func (r *TransactionRepo) Create(_ context.Context, tx *inventory.InventoryTransaction) error {
	r.Transactions = append(r.Transactions, *tx)
	return nil
}

func (r *TransactionRepo) FindByVariant(_ context.Context, variantID uuid.UUID, _ shared.Filter) ([]inventory.InventoryTransaction, error) {
	out := make([]inventory.InventoryTransaction, 0)
	for _, tx := range r.Transactions {
		if tx.VariantID == variantID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *TransactionRepo) FindByReference(_ context.Context, ref inventory.Reference) ([]inventory.InventoryTransaction, error) {
	out := make([]inventory.InventoryTransaction, 0)
	for _, tx := range r.Transactions {
		if tx.Reference.Kind == ref.Kind && tx.Reference.ID != nil && ref.ID != nil && *tx.Reference.ID == *ref.ID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *TransactionRepo) FindLotHistory(_ context.Context, lotID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	allocIDs := make(map[uuid.UUID]bool)
	orderItemIDs := make(map[uuid.UUID]bool)
	if r.Allocs != nil {
		for _, a := range r.Allocs.Allocations {
			if a.StockLotID == lotID {
				allocIDs[a.ID] = true
				orderItemIDs[a.OrderItemID] = true
			}
		}
	}

	var lot *inventory.StockLot
	if r.Lots != nil {
		lot = r.Lots.lots[lotID]
	}

	out := make([]inventory.InventoryTransaction, 0)
	for _, tx := range r.Transactions {
		if tx.Reference.ID == nil {
			continue
		}
		// the creation transaction carries the lot's source document as its
		// reference, so it is matched through the lot rather than the lot ID
		if lot != nil && !lot.Source.IsNone() &&
			tx.VariantID == lot.VariantID &&
			tx.Reference.Kind == lot.Source.Kind &&
			*tx.Reference.ID == *lot.Source.ID {
			out = append(out, tx)
			continue
		}
		switch tx.Reference.Kind {
		case inventory.ReferenceKindLot:
			if *tx.Reference.ID == lotID {
				out = append(out, tx)
			}
		case inventory.ReferenceKindAllocation:
			if allocIDs[*tx.Reference.ID] {
				out = append(out, tx)
			}
		case inventory.ReferenceKindOrderItem:
			if orderItemIDs[*tx.Reference.ID] {
				out = append(out, tx)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

var (
	_ inventory.VariantRepository     = (*VariantRepo)(nil)
	_ inventory.StockLotRepository    = (*LotRepo)(nil)
	_ inventory.AllocationRepository  = (*AllocationRepo)(nil)
	_ inventory.TransactionRepository = (*TransactionRepo)(nil)
)
