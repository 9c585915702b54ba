package handler

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	appinventory "github.com/lotledger/backend/internal/application/inventory"
	"github.com/lotledger/backend/internal/application/inventory/inventorytest"
	appordering "github.com/lotledger/backend/internal/application/ordering"
	appprocurement "github.com/lotledger/backend/internal/application/procurement"
	"github.com/lotledger/backend/internal/domain/inventory"
	"github.com/lotledger/backend/internal/domain/ordering"
	"github.com/lotledger/backend/internal/domain/procurement"
	"github.com/lotledger/backend/internal/domain/shared"
	"github.com/lotledger/backend/internal/interfaces/http/router"
)

// fakeOrderRepo is an in-memory OrderRepository for handler tests
type fakeOrderRepo struct {
	orders map[uuid.UUID]*ordering.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*ordering.Order)}
}

func (r *fakeOrderRepo) clone(o *ordering.Order) *ordering.Order {
	cp := *o
	cp.Items = make([]ordering.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*ordering.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r.clone(o), nil
}

func (r *fakeOrderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeOrderRepo) FindByNumber(_ context.Context, number string) (*ordering.Order, error) {
	for _, o := range r.orders {
		if o.Number == number {
			return r.clone(o), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]ordering.Order, error) {
	out := make([]ordering.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *r.clone(o))
	}
	return out, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, order *ordering.Order) error {
	r.orders[order.ID] = r.clone(order)
	return nil
}

// fakeReceiptRepo is an in-memory ReceiptRepository for handler tests
type fakeReceiptRepo struct {
	receipts map[uuid.UUID]*procurement.GoodsReceipt
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: make(map[uuid.UUID]*procurement.GoodsReceipt)}
}

func (r *fakeReceiptRepo) clone(g *procurement.GoodsReceipt) *procurement.GoodsReceipt {
	cp := *g
	cp.Lines = make([]procurement.ReceiptLine, len(g.Lines))
	copy(cp.Lines, g.Lines)
	return &cp
}

func (r *fakeReceiptRepo) FindByID(_ context.Context, id uuid.UUID) (*procurement.GoodsReceipt, error) {
	g, ok := r.receipts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r.clone(g), nil
}

func (r *fakeReceiptRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*procurement.GoodsReceipt, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeReceiptRepo) FindByNumber(_ context.Context, number string) (*procurement.GoodsReceipt, error) {
	for _, g := range r.receipts {
		if g.Number == number {
			return r.clone(g), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeReceiptRepo) FindAll(_ context.Context, _ shared.Filter) ([]procurement.GoodsReceipt, error) {
	out := make([]procurement.GoodsReceipt, 0, len(r.receipts))
	for _, g := range r.receipts {
		out = append(out, *r.clone(g))
	}
	return out, nil
}

func (r *fakeReceiptRepo) Save(_ context.Context, receipt *procurement.GoodsReceipt) error {
	r.receipts[receipt.ID] = r.clone(receipt)
	return nil
}

// fakeRepos backs every scope flavor with one shared in-memory store
type fakeRepos struct {
	variants     *inventorytest.VariantRepo
	lots         *inventorytest.LotRepo
	allocations  *inventorytest.AllocationRepo
	transactions *inventorytest.TransactionRepo
	orders       *fakeOrderRepo
	receipts     *fakeReceiptRepo
}

func newFakeRepos() *fakeRepos {
	r := &fakeRepos{
		variants:     inventorytest.NewVariantRepo(),
		lots:         inventorytest.NewLotRepo(),
		allocations:  inventorytest.NewAllocationRepo(),
		transactions: inventorytest.NewTransactionRepo(),
		orders:       newFakeOrderRepo(),
		receipts:     newFakeReceiptRepo(),
	}
	r.transactions.Allocs = r.allocations
	r.transactions.Lots = r.lots
	return r
}

func (r *fakeRepos) VariantRepo() inventory.VariantRepository         { return r.variants }
func (r *fakeRepos) LotRepo() inventory.StockLotRepository            { return r.lots }
func (r *fakeRepos) AllocationRepo() inventory.AllocationRepository   { return r.allocations }
func (r *fakeRepos) TransactionRepo() inventory.TransactionRepository { return r.transactions }
func (r *fakeRepos) OrderRepo() ordering.OrderRepository              { return r.orders }
func (r *fakeRepos) ReceiptRepo() procurement.ReceiptRepository       { return r.receipts }

type fakeInventoryScope struct{ r *fakeRepos }

func (s fakeInventoryScope) Execute(_ context.Context, fn func(appinventory.TransactionalRepositories) error) error {
	return fn(s.r)
}

type fakeOrderingScope struct{ r *fakeRepos }

func (s fakeOrderingScope) Execute(_ context.Context, fn func(appordering.TransactionalRepositories) error) error {
	return fn(s.r)
}

type fakeProcurementScope struct{ r *fakeRepos }

func (s fakeProcurementScope) Execute(_ context.Context, fn func(appprocurement.TransactionalRepositories) error) error {
	return fn(s.r)
}

// fixture wires the full service stack over the in-memory store
type fixture struct {
	repos            *fakeRepos
	variantService   *appinventory.VariantService
	stockService     *appinventory.StockLotService
	orderService     *appordering.OrderLifecycleService
	receivingService *appprocurement.ReceivingService
}

func newFixture() *fixture {
	repos := newFakeRepos()
	stockService := appinventory.NewStockLotService(fakeInventoryScope{repos}, nil)
	return &fixture{
		repos:            repos,
		variantService:   appinventory.NewVariantService(fakeInventoryScope{repos}, nil),
		stockService:     stockService,
		orderService:     appordering.NewOrderLifecycleService(fakeOrderingScope{repos}, stockService, nil),
		receivingService: appprocurement.NewReceivingService(fakeProcurementScope{repos}, stockService, nil),
	}
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

// newTestRouter mounts the given handlers the way the server does
func newTestRouter(registrars ...router.RouteRegistrar) *gin.Engine {
	engine := gin.New()
	router.NewRouter(engine).Register(registrars...).Setup()
	return engine
}
