package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/lotledger/backend/internal/application/inventory"
	"github.com/lotledger/backend/internal/domain/inventory"
)

func seedVariantWithStock(t *testing.T, f *fixture, sku string, lots ...int64) *appinventory.VariantResponse {
	t.Helper()
	variant, err := f.variantService.Create(context.Background(), sku, "Widget "+sku)
	require.NoError(t, err)
	for i, qty := range lots {
		_, err := f.stockService.CreateLot(context.Background(), appinventory.CreateLotInput{
			VariantID:       variant.ID,
			QuantityIn:      qty,
			UnitCost:        decimal.NewFromInt(int64(i + 1)),
			PurchaseDate:    time.Date(2026, 1, i+1, 0, 0, 0, 0, time.UTC),
			TransactionType: inventory.TransactionTypeGoodsReceipt,
		})
		require.NoError(t, err)
	}
	return variant
}

func postJSON(t *testing.T, engine http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func getPath(t *testing.T, engine http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestVariantHandlerCreate(t *testing.T) {
	f := newFixture()
	engine := newTestRouter(NewVariantHandler(f.variantService, f.stockService))

	t.Run("creates a variant", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/variants", map[string]any{"sku": "SKU-001", "name": "Widget"})

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		require.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "SKU-001", data["sku"])
		assert.Equal(t, float64(0), data["cached_stock"])
	})

	t.Run("duplicate SKU conflicts", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/variants", map[string]any{"sku": "SKU-001", "name": "Widget"})

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "ALREADY_EXISTS", resp.Error.Code)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/variants", map[string]any{"sku": "SKU-002"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("SKU with unsafe characters rejected", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/variants", map[string]any{"sku": "SKU 00/1", "name": "Widget"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVariantHandlerGet(t *testing.T) {
	f := newFixture()
	engine := newTestRouter(NewVariantHandler(f.variantService, f.stockService))
	variant := seedVariantWithStock(t, f, "SKU-GET", 5)

	t.Run("returns the variant with cached stock", func(t *testing.T) {
		w := getPath(t, engine, "/api/v1/variants/"+variant.ID.String())

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "SKU-GET", data["sku"])
		assert.Equal(t, float64(5), data["cached_stock"])
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		w := getPath(t, engine, "/api/v1/variants/00000000-0000-0000-0000-0000000000aa")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		w := getPath(t, engine, "/api/v1/variants/not-a-uuid")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVariantHandlerListAvailableLots(t *testing.T) {
	f := newFixture()
	engine := newTestRouter(NewVariantHandler(f.variantService, f.stockService))
	variant := seedVariantWithStock(t, f, "SKU-LOTS", 5, 3)

	w := getPath(t, engine, "/api/v1/variants/"+variant.ID.String()+"/lots")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	lots := resp.Data.([]interface{})
	require.Len(t, lots, 2)
	first := lots[0].(map[string]interface{})
	assert.Equal(t, float64(5), first["remaining"])
}

func TestVariantHandlerPreviewCost(t *testing.T) {
	f := newFixture()
	engine := newTestRouter(NewVariantHandler(f.variantService, f.stockService))
	variant := seedVariantWithStock(t, f, "SKU-PREVIEW", 5, 5)

	t.Run("previews FIFO cost without moving stock", func(t *testing.T) {
		w := getPath(t, engine, fmt.Sprintf("/api/v1/variants/%s/cost-preview?quantity=7", variant.ID))

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		// 5 units at 1.00 plus 2 units at 2.00
		assert.Equal(t, "9", data["total_cost"])

		stored, err := f.variantService.Get(context.Background(), variant.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), stored.CachedStock)
	})

	t.Run("shortfall is 422", func(t *testing.T) {
		w := getPath(t, engine, fmt.Sprintf("/api/v1/variants/%s/cost-preview?quantity=11", variant.ID))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	})

	t.Run("missing quantity is 400", func(t *testing.T) {
		w := getPath(t, engine, fmt.Sprintf("/api/v1/variants/%s/cost-preview", variant.ID))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVariantHandlerDeduct(t *testing.T) {
	f := newFixture()
	engine := newTestRouter(NewVariantHandler(f.variantService, f.stockService))
	variant := seedVariantWithStock(t, f, "SKU-DEDUCT", 5, 5)

	t.Run("deducts FIFO and reports weighted cost", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/variants/"+variant.ID.String()+"/deductions", map[string]any{
			"quantity":         6,
			"transaction_type": "ADJ_DAMAGE",
			"notes":            "water damage",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		// 5 at 1.00 plus 1 at 2.00
		assert.Equal(t, "7", data["total_cost"])
		assert.Equal(t, float64(4), data["stock_after"])
		lines := data["lines"].([]interface{})
		assert.Len(t, lines, 2)
	})

	t.Run("inbound type rejected", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/variants/"+variant.ID.String()+"/deductions", map[string]any{
			"quantity":         1,
			"transaction_type": "IN_GRN",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "INVALID_TRANSACTION_TYPE", resp.Error.Code)
	})

	t.Run("shortfall is 422 and writes nothing", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/variants/"+variant.ID.String()+"/deductions", map[string]any{
			"quantity":         100,
			"transaction_type": "ADJ_LOSS",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		stored, err := f.variantService.Get(context.Background(), variant.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), stored.CachedStock)
	})
}

func TestVariantHandlerSyncStock(t *testing.T) {
	f := newFixture()
	engine := newTestRouter(NewVariantHandler(f.variantService, f.stockService))
	variant := seedVariantWithStock(t, f, "SKU-SYNC", 5)

	w := postJSON(t, engine, "/api/v1/variants/"+variant.ID.String()+"/stock-sync", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(5), data["cached_stock"])
}

func TestVariantHandlerListTransactions(t *testing.T) {
	f := newFixture()
	engine := newTestRouter(NewVariantHandler(f.variantService, f.stockService))
	variant := seedVariantWithStock(t, f, "SKU-TX", 5)

	w := getPath(t, engine, "/api/v1/variants/"+variant.ID.String()+"/transactions")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	txs := resp.Data.([]interface{})
	require.Len(t, txs, 1)
	tx := txs[0].(map[string]interface{})
	assert.Equal(t, "IN_GRN", tx["transaction_type"])
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Page)
}
