package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockLotHandlerCreate(t *testing.T) {
	f := newFixture()
	engine := newTestRouter(NewStockLotHandler(f.stockService))

	t.Run("opens a lot and syncs cached stock", func(t *testing.T) {
		variant, err := f.variantService.Create(context.Background(), "SKU-LOT-1", "Widget")
		require.NoError(t, err)

		w := postJSON(t, engine, "/api/v1/lots", map[string]any{
			"variant_id": variant.ID,
			"quantity":   8,
			"unit_cost":  "2.50",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(8), data["remaining"])
		assert.Equal(t, "2.5", data["unit_cost"])

		stored, err := f.variantService.Get(context.Background(), variant.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(8), stored.CachedStock)
	})

	t.Run("unknown variant is 404", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/lots", map[string]any{
			"variant_id": "00000000-0000-0000-0000-0000000000bb",
			"quantity":   1,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "VARIANT_NOT_FOUND", resp.Error.Code)
	})

	t.Run("negative unit cost is 400", func(t *testing.T) {
		variant, err := f.variantService.Create(context.Background(), "SKU-LOT-2", "Widget")
		require.NoError(t, err)

		w := postJSON(t, engine, "/api/v1/lots", map[string]any{
			"variant_id": variant.ID,
			"quantity":   1,
			"unit_cost":  "-1.00",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "INVALID_UNIT_COST", resp.Error.Code)
	})
}

func TestStockLotHandlerAdjust(t *testing.T) {
	f := newFixture()
	engine := newTestRouter(NewStockLotHandler(f.stockService))
	variant := seedVariantWithStock(t, f, "SKU-ADJ", 10)

	lots, err := f.stockService.AvailableLots(context.Background(), variant.ID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	lotID := lots[0].ID

	t.Run("negative delta consumes lot stock", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/lots/"+lotID.String()+"/adjustments", map[string]any{
			"delta":            -3,
			"transaction_type": "ADJ_DAMAGE",
			"notes":            "crushed in transit",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(7), data["remaining"])
	})

	t.Run("positive delta extends the lot", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/lots/"+lotID.String()+"/adjustments", map[string]any{
			"delta":            2,
			"transaction_type": "ADJ_FOUND",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(9), data["remaining"])
	})

	t.Run("over-consumption is 422", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/lots/"+lotID.String()+"/adjustments", map[string]any{
			"delta":            -100,
			"transaction_type": "ADJ_LOSS",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "INSUFFICIENT_LOT_STOCK", resp.Error.Code)
	})

	t.Run("direction must match type", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/lots/"+lotID.String()+"/adjustments", map[string]any{
			"delta":            5,
			"transaction_type": "ADJ_DAMAGE",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "INVALID_TRANSACTION_TYPE", resp.Error.Code)
	})

	t.Run("unknown lot is 404", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/lots/00000000-0000-0000-0000-0000000000cc/adjustments", map[string]any{
			"delta":            -1,
			"transaction_type": "ADJ_LOSS",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStockLotHandlerHistory(t *testing.T) {
	f := newFixture()
	engine := newTestRouter(NewStockLotHandler(f.stockService))
	variant := seedVariantWithStock(t, f, "SKU-HIST", 10)

	lots, err := f.stockService.AvailableLots(context.Background(), variant.ID)
	require.NoError(t, err)
	lotID := lots[0].ID

	// one targeted adjustment so the history has an entry referencing the lot
	w := postJSON(t, engine, "/api/v1/lots/"+lotID.String()+"/adjustments", map[string]any{
		"delta":            -2,
		"transaction_type": "ADJ_DAMAGE",
	})
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("returns the lot audit trail from creation onward", func(t *testing.T) {
		w := getPath(t, engine, "/api/v1/lots/"+lotID.String()+"/history")

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		txs := resp.Data.([]interface{})
		require.Len(t, txs, 2)
		created := txs[0].(map[string]interface{})
		assert.Equal(t, "IN_GRN", created["transaction_type"])
		damaged := txs[1].(map[string]interface{})
		assert.Equal(t, "ADJ_DAMAGE", damaged["transaction_type"])
	})

	t.Run("unknown lot is 404", func(t *testing.T) {
		w := getPath(t, engine, "/api/v1/lots/00000000-0000-0000-0000-0000000000dd/history")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
