package ordering

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotledger/backend/internal/domain/shared"
)

func makeOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder("SO-1001", []OrderItem{
		{VariantID: uuid.New(), Quantity: 3, UnitPrice: decimal.RequireFromString("19.99")},
	})
	require.NoError(t, err)
	return order
}

func TestNewOrder(t *testing.T) {
	t.Run("starts pending with items linked", func(t *testing.T) {
		order := makeOrder(t)
		assert.Equal(t, OrderStatusPending, order.Status)
		require.Len(t, order.Items, 1)
		assert.Equal(t, order.ID, order.Items[0].OrderID)
		assert.NotEqual(t, uuid.Nil, order.Items[0].ID)
	})

	t.Run("rejects empty order", func(t *testing.T) {
		_, err := NewOrder("SO-1002", nil)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive item quantity", func(t *testing.T) {
		_, err := NewOrder("SO-1003", []OrderItem{{VariantID: uuid.New(), Quantity: 0}})
		assert.Error(t, err)
	})
}

func TestOrderTransitions(t *testing.T) {
	t.Run("pending confirms", func(t *testing.T) {
		order := makeOrder(t)
		require.NoError(t, order.MarkConfirmed())
		assert.Equal(t, OrderStatusConfirmed, order.Status)
	})

	t.Run("confirmed cannot confirm again", func(t *testing.T) {
		order := makeOrder(t)
		require.NoError(t, order.MarkConfirmed())
		assert.ErrorIs(t, order.MarkConfirmed(), shared.ErrInvalidState)
	})

	t.Run("pending cancels without reversal", func(t *testing.T) {
		order := makeOrder(t)
		assert.False(t, order.RequiresReversal())
		require.NoError(t, order.MarkCancelled())
		assert.Equal(t, OrderStatusCancelled, order.Status)
	})

	t.Run("confirmed cancels with reversal", func(t *testing.T) {
		order := makeOrder(t)
		require.NoError(t, order.MarkConfirmed())
		assert.True(t, order.RequiresReversal())
		require.NoError(t, order.MarkCancelled())
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		order := makeOrder(t)
		require.NoError(t, order.MarkCancelled())
		assert.ErrorIs(t, order.MarkConfirmed(), shared.ErrInvalidState)
		assert.ErrorIs(t, order.MarkCancelled(), shared.ErrInvalidState)
	})
}

func TestRecordCOGS(t *testing.T) {
	order := makeOrder(t)
	item := &order.Items[0]

	item.RecordCOGS(decimal.RequireFromString("25.00"))
	assert.True(t, item.COGSTotal.Equal(decimal.RequireFromString("25.00")))
	// 25.00 / 3 rounded to 4 places
	assert.True(t, item.COGSPerUnit.Equal(decimal.RequireFromString("8.3333")))
}
