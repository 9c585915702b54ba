package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockAllocationRepository creates a GormAllocationRepository with a mocked SQL connection
func newMockAllocationRepository(t *testing.T) (*GormAllocationRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormAllocationRepository(gormDB), mock, mockDB
}

func allocationRows(id, orderItemID, lotID uuid.UUID, quantity int64, reversed bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at",
		"order_item_id", "stock_lot_id", "allocated_quantity", "unit_cost_at_allocation", "reversed",
	}).AddRow(
		id, now, now,
		orderItemID, lotID, quantity, decimal.RequireFromString("5.00"), reversed,
	)
}

func TestGormAllocationRepository_FindActiveByOrderItem(t *testing.T) {
	t.Run("excludes reversed rows in the query", func(t *testing.T) {
		repo, mock, mockDB := newMockAllocationRepository(t)
		defer mockDB.Close()

		orderItemID := uuid.New()
		allocID := uuid.New()
		lotID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_lot_allocations" WHERE order_item_id = \$1 AND reversed = FALSE`).
			WithArgs(orderItemID).
			WillReturnRows(allocationRows(allocID, orderItemID, lotID, 5, false))

		allocations, err := repo.FindActiveByOrderItem(context.Background(), orderItemID)

		assert.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, allocID, allocations[0].ID)
		assert.Equal(t, lotID, allocations[0].StockLotID)
		assert.False(t, allocations[0].Reversed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAllocationRepository_FindByLot(t *testing.T) {
	t.Run("lists allocations drawn from the lot", func(t *testing.T) {
		repo, mock, mockDB := newMockAllocationRepository(t)
		defer mockDB.Close()

		lotID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "stock_lot_allocations" WHERE stock_lot_id = \$1`).
			WithArgs(lotID).
			WillReturnRows(allocationRows(uuid.New(), uuid.New(), lotID, 3, false))

		allocations, err := repo.FindByLot(context.Background(), lotID)

		assert.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, lotID, allocations[0].StockLotID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAllocationRepository_MarkReversed(t *testing.T) {
	t.Run("flags the given ids", func(t *testing.T) {
		repo, mock, mockDB := newMockAllocationRepository(t)
		defer mockDB.Close()

		ids := []uuid.UUID{uuid.New(), uuid.New()}
		mock.ExpectExec(`UPDATE "stock_lot_allocations" SET`).
			WithArgs(true, sqlmock.AnyArg(), ids[0], ids[1]).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.MarkReversed(context.Background(), ids)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty id list is a no-op", func(t *testing.T) {
		repo, mock, mockDB := newMockAllocationRepository(t)
		defer mockDB.Close()

		err := repo.MarkReversed(context.Background(), nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAllocationRepository_CreateBatch(t *testing.T) {
	t.Run("empty slice is a no-op", func(t *testing.T) {
		repo, mock, mockDB := newMockAllocationRepository(t)
		defer mockDB.Close()

		err := repo.CreateBatch(context.Background(), nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
