package replenishment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"workwear-backend/internal/apperrors"
	"workwear-backend/internal/models"
	"workwear-backend/internal/replenishment"
	"workwear-backend/internal/stock"
	"workwear-backend/internal/testutil"
)

const testCode uint = 1000001

func seedItem(t *testing.T, db *gorm.DB) {
	t.Helper()
	item := models.Item{Code: testCode, Type: "Overall", Color: "Grey", Size: "L"}
	require.NoError(t, db.Create(&item).Error)
}

func TestPlaceValidatesItemAndQuantity(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db)

	order, err := replenishment.Place(testCode, 20, "WorkGear Kft", "autumn restock", nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPlaced, order.Status)
	assert.Equal(t, 20, order.Quantity)

	_, err = replenishment.Place(7777777, 5, "", "", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = replenishment.Place(testCode, 0, "", "", nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestFulfillAddsToNewBucketExactlyOnce(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db)

	order, err := replenishment.Place(testCode, 20, "", "", nil)
	require.NoError(t, err)

	result, err := replenishment.Fulfill(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderFulfilled, result.Order.Status)
	assert.Equal(t, 20, result.AddedQuantity)
	assert.Equal(t, 20, result.NewStockLevel)

	qty, err := stock.GetBucket(db, testCode, models.GradeNew)
	require.NoError(t, err)
	assert.Equal(t, 20, qty)

	// Second fulfill is an idempotent no-op.
	again, err := replenishment.Fulfill(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderFulfilled, again.Order.Status)
	assert.Equal(t, 0, again.AddedQuantity)
	assert.Equal(t, 20, again.NewStockLevel)

	qty, err = stock.GetBucket(db, testCode, models.GradeNew)
	require.NoError(t, err)
	assert.Equal(t, 20, qty, "stock must not be incremented twice")
}

func TestFulfillCancelledOrderIsInvalid(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db)

	order, err := replenishment.Place(testCode, 5, "", "", nil)
	require.NoError(t, err)

	_, err = replenishment.Cancel(order.ID)
	require.NoError(t, err)

	_, err = replenishment.Fulfill(order.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	qty, err := stock.GetBucket(db, testCode, models.GradeNew)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}

func TestFulfillAfterStatusFlippedOutOfBand(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db)

	order, err := replenishment.Place(testCode, 20, "", "", nil)
	require.NoError(t, err)

	// Another writer completed the order directly; the transition is
	// guarded on status = placed, so this caller must not credit stock.
	require.NoError(t, db.Model(&models.SupplyOrder{}).
		Where("id = ?", order.ID).
		Update("status", models.OrderFulfilled).Error)

	result, err := replenishment.Fulfill(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.AddedQuantity)

	qty, err := stock.GetBucket(db, testCode, models.GradeNew)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}

func TestCancelRules(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db)

	order, err := replenishment.Place(testCode, 5, "", "", nil)
	require.NoError(t, err)

	cancelled, err := replenishment.Cancel(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	// Idempotent second cancel.
	again, err := replenishment.Cancel(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, again.Status)

	// Fulfilled orders cannot be cancelled.
	fulfilled, err := replenishment.Place(testCode, 3, "", "", nil)
	require.NoError(t, err)
	_, err = replenishment.Fulfill(fulfilled.ID)
	require.NoError(t, err)
	_, err = replenishment.Cancel(fulfilled.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = replenishment.Cancel(44444)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateOnlyWhilePlaced(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db)

	order, err := replenishment.Place(testCode, 5, "", "", nil)
	require.NoError(t, err)

	qty := 8
	supplier := "WorkGear Kft"
	updated, err := replenishment.Update(order.ID, replenishment.UpdateAttrs{Quantity: &qty, Supplier: &supplier})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Quantity)
	assert.Equal(t, "WorkGear Kft", updated.Supplier)

	_, err = replenishment.Fulfill(order.ID)
	require.NoError(t, err)

	_, err = replenishment.Update(order.ID, replenishment.UpdateAttrs{Quantity: &qty})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestUpdateCannotRevertFulfilledOrder(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db)

	order, err := replenishment.Place(testCode, 5, "", "", nil)
	require.NoError(t, err)
	_, err = replenishment.Fulfill(order.ID)
	require.NoError(t, err)

	qty := 9
	_, err = replenishment.Update(order.ID, replenishment.UpdateAttrs{Quantity: &qty})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	// The frozen order keeps its status and quantity, so a later
	// fulfill stays a no-op.
	reloaded, err := replenishment.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderFulfilled, reloaded.Status)
	assert.Equal(t, 5, reloaded.Quantity)

	again, err := replenishment.Fulfill(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.AddedQuantity)

	level, err := stock.GetBucket(db, testCode, models.GradeNew)
	require.NoError(t, err)
	assert.Equal(t, 5, level)
}

func TestRemoveHasNoStockEffect(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db)

	order, err := replenishment.Place(testCode, 5, "", "", nil)
	require.NoError(t, err)
	_, err = replenishment.Fulfill(order.ID)
	require.NoError(t, err)

	require.NoError(t, replenishment.Remove(order.ID))

	qty, err := stock.GetBucket(db, testCode, models.GradeNew)
	require.NoError(t, err)
	assert.Equal(t, 5, qty, "deleting the order leaves the ledger alone")

	assert.ErrorIs(t, replenishment.Remove(order.ID), apperrors.ErrNotFound)
}

func TestListsAndFilters(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db)

	orderedAt := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	first, err := replenishment.Place(testCode, 5, "", "", &orderedAt)
	require.NoError(t, err)
	second, err := replenishment.Place(testCode, 7, "", "", nil)
	require.NoError(t, err)

	_, err = replenishment.Fulfill(first.ID)
	require.NoError(t, err)

	pending, err := replenishment.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	fulfilled, err := replenishment.ListByStatus(models.OrderFulfilled)
	require.NoError(t, err)
	require.Len(t, fulfilled, 1)
	assert.Equal(t, first.ID, fulfilled[0].ID)

	byItem, err := replenishment.ListByItem(testCode)
	require.NoError(t, err)
	assert.Len(t, byItem, 2)

	all, err := replenishment.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
