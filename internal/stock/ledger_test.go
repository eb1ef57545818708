package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"workwear-backend/internal/apperrors"
	"workwear-backend/internal/models"
	"workwear-backend/internal/stock"
	"workwear-backend/internal/testutil"
)

func seedItem(t *testing.T, db *gorm.DB, code uint) {
	t.Helper()
	item := models.Item{Code: code, Type: "Jacket", Color: "Black", Size: "M"}
	require.NoError(t, db.Create(&item).Error)
}

func TestGetBucketAbsentIsZero(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db, 1000001)

	qty, err := stock.GetBucket(db, 1000001, models.GradeNew)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}

func TestReserveInsufficientThenReleaseThenDrain(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db, 1000001)

	// Empty bucket refuses even a single unit.
	err := stock.Reserve(db, 1000001, models.GradeNew, 1)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	require.NoError(t, stock.Release(db, 1000001, models.GradeNew, 5))

	require.NoError(t, stock.Reserve(db, 1000001, models.GradeNew, 5))

	qty, err := stock.GetBucket(db, 1000001, models.GradeNew)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	err = stock.Reserve(db, 1000001, models.GradeNew, 1)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
}

func TestReserveNeverGoesNegative(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db, 1000001)
	require.NoError(t, stock.Release(db, 1000001, models.GradeNew, 3))

	err := stock.Reserve(db, 1000001, models.GradeNew, 4)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	qty, err := stock.GetBucket(db, 1000001, models.GradeNew)
	require.NoError(t, err)
	assert.Equal(t, 3, qty)
}

func TestReleaseCreatesBucketLazily(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db, 1000001)

	require.NoError(t, stock.Release(db, 1000001, models.GradeUsed, 2))
	require.NoError(t, stock.Release(db, 1000001, models.GradeUsed, 3))

	qty, err := stock.GetBucket(db, 1000001, models.GradeUsed)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	var count int64
	require.NoError(t, db.Model(&models.StockBucket{}).
		Where("item_code = ? AND grade = ?", 1000001, models.GradeUsed).
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "releases must merge into one bucket row")
}

func TestReleaseUpsertsWithinCallerTransaction(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db, 1000001)

	// First touch of a grade inside an open transaction must not abort
	// it; repeated releases merge into the same row.
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := stock.Release(tx, 1000001, models.GradeGood, 2); err != nil {
			return err
		}
		return stock.Release(tx, 1000001, models.GradeGood, 3)
	})
	require.NoError(t, err)

	qty, err := stock.GetBucket(db, 1000001, models.GradeGood)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	var count int64
	require.NoError(t, db.Model(&models.StockBucket{}).
		Where("item_code = ? AND grade = ?", 1000001, models.GradeGood).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMoveGradeMergesIntoExistingBucket(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db, 1000001)
	require.NoError(t, stock.Release(db, 1000001, models.GradeNew, 10))
	require.NoError(t, stock.Release(db, 1000001, models.GradeGood, 4))

	require.NoError(t, stock.MoveGrade(db, 1000001, models.GradeNew, models.GradeGood, 3))

	newQty, err := stock.GetBucket(db, 1000001, models.GradeNew)
	require.NoError(t, err)
	goodQty, err := stock.GetBucket(db, 1000001, models.GradeGood)
	require.NoError(t, err)
	assert.Equal(t, 7, newQty)
	assert.Equal(t, 7, goodQty)

	var count int64
	require.NoError(t, db.Model(&models.StockBucket{}).
		Where("item_code = ? AND grade = ?", 1000001, models.GradeGood).
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "move must merge, not create a parallel row")
}

func TestMoveGradeInsufficientSourceRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db, 1000001)
	require.NoError(t, stock.Release(db, 1000001, models.GradeNew, 2))

	err := db.Transaction(func(tx *gorm.DB) error {
		return stock.MoveGrade(tx, 1000001, models.GradeNew, models.GradeDamaged, 5)
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	newQty, err := stock.GetBucket(db, 1000001, models.GradeNew)
	require.NoError(t, err)
	assert.Equal(t, 2, newQty)

	damagedQty, err := stock.GetBucket(db, 1000001, models.GradeDamaged)
	require.NoError(t, err)
	assert.Equal(t, 0, damagedQty)
}

func TestMoveGradeSameGradeRejected(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db, 1000001)
	require.NoError(t, stock.Release(db, 1000001, models.GradeNew, 2))

	err := stock.MoveGrade(db, 1000001, models.GradeNew, models.GradeNew, 1)
	assert.True(t, apperrors.IsValidation(err))
}

func TestListByItemAndSums(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db, 1000001)
	seedItem2 := models.Item{Code: 1000002, Type: "Boots", Color: "Brown", Size: "44"}
	require.NoError(t, db.Create(&seedItem2).Error)

	require.NoError(t, stock.Release(db, 1000001, models.GradeNew, 8))
	require.NoError(t, stock.Release(db, 1000001, models.GradeUsed, 2))
	require.NoError(t, stock.Release(db, 1000002, models.GradeNew, 5))

	buckets, err := stock.ListByItem(db, 1000001)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, models.GradeNew, buckets[0].Grade)
	assert.Equal(t, 8, buckets[0].Quantity)

	total, err := stock.TotalByItem(db, 1000001)
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	all, err := stock.SumAll(db)
	require.NoError(t, err)
	assert.Equal(t, 15, all)
}

func TestReserveRejectsNonPositiveQuantity(t *testing.T) {
	db := testutil.NewDB(t)
	seedItem(t, db, 1000001)
	require.NoError(t, stock.Release(db, 1000001, models.GradeNew, 1))

	assert.True(t, apperrors.IsValidation(stock.Reserve(db, 1000001, models.GradeNew, 0)))
	assert.True(t, apperrors.IsValidation(stock.Reserve(db, 1000001, models.GradeNew, -2)))
	assert.True(t, apperrors.IsValidation(stock.Release(db, 1000001, models.GradeNew, 0)))
}
