package issuance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"workwear-backend/internal/apperrors"
	"workwear-backend/internal/issuance"
	"workwear-backend/internal/models"
	"workwear-backend/internal/stock"
	"workwear-backend/internal/testutil"
)

const testCode uint = 1000001

func seed(t *testing.T, db *gorm.DB, newStock int) (employeeID uint) {
	t.Helper()

	item := models.Item{Code: testCode, Type: "Jacket", Color: "Black", Size: "M"}
	require.NoError(t, db.Create(&item).Error)

	emp := models.Employee{
		Name: "Anna Kovacs", Email: "anna@example.com",
		Username: "anna", PasswordHash: "x", Role: models.RoleUser,
	}
	require.NoError(t, db.Create(&emp).Error)

	if newStock > 0 {
		require.NoError(t, stock.Release(db, testCode, models.GradeNew, newStock))
	}
	return emp.ID
}

func bucket(t *testing.T, db *gorm.DB, grade string) int {
	t.Helper()
	qty, err := stock.GetBucket(db, testCode, grade)
	require.NoError(t, err)
	return qty
}

func TestIssueDecrementsNewBucketAndRecords(t *testing.T) {
	db := testutil.NewDB(t)
	empID := seed(t, db, 10)

	movement, err := issuance.Issue(empID, testCode, 3, "new hire kit", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, movement.Quantity)
	assert.False(t, movement.Returned())

	assert.Equal(t, 7, bucket(t, db, models.GradeNew))
}

func TestIssueInsufficientStockLeavesNoRecord(t *testing.T) {
	db := testutil.NewDB(t)
	empID := seed(t, db, 2)

	_, err := issuance.Issue(empID, testCode, 5, "new hire kit", nil)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	var count int64
	require.NoError(t, db.Model(&models.Movement{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "failed issue must not create a record")
	assert.Equal(t, 2, bucket(t, db, models.GradeNew))
}

func TestIssueValidation(t *testing.T) {
	db := testutil.NewDB(t)
	empID := seed(t, db, 10)

	_, err := issuance.Issue(empID, testCode, 1, "ab", nil)
	assert.True(t, apperrors.IsValidation(err), "reason below 3 characters")

	_, err = issuance.Issue(empID, testCode, 0, "valid reason", nil)
	assert.True(t, apperrors.IsValidation(err), "quantity below 1")

	_, err = issuance.Issue(empID, 7777777, 1, "valid reason", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "unknown item")

	_, err = issuance.Issue(99999, testCode, 1, "valid reason", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "unknown employee")
}

func TestReturnRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	empID := seed(t, db, 10)

	movement, err := issuance.Issue(empID, testCode, 4, "site rotation", nil)
	require.NoError(t, err)
	assert.Equal(t, 6, bucket(t, db, models.GradeNew))

	returned, err := issuance.MarkReturn(movement.ID, models.GradeGood, nil)
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnedAt)
	require.NotNil(t, returned.ReturnedGrade)
	assert.Equal(t, models.GradeGood, *returned.ReturnedGrade)

	// "new" stays reduced, "good" gains the full issued quantity.
	assert.Equal(t, 6, bucket(t, db, models.GradeNew))
	assert.Equal(t, 4, bucket(t, db, models.GradeGood))
	assert.Equal(t, 0, bucket(t, db, models.GradeUsed))
	assert.Equal(t, 0, bucket(t, db, models.GradeDamaged))
}

func TestReturnIsAtMostOnce(t *testing.T) {
	db := testutil.NewDB(t)
	empID := seed(t, db, 10)

	movement, err := issuance.Issue(empID, testCode, 2, "seasonal", nil)
	require.NoError(t, err)

	first, err := issuance.MarkReturn(movement.ID, models.GradeGood, nil)
	require.NoError(t, err)

	// Second return with a different grade is a no-op returning the
	// already-closed record.
	second, err := issuance.MarkReturn(movement.ID, models.GradeDamaged, nil)
	require.NoError(t, err)
	assert.Equal(t, *first.ReturnedGrade, *second.ReturnedGrade)
	assert.Equal(t, first.ReturnedAt.Unix(), second.ReturnedAt.Unix())

	assert.Equal(t, 2, bucket(t, db, models.GradeGood))
	assert.Equal(t, 0, bucket(t, db, models.GradeDamaged))
}

func TestReturnAfterRecordClosedOutOfBand(t *testing.T) {
	db := testutil.NewDB(t)
	empID := seed(t, db, 10)

	movement, err := issuance.Issue(empID, testCode, 2, "field kit", nil)
	require.NoError(t, err)

	// Another writer closed the record directly; the return write is
	// guarded on returned_at IS NULL, so no second release may happen.
	closedAt := time.Now()
	require.NoError(t, db.Model(&models.Movement{}).
		Where("id = ?", movement.ID).
		Updates(map[string]any{"returned_at": closedAt, "returned_grade": models.GradeUsed}).Error)

	returned, err := issuance.MarkReturn(movement.ID, models.GradeGood, nil)
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnedGrade)
	assert.Equal(t, models.GradeUsed, *returned.ReturnedGrade)

	assert.Equal(t, 0, bucket(t, db, models.GradeGood))
	assert.Equal(t, 0, bucket(t, db, models.GradeUsed))
}

func TestReturnUnknownMovement(t *testing.T) {
	testutil.NewDB(t)

	_, err := issuance.MarkReturn(12345, models.GradeGood, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBatchReturnSharesTimestampAndIsAtomic(t *testing.T) {
	db := testutil.NewDB(t)
	empID := seed(t, db, 10)

	m1, err := issuance.Issue(empID, testCode, 1, "crew issue", nil)
	require.NoError(t, err)
	m2, err := issuance.Issue(empID, testCode, 2, "crew issue", nil)
	require.NoError(t, err)
	m3, err := issuance.Issue(empID, testCode, 3, "crew issue", nil)
	require.NoError(t, err)

	results, err := issuance.MarkReturnBatch([]issuance.BatchEntry{
		{MovementID: m1.ID, Grade: models.GradeGood},
		{MovementID: m2.ID, Grade: models.GradeUsed},
		{MovementID: m3.ID, Grade: models.GradeGood},
	}, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, results[0].ReturnedAt.Unix(), results[1].ReturnedAt.Unix())
	assert.Equal(t, results[1].ReturnedAt.Unix(), results[2].ReturnedAt.Unix())

	assert.Equal(t, 4, bucket(t, db, models.GradeGood))
	assert.Equal(t, 2, bucket(t, db, models.GradeUsed))
}

func TestBatchReturnRollsBackOnMissingMovement(t *testing.T) {
	db := testutil.NewDB(t)
	empID := seed(t, db, 10)

	m1, err := issuance.Issue(empID, testCode, 1, "crew issue", nil)
	require.NoError(t, err)
	m3, err := issuance.Issue(empID, testCode, 3, "crew issue", nil)
	require.NoError(t, err)

	_, err = issuance.MarkReturnBatch([]issuance.BatchEntry{
		{MovementID: m1.ID, Grade: models.GradeGood},
		{MovementID: 98765, Grade: models.GradeGood},
		{MovementID: m3.ID, Grade: models.GradeGood},
	}, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// No increment survived and the first movement is still open.
	assert.Equal(t, 0, bucket(t, db, models.GradeGood))

	reloaded, err := issuance.Get(m1.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Returned())
}

func TestRemoveDeletesWithoutStockEffect(t *testing.T) {
	db := testutil.NewDB(t)
	empID := seed(t, db, 10)

	movement, err := issuance.Issue(empID, testCode, 3, "deleted later", nil)
	require.NoError(t, err)
	assert.Equal(t, 7, bucket(t, db, models.GradeNew))

	require.NoError(t, issuance.Remove(movement.ID))

	// Administrative delete: the ledger stands.
	assert.Equal(t, 7, bucket(t, db, models.GradeNew))

	_, err = issuance.Get(movement.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, issuance.Remove(movement.ID), apperrors.ErrNotFound)
}

func TestCallerSuppliedTimestamps(t *testing.T) {
	db := testutil.NewDB(t)
	empID := seed(t, db, 10)

	issuedAt := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	movement, err := issuance.Issue(empID, testCode, 1, "backdated entry", &issuedAt)
	require.NoError(t, err)
	assert.True(t, movement.IssuedAt.Equal(issuedAt))

	returnedAt := issuedAt.AddDate(0, 1, 0)
	returned, err := issuance.MarkReturn(movement.ID, models.GradeUsed, &returnedAt)
	require.NoError(t, err)
	assert.True(t, returned.ReturnedAt.Equal(returnedAt))
}

func TestListsAndStats(t *testing.T) {
	db := testutil.NewDB(t)
	empID := seed(t, db, 10)

	m1, err := issuance.Issue(empID, testCode, 1, "first", nil)
	require.NoError(t, err)
	_, err = issuance.Issue(empID, testCode, 2, "second", nil)
	require.NoError(t, err)

	_, err = issuance.MarkReturn(m1.ID, models.GradeGood, nil)
	require.NoError(t, err)

	active, err := issuance.ListActive()
	require.NoError(t, err)
	assert.Len(t, active, 1)

	returned, err := issuance.ListReturned()
	require.NoError(t, err)
	assert.Len(t, returned, 1)

	mine, err := issuance.ListByEmployee(empID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	stats, err := issuance.GetStats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 1, stats.Active)
	assert.EqualValues(t, 1, stats.Returned)
}
