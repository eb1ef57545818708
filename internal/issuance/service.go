// Package issuance orchestrates employee-facing stock movements: a
// garment is issued from the "new" bucket and later returned into the
// bucket matching its assessed quality. Every multi-row effect runs in
// one transaction so the ledger and the movement history never drift.
package issuance

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"workwear-backend/internal/apperrors"
	"workwear-backend/internal/database"
	"workwear-backend/internal/models"
	"workwear-backend/internal/stock"
)

const minReasonLength = 3

// Issue hands qty units of an item to an employee. The "new" bucket is
// decremented and the movement record created in the same transaction;
// insufficient stock aborts both.
func Issue(employeeID, itemCode uint, qty int, reason string, issuedAt *time.Time) (*models.Movement, error) {
	if qty < 1 {
		return nil, apperrors.Validationf("quantity must be at least 1")
	}
	if len([]rune(reason)) < minReasonLength {
		return nil, apperrors.Validationf("reason must be at least %d characters", minReasonLength)
	}

	var movement models.Movement
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, "code = ?", itemCode).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}
		var emp models.Employee
		if err := tx.First(&emp, "id = ?", employeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if err := stock.Reserve(tx, itemCode, models.GradeNew, qty); err != nil {
			return err
		}

		at := time.Now()
		if issuedAt != nil {
			at = *issuedAt
		}
		movement = models.Movement{
			EmployeeID: employeeID,
			ItemCode:   itemCode,
			Quantity:   qty,
			Reason:     reason,
			IssuedAt:   at,
		}
		return tx.Create(&movement).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"movement_id": movement.ID,
		"employee_id": employeeID,
		"item_code":   itemCode,
		"quantity":    qty,
	}).Info("workwear issued")

	return &movement, nil
}

// MarkReturn closes a movement: the record gets its return timestamp
// and assessed grade, and the matching bucket is incremented by the
// issued quantity. Calling it on an already-returned movement is an
// idempotent no-op that returns the record unchanged.
func MarkReturn(movementID uint, grade string, returnedAt *time.Time) (*models.Movement, error) {
	if grade == "" {
		return nil, apperrors.Validationf("returned grade is required")
	}

	var movement models.Movement
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return markReturnTx(tx, movementID, grade, returnedAt, &movement)
	})
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

func markReturnTx(tx *gorm.DB, movementID uint, grade string, returnedAt *time.Time, out *models.Movement) error {
	var movement models.Movement
	if err := tx.First(&movement, "id = ?", movementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}

	if movement.Returned() {
		// At-most-once: the first return already moved the stock.
		*out = movement
		return nil
	}

	at := time.Now()
	if returnedAt != nil {
		at = *returnedAt
	}

	// Guarded flip: only the writer that closes the open record may
	// release stock, however concurrent returns interleave.
	res := tx.Model(&models.Movement{}).
		Where("id = ? AND returned_at IS NULL", movementID).
		Updates(map[string]any{"returned_at": at, "returned_grade": grade})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// A concurrent return committed first; report its record.
		if err := tx.First(&movement, "id = ?", movementID).Error; err != nil {
			return err
		}
		*out = movement
		return nil
	}

	movement.ReturnedAt = &at
	movement.ReturnedGrade = &grade

	if err := stock.Release(tx, movement.ItemCode, grade, movement.Quantity); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"movement_id": movement.ID,
		"item_code":   movement.ItemCode,
		"grade":       grade,
		"quantity":    movement.Quantity,
	}).Info("workwear returned")

	*out = movement
	return nil
}

// BatchEntry is one movement to close in MarkReturnBatch.
type BatchEntry struct {
	MovementID uint   `json:"movement_id" validate:"required"`
	Grade      string `json:"grade" validate:"required"`
}

// MarkReturnBatch closes several movements under one transaction and
// one shared return timestamp. Any missing movement fails the whole
// batch; none of the stock increments survive.
func MarkReturnBatch(entries []BatchEntry, returnedAt *time.Time) ([]models.Movement, error) {
	if len(entries) == 0 {
		return nil, apperrors.Validationf("at least one entry is required")
	}

	at := time.Now()
	if returnedAt != nil {
		at = *returnedAt
	}

	results := make([]models.Movement, len(entries))
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for i, e := range entries {
			if e.Grade == "" {
				return apperrors.Validationf("returned grade is required")
			}
			if err := markReturnTx(tx, e.MovementID, e.Grade, &at, &results[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Remove deletes a movement record. Deliberately no stock effect: this
// is an administrative correction of the books, not a physical return.
func Remove(movementID uint) error {
	res := database.DB.Delete(&models.Movement{}, "id = ?", movementID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Get fetches one movement.
func Get(movementID uint) (*models.Movement, error) {
	var movement models.Movement
	err := database.DB.First(&movement, "id = ?", movementID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

// List returns all movements, newest first.
func List() ([]models.Movement, error) {
	var movements []models.Movement
	err := database.DB.Order("issued_at DESC").Find(&movements).Error
	return movements, err
}

// ListByEmployee returns one employee's movements, newest first.
func ListByEmployee(employeeID uint) ([]models.Movement, error) {
	var movements []models.Movement
	err := database.DB.
		Where("employee_id = ?", employeeID).
		Order("issued_at DESC").
		Find(&movements).Error
	return movements, err
}

// ListActive returns movements still out in the field.
func ListActive() ([]models.Movement, error) {
	var movements []models.Movement
	err := database.DB.
		Where("returned_at IS NULL").
		Order("issued_at DESC").
		Find(&movements).Error
	return movements, err
}

// ListReturned returns closed movements.
func ListReturned() ([]models.Movement, error) {
	var movements []models.Movement
	err := database.DB.
		Where("returned_at IS NOT NULL").
		Order("returned_at DESC").
		Find(&movements).Error
	return movements, err
}

// DateRangeResult is the ListByDate payload: the movements issued in
// the window plus issue/return counts.
type DateRangeResult struct {
	From        time.Time         `json:"from"`
	To          time.Time         `json:"to"`
	IssueCount  int               `json:"issue_count"`
	ReturnCount int               `json:"return_count"`
	Movements   []models.Movement `json:"movements"`
}

// ListByDate returns movements whose issue date falls in [from, to].
func ListByDate(from, to time.Time) (*DateRangeResult, error) {
	var movements []models.Movement
	err := database.DB.
		Where("issued_at >= ? AND issued_at <= ?", from, to).
		Order("issued_at DESC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}

	result := &DateRangeResult{From: from, To: to, Movements: movements}
	for _, m := range movements {
		result.IssueCount++
		if m.Returned() {
			result.ReturnCount++
		}
	}
	return result, nil
}

// Stats summarizes the movement history.
type Stats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Returned int64 `json:"returned"`
}

func GetStats() (*Stats, error) {
	var s Stats
	if err := database.DB.Model(&models.Movement{}).Count(&s.Total).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&models.Movement{}).Where("returned_at IS NULL").Count(&s.Active).Error; err != nil {
		return nil, err
	}
	s.Returned = s.Total - s.Active
	return &s, nil
}
