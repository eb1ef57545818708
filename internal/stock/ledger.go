// Package stock owns the per-(item, grade) quantity buckets. Every
// mutator takes the caller's *gorm.DB transaction handle; the ledger
// never opens a transaction of its own, so a bucket change and the
// record that caused it always commit or roll back together.
package stock

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workwear-backend/internal/apperrors"
	"workwear-backend/internal/models"
)

// GetBucket returns the quantity on hand for (code, grade), 0 when no
// bucket row exists yet.
func GetBucket(tx *gorm.DB, code uint, grade string) (int, error) {
	var bucket models.StockBucket
	err := tx.Where("item_code = ? AND grade = ?", code, grade).First(&bucket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return bucket.Quantity, nil
}

// Reserve decrements (code, grade) by qty. It re-reads the bucket
// inside the caller's transaction, checks the level, then issues a
// guarded decrement so no interleaving of concurrent reserves can
// drive the quantity below zero: under read committed the guarded
// UPDATE takes the row lock and re-evaluates quantity >= qty against
// the committed value.
func Reserve(tx *gorm.DB, code uint, grade string, qty int) error {
	if qty <= 0 {
		return apperrors.Validationf("quantity must be positive")
	}

	current, err := GetBucket(tx, code, grade)
	if err != nil {
		return err
	}
	if current < qty {
		return apperrors.ErrInsufficientStock
	}

	res := tx.Model(&models.StockBucket{}).
		Where("item_code = ? AND grade = ? AND quantity >= ?", code, grade, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// A concurrent transaction drained the bucket between the
		// read and the update.
		return apperrors.ErrInsufficientStock
	}
	return nil
}

// Release increments (code, grade) by qty, creating the bucket row on
// first use of the grade for this item. The upsert keeps a concurrent
// first release from aborting the caller's transaction on the unique
// index.
func Release(tx *gorm.DB, code uint, grade string, qty int) error {
	if qty <= 0 {
		return apperrors.Validationf("quantity must be positive")
	}

	bucket := models.StockBucket{ItemCode: code, Grade: grade, Quantity: qty}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_code"}, {Name: "grade"}},
		DoUpdates: clause.Assignments(map[string]any{"quantity": gorm.Expr("quantity + ?", qty)}),
	}).Create(&bucket).Error
}

// MoveGrade corrects the grade of qty units: fromGrade loses qty,
// toGrade gains qty. An existing toGrade bucket is merged by summing.
func MoveGrade(tx *gorm.DB, code uint, fromGrade, toGrade string, qty int) error {
	if fromGrade == toGrade {
		return apperrors.Validationf("source and target grade are the same")
	}
	if err := Reserve(tx, code, fromGrade, qty); err != nil {
		return err
	}
	return Release(tx, code, toGrade, qty)
}

// ListByItem returns every bucket of the item, highest quantity first.
func ListByItem(db *gorm.DB, code uint) ([]models.StockBucket, error) {
	var buckets []models.StockBucket
	err := db.Where("item_code = ?", code).
		Order("quantity DESC, grade ASC").
		Find(&buckets).Error
	return buckets, err
}

// TotalByItem returns the summed quantity across all grades of an item.
func TotalByItem(db *gorm.DB, code uint) (int, error) {
	var total int64
	err := db.Model(&models.StockBucket{}).
		Where("item_code = ?", code).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return int(total), err
}

// SumAll returns the total quantity on hand across all items and
// grades. Reporting reads it; nothing in the core depends on it.
func SumAll(db *gorm.DB) (int, error) {
	var total int64
	err := db.Model(&models.StockBucket{}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return int(total), err
}
