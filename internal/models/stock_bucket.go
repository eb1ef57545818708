package models

import "time"

// Quality grades used for stock buckets. Grade is a free string column;
// these are the values the application itself writes.
const (
	GradeNew     = "new"
	GradeGood    = "good"
	GradeUsed    = "used"
	GradeDamaged = "damaged"
)

// StockBucket holds the quantity on hand for one (item, grade) pair.
// A bucket is created lazily the first time a grade is touched for an
// item; Quantity never goes below zero.
type StockBucket struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemCode  uint      `gorm:"not null;uniqueIndex:idx_stock_buckets_item_grade" json:"item_code"`
	Item      Item      `gorm:"foreignKey:ItemCode" json:"-"`
	Grade     string    `gorm:"size:20;not null;uniqueIndex:idx_stock_buckets_item_grade" json:"grade"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
