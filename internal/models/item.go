package models

import "time"

// Item is one distinct garment definition in the catalog. Code is the
// article number assigned at registration; it is the primary key and is
// never recycled. The (type, color, size) tuple is unique.
type Item struct {
	Code      uint      `gorm:"primaryKey" json:"code"`
	Type      string    `gorm:"size:100;not null;uniqueIndex:idx_items_type_color_size" json:"type"`
	Color     string    `gorm:"size:50;not null;uniqueIndex:idx_items_type_color_size" json:"color"`
	Size      string    `gorm:"size:20;not null;uniqueIndex:idx_items_type_color_size" json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
