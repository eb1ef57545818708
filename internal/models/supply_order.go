package models

import "time"

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderFulfilled OrderStatus = "fulfilled"
	OrderCancelled OrderStatus = "cancelled"
)

// SupplyOrder is a supplier order for one item. Status transitions are
// monotone: placed -> fulfilled or placed -> cancelled, both terminal.
type SupplyOrder struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	ItemCode  uint        `gorm:"index;not null" json:"item_code"`
	Item      Item        `gorm:"foreignKey:ItemCode" json:"-"`
	Quantity  int         `gorm:"not null" json:"quantity"`
	OrderedAt time.Time   `gorm:"index;not null" json:"ordered_at"`
	Status    OrderStatus `gorm:"size:20;not null;default:'placed'" json:"status"`
	Supplier  string      `gorm:"size:100" json:"supplier,omitempty"`
	Note      string      `gorm:"size:255" json:"note,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
