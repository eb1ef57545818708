package models

import "time"

// Movement is one issue-and-optional-return cycle of a quantity of an
// item to an employee. A non-nil ReturnedAt is terminal: the record can
// never be returned a second time.
type Movement struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	EmployeeID    uint       `gorm:"index;not null" json:"employee_id"`
	Employee      Employee   `json:"-"`
	ItemCode      uint       `gorm:"index;not null" json:"item_code"`
	Item          Item       `gorm:"foreignKey:ItemCode" json:"-"`
	Quantity      int        `gorm:"not null;default:1" json:"quantity"`
	Reason        string     `gorm:"size:255;not null" json:"reason"`
	IssuedAt      time.Time  `gorm:"index;not null" json:"issued_at"`
	ReturnedAt    *time.Time `gorm:"index" json:"returned_at,omitempty"`
	ReturnedGrade *string    `gorm:"size:20" json:"returned_grade,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Returned reports whether the movement has been closed.
func (m *Movement) Returned() bool {
	return m.ReturnedAt != nil
}
