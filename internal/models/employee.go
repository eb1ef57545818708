package models

import "time"

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// roleLevel orders roles so "at least manager" checks stay simple.
var roleLevel = map[Role]int{
	RoleUser:    1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// AtLeast reports whether r grants the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return roleLevel[r] >= roleLevel[min]
}

// Employee is both a person workwear is issued to and a login account.
type Employee struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;not null;unique" json:"email"`
	Phone        string    `gorm:"size:30" json:"phone,omitempty"`
	Position     string    `gorm:"size:100" json:"position,omitempty"`
	Role         Role      `gorm:"size:20;not null;default:'user'" json:"role"`
	Username     string    `gorm:"size:50;not null;unique" json:"username"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
