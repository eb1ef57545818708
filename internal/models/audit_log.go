package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditLog is an append-only trail of administrative writes. Stock
// quantities themselves are reconstructable from movements and orders;
// this covers the records that are not.
type AuditLog struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	EmployeeID  uint        `gorm:"index;not null" json:"employee_id"`
	Actor       string      `gorm:"size:100;not null" json:"actor"`
	EntityType  string      `gorm:"size:50;index;not null" json:"entity_type"`
	EntityID    uint        `gorm:"index;not null" json:"entity_id"`
	Action      AuditAction `gorm:"size:20;not null" json:"action"`
	Description string      `gorm:"size:255" json:"description"`
	BeforeData  string      `gorm:"type:text" json:"before_data"`
	AfterData   string      `gorm:"type:text" json:"after_data"`
	CreatedAt   time.Time   `json:"created_at"`
}
