package models

import (
	"time"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Action    string    `gorm:"size:50;not null" json:"action"` // e.g. "LOGIN", "CREATE_LINK"
	EntityID  string    `gorm:"size:50" json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	Timestamp time.Time `json:"timestamp"`
}

// All lists every model managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{&User{}, &Link{}, &Theme{}, &Click{}, &AuditLog{}}
}
