package models

import (
	"time"
)

// Click is an append-only event row. Rows are only removed together with
// their link.
type Click struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LinkID     uint      `gorm:"not null;index" json:"link_id"`
	Referrer   string    `gorm:"type:text" json:"referrer"`
	UserAgent  string    `gorm:"type:text" json:"user_agent"`
	IPAddress  string    `gorm:"size:45;index" json:"ip_address"`
	Browser    string    `gorm:"size:100" json:"browser"`
	OS         string    `gorm:"column:os;size:100" json:"os"`
	DeviceType string    `gorm:"size:20" json:"device_type"`
	Country    string    `gorm:"size:100;default:'Unknown'" json:"country"`
	ClickedAt  time.Time `gorm:"not null;index" json:"clicked_at"`
}
