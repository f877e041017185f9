package models

import (
	"time"
)

type Link struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	URL         string    `gorm:"column:url;not null;type:text" json:"url"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"size:50" json:"type"` // icon hint only, never validated
	Icon        string    `gorm:"size:100" json:"icon,omitempty"`
	Position    int       `gorm:"not null;default:0;index" json:"position"`
	ClickCount  int64     `gorm:"column:click_count;not null;default:0" json:"click_count"`
	CreatedAt   time.Time `json:"created_at"`
}
