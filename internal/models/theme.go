package models

import (
	"time"
)

// Theme is a named color scheme. At most one theme per user is active.
type Theme struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Name            string    `gorm:"not null;size:100" json:"name"`
	BackgroundColor string    `gorm:"size:32" json:"background_color"`
	TextColor       string    `gorm:"size:32" json:"text_color"`
	AccentColor     string    `gorm:"size:32" json:"accent_color"`
	CulturalTheme   string    `gorm:"size:50" json:"cultural_theme,omitempty"`
	IsActive        bool      `gorm:"not null;default:false;index" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}
