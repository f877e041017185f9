package models

import (
	"time"
)

// User owns links and themes. The password hash and reset code never leave
// the server.
type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Username        string     `gorm:"uniqueIndex;not null;size:80" json:"username"`
	Email           string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash    string     `gorm:"not null;size:255" json:"-"`
	Bio             string     `gorm:"type:text" json:"bio"`
	ResetOTP        *string    `gorm:"column:reset_otp;size:6" json:"-"`
	ResetOTPExpires *time.Time `gorm:"column:reset_otp_expires" json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
}

// PublicProfile is the user shape returned by the API.
type PublicProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
}

func (u User) Profile() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Bio:      u.Bio,
	}
}
