package models

import "time"

// Session maps an opaque token to a logged-in user. The token (256-bit random
// hex) is the sole capability; expired rows are deleted lazily on next lookup.
type Session struct {
	Token     string    `gorm:"primaryKey;size:64"`
	UserID    uint      `gorm:"index;not null"`
	Username  string    `gorm:"size:64;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
