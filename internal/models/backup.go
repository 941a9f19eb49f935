package models

import "time"

// Backup is one encrypted snapshot file of a user's entries and media.
type Backup struct {
	ID        string `gorm:"primaryKey;size:36"` // uuid
	UserID    uint   `gorm:"index;not null"`
	FileName  string `gorm:"size:255;not null"`
	FilePath  string `gorm:"size:512;not null"`
	Size      int64
	CreatedAt time.Time
}
