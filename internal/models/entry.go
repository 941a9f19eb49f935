package models

import "time"

// Entry is a single diary entry. The ID is generated by the client when the
// entry is first written, so media uploads can reference it right away.
type Entry struct {
	ID      string `gorm:"primaryKey;size:64"`
	UserID  uint   `gorm:"index;not null"`          // owner, immutable after creation
	Date    string `gorm:"size:10;index;not null"`  // YYYY-MM-DD
	Title   string `gorm:"size:255;not null"`
	Content string `gorm:"type:text;not null"`
	Mood    string `gorm:"size:16"`  // emoji token picked in the UI
	Tags    string `gorm:"size:255"` // comma-joined free text tags

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}
