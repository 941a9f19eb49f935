package models

import "time"

// Media is one image/video attachment stored inline as a base64 row.
// Files are kept one-per-row (and uploaded one-per-request) so a single write
// never exceeds the store's payload ceiling.
type Media struct {
	ID        uint   `gorm:"primaryKey"`
	EntryID   string `gorm:"size:64;index:idx_media_entry_sort,unique;not null"`
	SortOrder int    `gorm:"index:idx_media_entry_sort,unique;not null"` // display order within the entry
	Name      string `gorm:"size:255"`
	Type      string `gorm:"size:64"`  // mime type
	Data      string `gorm:"type:text"` // base64 payload
	CreatedAt time.Time
}
