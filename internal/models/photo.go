package models

import "time"

// ChecklistPhoto is a reference to evidence captured by the photo app.
// The file itself lives in external storage; only metadata is kept here.
type ChecklistPhoto struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	FileName string `gorm:"size:255;not null" json:"file_name"`
	URL      string `gorm:"size:512;not null" json:"url"`
}
