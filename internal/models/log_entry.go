package models

import (
	"time"

	"gorm.io/datatypes"
)

// LogEntry records one review/rating action. Entries are append-only: logging
// the same game again creates a new entry rather than updating the old one,
// so the full history stays available to the aggregation views.
type LogEntry struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"not null;index"`
	GameID      uint   `gorm:"not null;index"`
	GameName    string `gorm:"size:255;not null"`
	Rating      int    `gorm:"not null;default:0"` // 0 means unrated
	ReviewText  string
	CoverImage  string `gorm:"size:512"`
	ReleaseYear string `gorm:"size:10"`
	Genres      datatypes.JSONSlice[string]
	Platforms   datatypes.JSONSlice[string]
	Popularity  float64
	CreatedAt   time.Time

	User User `gorm:"foreignKey:UserID"`
}
