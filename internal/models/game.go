package models

import "time"

// GameRecord is a locally cached copy of a catalogue game. The primary key is
// the external catalogue's id, not a generated one, so the same game fetched
// through different searches collapses to a single row. Rows are written once
// and left unchanged, except for enrichment fields (Description) filled in
// later.
type GameRecord struct {
	ID          uint   `gorm:"primaryKey;autoIncrement:false"`
	Name        string `gorm:"size:255;not null;index"`
	ReleaseYear string `gorm:"size:10"`
	CoverImage  string `gorm:"size:512"`
	Description string
	CreatedAt   time.Time
}
