package store

import (
	"context"

	"questloggd/backend/internal/models"
)

// MetadataStore is the persistence port for cached catalogue games. A missing
// record is an absent result, not an error.
type MetadataStore interface {
	Get(ctx context.Context, id uint) (*models.GameRecord, error)
	FindByName(ctx context.Context, term string, limit int) ([]models.GameRecord, error)
	UpsertMany(ctx context.Context, records []models.GameRecord) error
}

// ActivityLog is the persistence port for the append-only review log. Entries
// are only ever added; there is no update or delete.
type ActivityLog interface {
	Append(ctx context.Context, entry *models.LogEntry) error
	ListByUser(ctx context.Context, userID uint) ([]models.LogEntry, error)
	ListByGame(ctx context.Context, gameID uint) ([]models.LogEntry, error)
}
