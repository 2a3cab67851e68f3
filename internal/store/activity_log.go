package store

import (
	"context"
	"fmt"

	"questloggd/backend/internal/models"

	"gorm.io/gorm"
)

// GormActivityLog backs ActivityLog with a gorm database. Entry ids come from
// the primary key sequence, so they are monotonic and never reused.
type GormActivityLog struct {
	db *gorm.DB
}

// NewGormActivityLog creates an activity log on top of the given database.
func NewGormActivityLog(db *gorm.DB) *GormActivityLog {
	return &GormActivityLog{db: db}
}

// Append stores a new entry and fills in its assigned id.
func (s *GormActivityLog) Append(ctx context.Context, entry *models.LogEntry) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("appending log entry: %w", err)
	}
	return nil
}

// ListByUser returns every entry a user has logged, newest first.
func (s *GormActivityLog) ListByUser(ctx context.Context, userID uint) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("listing entries for user %d: %w", userID, err)
	}
	return entries, nil
}

// ListByGame returns every entry logged for a game across all users, newest
// first, with the logging user preloaded for the review thread.
func (s *GormActivityLog) ListByGame(ctx context.Context, gameID uint) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("game_id = ?", gameID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("listing entries for game %d: %w", gameID, err)
	}
	return entries, nil
}
