// Package activity owns the append-only review log and the views derived
// from it.
package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"questloggd/backend/internal/models"
	"questloggd/backend/internal/store"
)

// ErrValidation means a log entry was rejected before anything was written.
var ErrValidation = errors.New("invalid log entry")

// AppendInput carries the caller-supplied fields of a new log entry. Entry id
// and creation time are assigned by the service.
type AppendInput struct {
	UserID      uint
	GameID      uint
	GameName    string
	Rating      int
	ReviewText  string
	CoverImage  string
	ReleaseYear string
	Genres      []string
	Platforms   []string
	Popularity  float64
}

// Service provides validated writes and reads over the activity log.
type Service struct {
	log store.ActivityLog
	now func() time.Time
}

// NewService creates an activity service. A nil clock defaults to time.Now.
func NewService(log store.ActivityLog, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{log: log, now: now}
}

// Append validates the input and stores a new immutable entry. Logging a game
// the user has already logged creates a fresh entry; history is never
// rewritten.
func (s *Service) Append(ctx context.Context, in AppendInput) (*models.LogEntry, error) {
	if in.UserID == 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if in.GameID == 0 {
		return nil, fmt.Errorf("%w: game id is required", ErrValidation)
	}
	if strings.TrimSpace(in.GameName) == "" {
		return nil, fmt.Errorf("%w: game name is required", ErrValidation)
	}
	if in.Rating < 0 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 0 and 5", ErrValidation)
	}

	entry := &models.LogEntry{
		UserID:      in.UserID,
		GameID:      in.GameID,
		GameName:    strings.TrimSpace(in.GameName),
		Rating:      in.Rating,
		ReviewText:  in.ReviewText,
		CoverImage:  in.CoverImage,
		ReleaseYear: in.ReleaseYear,
		Genres:      in.Genres,
		Platforms:   in.Platforms,
		Popularity:  in.Popularity,
		CreatedAt:   s.now(),
	}
	if err := s.log.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListByUser returns every entry the user has logged.
func (s *Service) ListByUser(ctx context.Context, userID uint) ([]models.LogEntry, error) {
	return s.log.ListByUser(ctx, userID)
}

// ListByGame returns every entry logged for the game, across all users.
func (s *Service) ListByGame(ctx context.Context, gameID uint) ([]models.LogEntry, error) {
	return s.log.ListByGame(ctx, gameID)
}
