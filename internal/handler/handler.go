package handler

import (
	"log/slog"

	"questloggd/backend/internal/activity"
	"questloggd/backend/internal/search"
	"questloggd/backend/internal/store"

	"gorm.io/gorm"
)

// Handler provides the HTTP handlers for the API. Services are injected so
// tests can run the handlers over in-memory stores and fake catalogues.
type Handler struct {
	db       *gorm.DB
	search   *search.Cache
	activity *activity.Service
	metadata store.MetadataStore
	logger   *slog.Logger
}

// New creates a handler set over the given services.
func New(db *gorm.DB, searchCache *search.Cache, activitySvc *activity.Service, metadata store.MetadataStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:       db,
		search:   searchCache,
		activity: activitySvc,
		metadata: metadata,
		logger:   logger,
	}
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}
