package handler

import (
	"errors"
	"net/http"
	"time"

	"questloggd/backend/internal/activity"
	"questloggd/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// LogInput defines the structure for logging a game.
type LogInput struct {
	GameID     uint     `json:"gameId" binding:"required"`
	GameName   string   `json:"gameName" binding:"required"`
	Rating     int      `json:"rating"`
	Review     string   `json:"review"`
	Image      string   `json:"image"`
	Year       string   `json:"year"`
	Genres     []string `json:"genre"`
	Platforms  []string `json:"platforms"`
	Popularity float64  `json:"popularity"`
}

// LogEntryResponse is one entry of a user's game log.
type LogEntryResponse struct {
	EntryID    uint      `json:"entryId"`
	GameID     uint      `json:"gameId"`
	GameName   string    `json:"gameName"`
	Rating     int       `json:"rating"`
	Review     string    `json:"review"`
	Image      string    `json:"image"`
	Year       string    `json:"year"`
	Genres     []string  `json:"genre"`
	Platforms  []string  `json:"platforms"`
	Popularity float64   `json:"popularity"`
	CreatedAt  time.Time `json:"createdAt"`
}

func newLogEntryResponse(entry models.LogEntry) LogEntryResponse {
	return LogEntryResponse{
		EntryID:    entry.ID,
		GameID:     entry.GameID,
		GameName:   entry.GameName,
		Rating:     entry.Rating,
		Review:     entry.ReviewText,
		Image:      entry.CoverImage,
		Year:       entry.ReleaseYear,
		Genres:     entry.Genres,
		Platforms:  entry.Platforms,
		Popularity: entry.Popularity,
		CreatedAt:  entry.CreatedAt,
	}
}

// endregion

// CreateLog godoc
// @Summary      Log a game
// @Description  Appends a review/rating entry to the authenticated user's log. Logging the same game again creates a new entry.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body LogInput true "Log entry"
// @Success      201 {object} LogEntryResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /logs [post]
func (h *Handler) CreateLog(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input LogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.activity.Append(c.Request.Context(), activity.AppendInput{
		UserID:      userID.(uint),
		GameID:      input.GameID,
		GameName:    input.GameName,
		Rating:      input.Rating,
		ReviewText:  input.Review,
		CoverImage:  input.Image,
		ReleaseYear: input.Year,
		Genres:      input.Genres,
		Platforms:   input.Platforms,
		Popularity:  input.Popularity,
	})
	if err != nil {
		if errors.Is(err, activity.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("appending log entry failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save log entry"})
		return
	}

	c.JSON(http.StatusCreated, newLogEntryResponse(*entry))
}
