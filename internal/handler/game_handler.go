package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"questloggd/backend/internal/activity"
	"questloggd/backend/internal/catalogue"
	"questloggd/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// GameSummaryResponse is one row of a search result, shaped the way the log
// modal consumes it.
type GameSummaryResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Year  string `json:"year"`
	Image string `json:"image"`
}

func newGameSummaryResponse(record models.GameRecord) GameSummaryResponse {
	return GameSummaryResponse{
		ID:    record.ID,
		Name:  record.Name,
		Year:  record.ReleaseYear,
		Image: record.CoverImage,
	}
}

// ReviewResponse is one review in a game's review thread.
type ReviewResponse struct {
	Username  string    `json:"username"`
	UserPfp   string    `json:"userPfp"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"createdAt"`
}

func newReviewResponse(entry models.LogEntry) ReviewResponse {
	return ReviewResponse{
		Username:  entry.User.Username,
		UserPfp:   entry.User.ProfilePic,
		Rating:    entry.Rating,
		Review:    entry.ReviewText,
		CreatedAt: entry.CreatedAt,
	}
}

// GameDetailResponse is the game detail page payload: cached metadata,
// community average, the caller's own log and the review thread.
type GameDetailResponse struct {
	GameID        uint                              `json:"gameId"`
	GameName      string                            `json:"gameName"`
	Image         string                            `json:"image"`
	Year          string                            `json:"year"`
	Description   string                            `json:"description"`
	AverageRating *float64                          `json:"averageRating"`
	YourLog       *LogEntryResponse                 `json:"yourLog,omitempty"`
	Reviews       PaginatedResponse[ReviewResponse] `json:"reviews"`
}

// endregion

// SearchGames godoc
// @Summary      Search the game catalogue
// @Description  Returns up to 8 games matching the query, served from the local cache when possible.
// @Tags         games
// @Produce      json
// @Param        q query string true "Search term"
// @Success      200 {array} GameSummaryResponse
// @Failure      502 {object} ErrorResponse "External catalogue unavailable"
// @Router       /games/search [get]
func (h *Handler) SearchGames(c *gin.Context) {
	records, err := h.search.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		if errors.Is(err, catalogue.ErrLookupFailed) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Game catalogue is unavailable, try again later"})
			return
		}
		h.logger.Error("game search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search games"})
		return
	}

	response := make([]GameSummaryResponse, 0, len(records))
	for _, record := range records {
		response = append(response, newGameSummaryResponse(record))
	}
	c.JSON(http.StatusOK, response)
}

// GetGameByID godoc
// @Summary      Get a game's detail view
// @Description  Retrieves cached metadata, the community average rating, the caller's own log (when authenticated) and the paginated review thread.
// @Tags         games
// @Produce      json
// @Param        id    path  int true  "Game ID (external catalogue id)"
// @Param        page  query int false "Review thread page" default(1)
// @Param        limit query int false "Reviews per page"   default(10)
// @Success      200 {object} GameDetailResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func (h *Handler) GetGameByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}
	gameID := uint(id)

	record, err := h.metadata.Get(c.Request.Context(), gameID)
	if err != nil {
		h.logger.Error("metadata lookup failed", "gameID", gameID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game"})
		return
	}

	entries, err := h.activity.ListByGame(c.Request.Context(), gameID)
	if err != nil {
		h.logger.Error("listing game log failed", "gameID", gameID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game activity"})
		return
	}

	// A game is known if it is cached or anyone has logged it; log entries
	// may reference games the cache has never seen.
	if record == nil && len(entries) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	detail := GameDetailResponse{GameID: gameID}
	if record != nil {
		detail.GameName = record.Name
		detail.Image = record.CoverImage
		detail.Year = record.ReleaseYear
		detail.Description = record.Description
	} else {
		// Fall back to the most recent log entry for display fields.
		detail.GameName = entries[0].GameName
		detail.Image = entries[0].CoverImage
		detail.Year = entries[0].ReleaseYear
	}

	if avg, ok := activity.AverageRating(entries); ok {
		detail.AverageRating = &avg
	}

	if userID, exists := c.Get("userID"); exists {
		if own := activity.UserLogForGame(entries, userID.(uint)); own != nil {
			resp := newLogEntryResponse(*own)
			detail.YourLog = &resp
		}
	}

	page, limit := pageParams(c, 10)
	reviews := make([]ReviewResponse, 0, len(entries))
	for _, entry := range entries {
		reviews = append(reviews, newReviewResponse(entry))
	}
	detail.Reviews = PaginateSlice(reviews, page, limit)

	c.JSON(http.StatusOK, detail)
}

// GetGameLogs godoc
// @Summary      List all log entries for a game
// @Description  Returns every user's log entries for a game, newest first.
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID (external catalogue id)"
// @Success      200 {array} LogEntryResponse
// @Router       /games/{id}/logs [get]
func (h *Handler) GetGameLogs(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	entries, err := h.activity.ListByGame(c.Request.Context(), uint(id))
	if err != nil {
		h.logger.Error("listing game log failed", "gameID", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game activity"})
		return
	}

	response := make([]LogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, newLogEntryResponse(entry))
	}
	c.JSON(http.StatusOK, response)
}

func pageParams(c *gin.Context, defaultLimit int) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100 // Max limit
	}
	return page, limit
}
