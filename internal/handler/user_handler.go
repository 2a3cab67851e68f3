package handler

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"questloggd/backend/internal/activity"
	"questloggd/backend/internal/models"
	"questloggd/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Username string `json:"username" binding:"required" example:"testuser"`
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// ProfileResponse is a user's profile page: identity fields plus the three
// views derived from their game log.
type ProfileResponse struct {
	ID             uint               `json:"id"`
	Username       string             `json:"username"`
	ProfilePic     string             `json:"profilePic"`
	Bio            string             `json:"bio"`
	FavouriteGames []LogEntryResponse `json:"favouriteGames"`
	RecentlyPlayed []LogEntryResponse `json:"recentlyPlayed"`
	RecentReviews  []LogEntryResponse `json:"recentReviews"`
}

// CollectionResponse is a user's full deduplicated game collection.
type CollectionResponse struct {
	Username string             `json:"username"`
	Games    []LogEntryResponse `json:"games"`
}

// endregion

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingUser models.User
	if err := h.db.Where("username = ? OR email = ?", input.Username, input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "userId": user.ID})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates by username or email and returns a token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("username = ? OR email = ?", input.Login, input.Login).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "userId": user.ID})
}

// endregion

// region --- Profile Handlers ---

// GetProfile godoc
// @Summary      Get a user's profile
// @Description  Returns the user's identity fields and their activity views (favourites, recently played, recent reviews), recomputed from the log on every request.
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} ProfileResponse
// @Failure      404 {object} ErrorResponse "User not found"
// @Router       /users/{id}/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	entries, err := h.activity.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("listing user log failed", "userID", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activity"})
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		ID:             user.ID,
		Username:       user.Username,
		ProfilePic:     user.ProfilePic,
		Bio:            user.Bio,
		FavouriteGames: toLogEntryResponses(activity.Favourites(entries, activity.DefaultFavouritesLimit)),
		RecentlyPlayed: toLogEntryResponses(activity.RecentlyPlayed(entries, activity.DefaultRecentlyPlayedLimit)),
		RecentReviews:  toLogEntryResponses(activity.RecentReviews(entries, activity.DefaultRecentReviewsLimit)),
	})
}

// GetCollection godoc
// @Summary      Get a user's game collection
// @Description  Returns every game the user has logged, deduplicated to the most recent entry per game, with optional filters and sorting.
// @Tags         users
// @Produce      json
// @Param        id       path  int    true  "User ID"
// @Param        q        query string false "Filter by game name substring"
// @Param        genre    query string false "Filter by genre"
// @Param        year     query string false "Filter by release year"
// @Param        platform query string false "Filter by platform"
// @Param        sort     query string false "Sort order: az or popularity (default: recency)"
// @Success      200 {object} CollectionResponse
// @Failure      404 {object} ErrorResponse "User not found"
// @Router       /users/{id}/collection [get]
func (h *Handler) GetCollection(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	entries, err := h.activity.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("listing user log failed", "userID", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load collection"})
		return
	}

	// The collection is the whole deduplicated history, not just the
	// profile carousel, so no limit applies.
	games := activity.RecentlyPlayed(entries, -1)
	games = filterCollection(games, c.Query("q"), c.Query("genre"), c.Query("year"), c.Query("platform"))

	switch c.Query("sort") {
	case "az":
		sort.Slice(games, func(i, j int) bool {
			return strings.ToLower(games[i].GameName) < strings.ToLower(games[j].GameName)
		})
	case "popularity":
		sort.Slice(games, func(i, j int) bool {
			return games[i].Popularity > games[j].Popularity
		})
	}

	c.JSON(http.StatusOK, CollectionResponse{
		Username: user.Username,
		Games:    toLogEntryResponses(games),
	})
}

// endregion

func filterCollection(games []models.LogEntry, nameQuery, genre, year, platform string) []models.LogEntry {
	nameQuery = strings.ToLower(strings.TrimSpace(nameQuery))

	filtered := make([]models.LogEntry, 0, len(games))
	for _, g := range games {
		if nameQuery != "" && !strings.Contains(strings.ToLower(g.GameName), nameQuery) {
			continue
		}
		if genre != "" && !containsString(g.Genres, genre) {
			continue
		}
		if year != "" && g.ReleaseYear != year {
			continue
		}
		if platform != "" && !containsString(g.Platforms, platform) {
			continue
		}
		filtered = append(filtered, g)
	}
	return filtered
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func toLogEntryResponses(entries []models.LogEntry) []LogEntryResponse {
	response := make([]LogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, newLogEntryResponse(entry))
	}
	return response
}
