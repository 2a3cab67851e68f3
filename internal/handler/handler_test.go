package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"questloggd/backend/internal/activity"
	"questloggd/backend/internal/catalogue"
	"questloggd/backend/internal/config"
	"questloggd/backend/internal/models"
	"questloggd/backend/internal/search"
	"questloggd/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubCatalogue struct {
	games []catalogue.Game
	err   error
}

func (s *stubCatalogue) Search(context.Context, string, int) ([]catalogue.Game, error) {
	return s.games, s.err
}

// asUser substitutes for the auth middleware in tests.
func asUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func newTestRouter(t *testing.T, cat *stubCatalogue) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.GameRecord{}, &models.LogEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	metadata := store.NewGormMetadataStore(db)
	activitySvc := activity.NewService(store.NewGormActivityLog(db), nil)
	h := New(db, search.NewCache(metadata, cat, nil), activitySvc, metadata, nil)

	router := gin.New()
	router.POST("/auth/register", h.RegisterUser)
	router.POST("/auth/login", h.LoginUser)
	router.GET("/games/search", h.SearchGames)
	router.GET("/games/:id", h.GetGameByID)
	router.GET("/games/:id/logs", h.GetGameLogs)
	router.GET("/users/:id/profile", h.GetProfile)
	router.GET("/users/:id/collection", h.GetCollection)
	router.POST("/logs", asUser(1), h.CreateLog)
	return router, db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, router *gin.Engine, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("unmarshal %s: %v", path, err)
		}
	}
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	router, _ := newTestRouter(t, &stubCatalogue{})

	w := postJSON(t, router, "/auth/register", gin.H{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(t, router, "/auth/login", gin.H{"login": "ada", "password": "password123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(t, router, "/auth/login", gin.H{"login": "ada", "password": "wrong-password"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", w.Code)
	}
}

func TestCreateLogRejectsMissingFields(t *testing.T) {
	router, db := newTestRouter(t, &stubCatalogue{})
	createUser(t, db, "ada")

	w := postJSON(t, router, "/logs", gin.H{"gameId": 7})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing gameName, got %d", w.Code)
	}

	// The rejected append must not have written anything.
	var profile ProfileResponse
	if w := getJSON(t, router, "/users/1/profile", &profile); w.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", w.Code)
	}
	if len(profile.RecentlyPlayed) != 0 {
		t.Fatalf("expected empty log after rejected append, got %d entries", len(profile.RecentlyPlayed))
	}
}

func TestProfileAggregatesLog(t *testing.T) {
	router, db := newTestRouter(t, &stubCatalogue{})
	createUser(t, db, "ada")

	logs := []gin.H{
		{"gameId": 1, "gameName": "Outer Wilds", "rating": 5, "review": "stellar"},
		{"gameId": 1, "gameName": "Outer Wilds", "rating": 2},
		{"gameId": 2, "gameName": "Hades", "rating": 4},
	}
	for _, l := range logs {
		if w := postJSON(t, router, "/logs", l); w.Code != http.StatusCreated {
			t.Fatalf("log append: expected 201, got %d: %s", w.Code, w.Body.String())
		}
	}

	var profile ProfileResponse
	if w := getJSON(t, router, "/users/1/profile", &profile); w.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", w.Code)
	}

	if len(profile.FavouriteGames) != 3 {
		t.Fatalf("expected 3 favourites, got %d", len(profile.FavouriteGames))
	}
	if profile.FavouriteGames[0].Rating != 5 || profile.FavouriteGames[1].Rating != 4 || profile.FavouriteGames[2].Rating != 2 {
		t.Fatalf("favourites not sorted by rating: %+v", profile.FavouriteGames)
	}

	if len(profile.RecentlyPlayed) != 2 {
		t.Fatalf("expected 2 deduplicated games, got %d", len(profile.RecentlyPlayed))
	}
	if profile.RecentlyPlayed[0].GameID != 2 || profile.RecentlyPlayed[1].GameID != 1 {
		t.Fatalf("expected recently played [2 1], got %+v", profile.RecentlyPlayed)
	}

	if len(profile.RecentReviews) != 1 || profile.RecentReviews[0].Review != "stellar" {
		t.Fatalf("expected the single written review, got %+v", profile.RecentReviews)
	}
}

func TestGameDetailComputesAverageAndOwnLog(t *testing.T) {
	_, db := newTestRouter(t, &stubCatalogue{})
	createUser(t, db, "ada")
	createUser(t, db, "kay")

	entries := []models.LogEntry{
		{UserID: 1, GameID: 7, GameName: "Hades", Rating: 5, ReviewText: "good", CreatedAt: time.Now().Add(-time.Hour)},
		{UserID: 2, GameID: 7, GameName: "Hades", Rating: 2, CreatedAt: time.Now()},
	}
	for i := range entries {
		if err := db.Create(&entries[i]).Error; err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}

	detailRouter := gin.New()
	metadata := store.NewGormMetadataStore(db)
	activitySvc := activity.NewService(store.NewGormActivityLog(db), nil)
	h := New(db, search.NewCache(metadata, &stubCatalogue{}, nil), activitySvc, metadata, nil)
	detailRouter.GET("/games/:id", asUser(1), h.GetGameByID)

	var detail GameDetailResponse
	req := httptest.NewRequest(http.MethodGet, "/games/7", nil)
	w := httptest.NewRecorder()
	detailRouter.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("detail: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if detail.GameName != "Hades" {
		t.Fatalf("expected name from log entries, got %q", detail.GameName)
	}
	if detail.AverageRating == nil || *detail.AverageRating != 3.5 {
		t.Fatalf("expected average 3.5, got %v", detail.AverageRating)
	}
	if detail.YourLog == nil || detail.YourLog.Rating != 5 {
		t.Fatalf("expected caller's own log with rating 5, got %+v", detail.YourLog)
	}
	if len(detail.Reviews.Data) != 2 {
		t.Fatalf("expected 2 reviews in thread, got %d", len(detail.Reviews.Data))
	}
}

func TestGameDetailUnknownGame(t *testing.T) {
	router, _ := newTestRouter(t, &stubCatalogue{})

	if w := getJSON(t, router, "/games/999", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown game, got %d", w.Code)
	}
}

func TestSearchEndpointMapsCatalogueFailure(t *testing.T) {
	router, _ := newTestRouter(t, &stubCatalogue{err: catalogue.ErrLookupFailed})

	if w := getJSON(t, router, "/games/search?q=zelda", nil); w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 when the catalogue is down, got %d", w.Code)
	}
}

func TestCollectionFiltersAndSorts(t *testing.T) {
	router, db := newTestRouter(t, &stubCatalogue{})
	createUser(t, db, "ada")

	logs := []gin.H{
		{"gameId": 1, "gameName": "Bastion", "year": "2011", "genre": []string{"Action"}, "popularity": 70.0},
		{"gameId": 2, "gameName": "Transistor", "year": "2014", "genre": []string{"Action"}, "popularity": 80.0},
		{"gameId": 3, "gameName": "Pyre", "year": "2017", "genre": []string{"Sports"}, "popularity": 60.0},
	}
	for _, l := range logs {
		if w := postJSON(t, router, "/logs", l); w.Code != http.StatusCreated {
			t.Fatalf("log append: expected 201, got %d", w.Code)
		}
	}

	var collection CollectionResponse
	if w := getJSON(t, router, "/users/1/collection?genre=Action&sort=az", &collection); w.Code != http.StatusOK {
		t.Fatalf("collection: expected 200, got %d", w.Code)
	}
	if len(collection.Games) != 2 {
		t.Fatalf("expected 2 action games, got %d", len(collection.Games))
	}
	if collection.Games[0].GameName != "Bastion" || collection.Games[1].GameName != "Transistor" {
		t.Fatalf("expected alphabetical order, got %+v", collection.Games)
	}

	if w := getJSON(t, router, "/users/1/collection?sort=popularity", &collection); w.Code != http.StatusOK {
		t.Fatalf("collection: expected 200, got %d", w.Code)
	}
	if collection.Games[0].GameName != "Transistor" {
		t.Fatalf("expected most popular first, got %q", collection.Games[0].GameName)
	}
}
