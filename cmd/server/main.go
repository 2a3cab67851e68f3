package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"questloggd/backend/internal/activity"
	"questloggd/backend/internal/auth"
	"questloggd/backend/internal/catalogue"
	"questloggd/backend/internal/config"
	"questloggd/backend/internal/database"
	"questloggd/backend/internal/handler"
	"questloggd/backend/internal/search"
	"questloggd/backend/internal/store"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "questloggd/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Questloggd API
// @version         1.0
// @description     This is the API for the Questloggd service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	client, err := catalogue.NewClient(config.AppConfig.RawgAPIKey)
	if err != nil {
		log.Fatalf("Failed to create catalogue client: %v", err)
	}

	logger := slog.Default()
	metadata := store.NewGormMetadataStore(database.DB)
	activityLog := store.NewGormActivityLog(database.DB)

	searchCache := search.NewCache(metadata, client, logger)
	activitySvc := activity.NewService(activityLog, nil)
	h := handler.New(database.DB, searchCache, activitySvc, metadata, logger)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", h.RegisterUser)
			authRoutes.POST("/login", h.LoginUser)
		}

		// Game routes (search and detail work logged out; the detail view
		// only adds "your log" when a token is present)
		gameRoutes := apiV1.Group("/games")
		gameRoutes.Use(auth.OptionalAuthMiddleware())
		{
			gameRoutes.GET("/search", h.SearchGames)
			gameRoutes.GET("/:id", h.GetGameByID)
			gameRoutes.GET("/:id/logs", h.GetGameLogs)
		}

		// User routes
		userRoutes := apiV1.Group("/users")
		{
			userRoutes.GET("/:id/profile", h.GetProfile)
			userRoutes.GET("/:id/collection", h.GetCollection)
		}

		// Log routes (protected)
		logRoutes := apiV1.Group("/logs")
		logRoutes.Use(auth.AuthMiddleware())
		{
			logRoutes.POST("", h.CreateLog)
		}
	}

	fmt.Printf("Server is running on :%s\n", config.AppConfig.Port)
	fmt.Printf("Swagger UI is available at http://localhost:%s/swagger/index.html\n", config.AppConfig.Port)
	log.Fatal(router.Run(":" + config.AppConfig.Port))
}
