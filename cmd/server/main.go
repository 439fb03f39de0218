package main

import (
	"log"
	"os"

	"senlin/internal/db"
	"senlin/internal/handlers"
	"senlin/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("senlin_session", store))

	// Middleware
	r.Use(middleware.LoadUser())

	// Handlers
	authHandler := handlers.NewAuthHandler()
	submissionHandler := handlers.NewSubmissionHandler()
	voteHandler := handlers.NewVoteHandler()

	// Public Routes
	r.GET("/s", submissionHandler.List) // 默认 hot
	r.GET("/s/:sort", submissionHandler.List)
	r.GET("/p/:sid", submissionHandler.Detail)

	r.POST("/signup", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/submit", submissionHandler.Create)
		authorized.POST("/p/:sid/comment", submissionHandler.CreateComment)
		authorized.DELETE("/p/:sid", submissionHandler.Delete)

		authorized.POST("/vote/:type/:id", voteHandler.Cast)
		authorized.GET("/vote/:type/:id", voteHandler.Choice)
	}

	// Start Server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
