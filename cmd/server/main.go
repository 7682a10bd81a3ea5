package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/hikarukin/taskboard-api/internal/config"
	"github.com/hikarukin/taskboard-api/internal/database"
	"github.com/hikarukin/taskboard-api/internal/handlers"
	"github.com/hikarukin/taskboard-api/internal/middleware"
	"github.com/hikarukin/taskboard-api/internal/realtime"
	"github.com/hikarukin/taskboard-api/internal/repository"
	"github.com/hikarukin/taskboard-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup cookie-backed session middleware
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("board_session", store))

	// Start the realtime hub
	hub := realtime.NewHub()
	go hub.Run()

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	cardRepo := repository.NewCardRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	activityService := services.NewActivityService(activityRepo)
	authService := services.NewAuthService(userRepo)
	boardService := services.NewBoardService(db, boardRepo, userRepo)
	columnService := services.NewColumnService(db, columnRepo, boardRepo)
	cardService := services.NewCardService(db, cardRepo, columnRepo, boardRepo, activityService)
	notificationService := services.NewNotificationService(db, notificationRepo, boardRepo, userRepo, hub)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	boardHandler := handlers.NewBoardHandler(boardService)
	columnHandler := handlers.NewColumnHandler(columnService)
	cardHandler := handlers.NewCardHandler(cardService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	activityHandler := handlers.NewActivityHandler(activityService)
	realtimeHandler := handlers.NewRealtimeHandler(hub)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Board API is running",
		})
	})

	// WebSocket endpoint for notification delivery
	r.GET("/ws", middleware.RequireAuth(), realtimeHandler.Connect)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.PATCH("/me", middleware.RequireAuth(), authHandler.UpdateProfile)
		}

		// Board routes (protected)
		boards := api.Group("/boards")
		boards.Use(middleware.RequireAuth())
		{
			boards.POST("", boardHandler.CreateBoard)
			boards.GET("", boardHandler.ListBoards)

			// Join requests come from non-members, so no access middleware
			boards.POST("/:boardId/join-requests", notificationHandler.RequestToJoin)

			board := boards.Group("/:boardId")
			board.Use(middleware.RequireBoardAccess())
			{
				board.GET("", boardHandler.GetBoard)
				board.PATCH("", boardHandler.UpdateBoard)
				board.PATCH("/closed", boardHandler.SetBoardClosed)
				board.DELETE("", middleware.RequireBoardOwner(), boardHandler.DeleteBoard)
				board.POST("/duplicate", boardHandler.DuplicateBoard)
				board.PUT("/column-order", columnHandler.ReplaceColumnOrder)
				board.POST("/columns", columnHandler.CreateColumn)

				board.POST("/invitations", notificationHandler.InviteToBoard)
				board.POST("/members", middleware.RequireBoardOwner(), boardHandler.AddMember)
				board.DELETE("/members/:userId", middleware.RequireBoardOwner(), boardHandler.RemoveMember)
				board.PATCH("/members/:userId/owner", middleware.RequireBoardOwner(), boardHandler.SetOwner)

				board.POST("/labels", boardHandler.CreateLabel)
				board.PATCH("/labels/:labelId", boardHandler.UpdateLabel)
				board.DELETE("/labels/:labelId", boardHandler.DeleteLabel)

				board.GET("/activities", activityHandler.ListBoardActivities)
				board.GET("/cards/:cardId/activities", activityHandler.ListCardActivities)
			}
		}

		// Column routes (protected)
		columns := api.Group("/columns")
		columns.Use(middleware.RequireAuth())
		{
			columns.PATCH("/:columnId", columnHandler.RenameColumn)
			columns.PATCH("/:columnId/closed", columnHandler.SetColumnClosed)
			columns.DELETE("/:columnId", columnHandler.DeleteColumn)
			columns.PUT("/:columnId/card-order", columnHandler.ReplaceCardOrder)
			columns.POST("/:columnId/move", columnHandler.MoveColumn)
			columns.POST("/:columnId/copy", columnHandler.CopyColumn)
		}

		// Card routes (protected)
		cards := api.Group("/cards")
		cards.Use(middleware.RequireAuth())
		{
			cards.POST("", cardHandler.CreateCard)
			cards.GET("/:cardId", cardHandler.GetCard)
			cards.PATCH("/:cardId", cardHandler.UpdateCard)
			cards.DELETE("/:cardId", cardHandler.DeleteCard)
			cards.POST("/:cardId/move", cardHandler.MoveCard)
			cards.POST("/:cardId/copy", cardHandler.CopyCard)
			cards.POST("/:cardId/actions", cardHandler.PatchCard)
			cards.POST("/:cardId/comments", cardHandler.AddComment)
			cards.PATCH("/:cardId/comments/:commentId", cardHandler.EditComment)
			cards.DELETE("/:cardId/comments/:commentId", cardHandler.DeleteComment)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/:notificationId/respond", notificationHandler.Respond)
			notifications.PATCH("/:notificationId/read", notificationHandler.MarkRead)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
