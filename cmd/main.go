package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"betleague/internal/auth"
	"betleague/internal/config"
	"betleague/internal/database"
	"betleague/internal/handlers"
	"betleague/internal/jobs"
	"betleague/internal/odds"
	"betleague/internal/paypal"
	"betleague/internal/services"
	"betleague/internal/sportsdata"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Odds pipeline
	apiClient := sportsdata.NewClient(cfg.SportsAPI.BaseURL, cfg.SportsAPI.APIKey)
	oddsStore := odds.NewStore(db)

	// Initialize services
	settingsService := services.NewSettingsService(db, cfg.App.DefaultCutoffMinutes)
	authService := services.NewAuthService(db)
	betService := services.NewBetService(db, settingsService)
	blockService := services.NewBlockService(db, oddsStore, settingsService)
	leagueService := services.NewLeagueService(db)
	refreshService := services.NewOddsRefreshService(apiClient, oddsStore, settingsService, cfg.SportsAPI)

	premiumPrice, err := decimal.NewFromString(cfg.PayPal.PremiumPrice)
	if err != nil {
		log.Fatalf("Invalid premium price %q: %v", cfg.PayPal.PremiumPrice, err)
	}
	paypalClient := paypal.NewClient(cfg.PayPal.BaseURL, cfg.PayPal.ClientID, cfg.PayPal.Secret)
	paymentService := services.NewPaymentService(db, paypalClient, premiumPrice, cfg.PayPal.Currency)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, authService)
	betHandler := handlers.NewBetHandler(betService)
	oddsHandler := handlers.NewOddsHandler(oddsStore)
	blockHandler := handlers.NewBlockHandler(blockService)
	leagueHandler := handlers.NewLeagueHandler(db, leagueService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	adminHandler := handlers.NewAdminHandler(db, settingsService, leagueService, betService, authService)

	// Start the odds refresh scheduler
	refreshJob := jobs.NewOddsRefreshJob(refreshService, cfg.SportsAPI)
	if err := refreshJob.Start(); err != nil {
		log.Fatalf("Failed to start odds refresh job: %v", err)
	}
	defer refreshJob.Stop()

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Public odds routes
	router.GET("/api/odds/:group", oddsHandler.GetSnapshot)
	router.GET("/api/odds-indicator", oddsHandler.GetIndicator)

	// PayPal webhook (authenticated by PayPal, not by user token)
	router.POST("/api/payments/webhook", paymentHandler.Webhook)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// Bet endpoints
		api.POST("/bets", betHandler.PlaceBet)
		api.POST("/bets/combo", betHandler.PlaceComboBet)
		api.GET("/bets", betHandler.GetMyBets)
		api.POST("/bets/:id/cancel", betHandler.CancelBet)

		// Match block endpoints
		api.POST("/blocks", blockHandler.CreateBlock)
		api.GET("/blocks", blockHandler.GetMyBlocks)

		// League endpoints
		api.GET("/leagues/:id", leagueHandler.GetLeague)
		api.GET("/leagues/:id/standings", leagueHandler.GetStandings)
		api.GET("/leagues/:id/news", leagueHandler.GetNews)
		api.GET("/me/weekly-history", leagueHandler.GetWeeklyHistory)

		// Payment endpoints
		api.POST("/payments/verify-discount", paymentHandler.VerifyDiscount)
		api.POST("/payments/orders", paymentHandler.CreateOrder)
		api.POST("/payments/orders/:id/capture", paymentHandler.CaptureOrder)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.AdminMiddleware())
	{
		admin.GET("/settings", adminHandler.GetSettings)
		admin.PUT("/settings", adminHandler.UpdateSettings)

		// League management
		admin.POST("/leagues", adminHandler.CreateLeague)
		admin.POST("/leagues/:id/advance-week", adminHandler.AdvanceWeek)

		// Profile management
		admin.POST("/profiles", adminHandler.CreateProfile)
		admin.PUT("/profiles/:id/budget", adminHandler.SetProfileBudget)
		admin.POST("/profiles/:id/recalc-points", adminHandler.RecalcTotalPoints)

		// Settlement
		admin.POST("/results", adminHandler.RecordResult)
		admin.PUT("/bets/:id/status", adminHandler.UpdateBetStatus)

		// Content and promotions
		admin.POST("/news", adminHandler.CreateNews)
		admin.POST("/discount-codes", adminHandler.CreateDiscountCode)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
