package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/whisper-api/internal/config"
	"github.com/yourusername/whisper-api/internal/handler"
	"github.com/yourusername/whisper-api/internal/middleware"
	pgRepo "github.com/yourusername/whisper-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/whisper-api/internal/repository/redis"
	"github.com/yourusername/whisper-api/internal/service"
	"github.com/yourusername/whisper-api/pkg/auth"
	"github.com/yourusername/whisper-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	userRepo := pgRepo.NewUserRepo(db)
	messageRepo := pgRepo.NewMessageRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	isProduction := gin.Mode() == gin.ReleaseMode
	jwtService.SetProductionMode(isProduction)

	var emailService service.EmailService
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("Email delivery disabled, verification codes will only be logged")
		emailService = &service.NoopEmailService{}
	}

	authService, err := service.NewAuthService(userRepo, cacheRepo, emailService, jwtService, time.Hour, cfg.JWT.CodePepper)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}

	messageService, err := service.NewMessageService(userRepo, messageRepo)
	if err != nil {
		log.Printf("Failed to initialize MessageService: %v", err)
		os.Exit(1)
	}

	var suggestionProvider service.SuggestionProvider
	if cfg.Suggestions.GeminiAPIKey != "" {
		suggestionProvider, err = service.NewGeminiProvider(cfg.Suggestions.GeminiAPIKey, cfg.Suggestions.Model)
		if err != nil {
			log.Printf("Failed to initialize suggestion provider: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("No suggestion API key configured, serving canned suggestions")
		suggestionProvider = service.StaticProvider{}
	}

	suggestionService, err := service.NewSuggestionService(
		suggestionProvider,
		cacheRepo,
		time.Duration(cfg.Suggestions.CacheTTLSec)*time.Second,
	)
	if err != nil {
		log.Printf("Failed to initialize SuggestionService: %v", err)
		os.Exit(1)
	}

	authHandler := handler.NewAuthHandler(authService, jwtService)
	messageHandler := handler.NewMessageHandler(messageService)
	suggestionHandler := handler.NewSuggestionHandler(suggestionService)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	router := gin.Default()

	// Trusted proxy setup keeps c.ClientIP() honest. In production nothing is
	// trusted unless a load balancer IP is added here.
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/sign-up", authHandler.SignUp)
			authGroup.POST("/verify", authHandler.VerifyCode)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/check-username", authHandler.CheckUsername)

			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.POST("/logout", authHandler.Logout)
				authedAuth.GET("/me", authHandler.Me)
			}
		}

		// Anonymous intake and suggestions are public by design.
		api.POST("/messages/send", messageHandler.Send)
		api.GET("/suggest-messages", suggestionHandler.Suggest)

		acceptGroup := api.Group("/accept-messages")
		acceptGroup.Use(authMiddleware.RequireAuth())
		{
			acceptGroup.GET("", messageHandler.GetAcceptance)
			acceptGroup.POST("", messageHandler.SetAcceptance)
		}

		messages := api.Group("/messages")
		messages.Use(authMiddleware.RequireAuth())
		{
			messages.GET("", messageHandler.List)
			messages.GET("/export", messageHandler.Export)

			messageWithID := messages.Group("/:id")
			messageWithID.Use(middleware.ExtractUUIDParam("id", middleware.ContextMessageID))
			{
				messageWithID.DELETE("", messageHandler.Delete)
			}
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
