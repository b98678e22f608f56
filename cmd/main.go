package main

import (
	"fmt"
	"os"

	"github.com/serenity-app/serenity-backend/internal/db"
	"github.com/serenity-app/serenity-backend/internal/handlers"
	"github.com/serenity-app/serenity-backend/internal/jobs"
	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/middleware"
	"github.com/serenity-app/serenity-backend/internal/repos"
	"github.com/serenity-app/serenity-backend/internal/server"
	"github.com/serenity-app/serenity-backend/internal/services"
	"github.com/serenity-app/serenity-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	sessionRepo := repos.NewSessionRepo(thePG, log)
	sessionInputRepo := repos.NewSessionInputRepo(thePG, log)
	sessionScriptRepo := repos.NewSessionScriptRepo(thePG, log)
	sessionFeedbackRepo := repos.NewSessionFeedbackRepo(thePG, log)
	audioStemRepo := repos.NewAudioStemRepo(thePG, log)
	promptTemplateRepo := repos.NewPromptTemplateRepo(thePG, log)
	analyticsEventRepo := repos.NewAnalyticsEventRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService, audio disabled", "error", err)
	}
	aiClient, err := services.NewAnthropicClient(log)
	if err != nil {
		log.Error("Could not init AnthropicClient", "error", err)
		os.Exit(1)
	}
	speech := services.NewDeepgramSynthesizer(log)

	safetyScreener := services.NewSafetyScreener(log, aiClient)
	templateService := services.NewPromptTemplateService(log, promptTemplateRepo)
	scriptGenerator := services.NewScriptGenerator(log, aiClient)

	var audioPipeline services.AudioPipeline
	ttsModel := ""
	if speech != nil && bucketService != nil {
		mixer := services.NewFFmpegMixer(log)
		audioPipeline = services.NewAudioPipeline(log, speech, bucketService, mixer)
		ttsModel = speech.DefaultModel()
	} else {
		log.Warn("Speech or storage unconfigured, sessions will be text-only")
	}

	orchestrator := services.NewGenerationOrchestrator(
		log,
		sessionRepo,
		sessionInputRepo,
		sessionScriptRepo,
		audioStemRepo,
		safetyScreener,
		templateService,
		scriptGenerator,
		aiClient.Model(),
		audioPipeline,
		ttsModel,
	)

	runner := jobs.NewRunner(log)
	defer runner.Close()

	sessionService := services.NewSessionService(
		log,
		sessionRepo,
		sessionInputRepo,
		sessionScriptRepo,
		sessionFeedbackRepo,
		userRepo,
		bucketService,
		orchestrator,
		runner,
	)
	userService := services.NewUserService(log, userRepo)
	analyticsService := services.NewAnalyticsService(log, analyticsEventRepo)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log)
	redisClient := middleware.NewRedisClient(log)
	rateLimit := middleware.NewRateLimitMiddleware(log, redisClient)

	// Handlers
	log.Info("Setting up Handlers from main...")
	sessionHandler := handlers.NewSessionHandler(log, sessionService, analyticsService)
	userHandler := handlers.NewUserHandler(log, userService)
	analyticsHandler := handlers.NewAnalyticsHandler(log, analyticsService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:   authMiddleware,
		RateLimit:        rateLimit,
		SessionHandler:   sessionHandler,
		UserHandler:      userHandler,
		AnalyticsHandler: analyticsHandler,
		AllowedOrigins:   utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log),
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
