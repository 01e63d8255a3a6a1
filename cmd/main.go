package main

import (
	"os"
	"strings"

	"project_zapflow/internal/config"
	"project_zapflow/internal/infrastructure"
	"project_zapflow/internal/interfaces/http"
	"project_zapflow/internal/repository"
	"project_zapflow/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file (optional outside local dev)
	godotenv.Load()

	cfg := config.Load()
	setupLogger(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	// Connect to PostgreSQL
	pgClient, err := infrastructure.NewPostgresClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	// Initialize Repositories
	userRepo := repository.NewUserRepository(pgClient.Pool)
	contactRepo := repository.NewContactRepository(pgClient.Pool)
	messageRepo := repository.NewMessageRepository(pgClient.Pool)
	activityRepo := repository.NewActivityRepository(pgClient.Pool)
	settingsRepo := repository.NewSettingsRepository(pgClient.Pool)
	usageRepo := repository.NewUsageRepository(pgClient.Pool)

	// External collaborators
	gateway := infrastructure.NewUazapiClient(cfg.UazapiURL, cfg.UazapiToken)
	engine := infrastructure.NewN8NClient(cfg.N8NWebhookURL)

	// Usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, cfg.JWTSecret)
	pipeline := usecases.NewRelayPipeline(userRepo, contactRepo, messageRepo, activityRepo, settingsRepo, usageRepo, engine, gateway)
	dashboardUsecase := usecases.NewDashboardUsecase(contactRepo, messageRepo, activityRepo, settingsRepo, usageRepo, gateway)

	authMiddleware := http.NewMiddleware(cfg.JWTSecret)
	floodLimiter := infrastructure.NewFloodLimiter(20, 40)

	// Setup HTTP server
	r := gin.Default()
	http.SetupRoutes(r, pipeline, authUsecase, dashboardUsecase, floodLimiter, authMiddleware)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("HTTP server failed")
	}
}

func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
