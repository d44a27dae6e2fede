package main

import (
	"context"

	"PersonaAPI/internal/classifier"
	"PersonaAPI/internal/config"
	"PersonaAPI/internal/db"
	"PersonaAPI/internal/logutil"
	"PersonaAPI/internal/middleware"
	"PersonaAPI/internal/repository"
	"PersonaAPI/internal/services"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logutil.New(cfg.Debug)
	log.Logger = logger
	ctx := logutil.WithLogger(context.Background(), logger)

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal().Err(err).Msg("schema migration failed")
	}

	// A missing artifact is survivable: the app runs with the
	// prediction feature degraded.
	model, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.ModelPath).Msg("model artifact unreadable")
	}
	if model == nil {
		logger.Warn().Str("path", cfg.ModelPath).Msg("model artifact not found, predictions disabled")
	} else {
		logger.Info().Str("path", cfg.ModelPath).Msg("model loaded")
	}

	// ======================
	// REPOSITORIES / SERVICES
	// ======================
	users := repository.NewPostgresUserRepository(pool)
	authSvc := services.NewAuthService(users)
	codec := middleware.NewTokenCodec(cfg.SecretKey)

	// ======================
	// SERVER
	// ======================
	e := newServer(cfg, authSvc, codec, model)
	if err := e.Start(cfg.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
