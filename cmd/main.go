package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"starwars-api/internal/api"
	"starwars-api/internal/auth"
	"starwars-api/internal/config"
	"starwars-api/internal/database"
	"starwars-api/internal/entity"
	"starwars-api/internal/repository"
	"starwars-api/internal/service"
	"starwars-api/migrations"
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBConnectRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := migrations.AutoMigrate(ctx, db, 3); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate tables")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis is unreachable, sessions will fail until it is up")
		}
	}

	var events service.EventPublisher = service.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaWriter.Close()
		events = service.NewKafkaPublisher(kafkaWriter)
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token manager")
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(rdb, cfg.SessionTTL)
	resourceRepos := make([]service.ResourceRepository, 0, len(entity.Kinds))
	favoriteRepos := make([]service.FavoriteRepository, 0, len(entity.Kinds))
	for _, kind := range entity.Kinds {
		resourceRepos = append(resourceRepos, repository.NewResourceRepository(db, kind))
		favoriteRepos = append(favoriteRepos, repository.NewFavoriteRepository(db, kind))
	}

	// Initialize services and handlers
	userService := service.NewUserService(userRepo, sessionRepo, tokens, hasher, events)
	favoriteService := service.NewFavoriteService(userRepo, resourceRepos, favoriteRepos, events)
	handlers := api.Handlers{
		Users:     api.NewUserHandler(userService),
		Favorites: api.NewFavoriteHandler(favoriteService),
	}
	for _, repo := range resourceRepos {
		h := api.NewResourceHandler(service.NewResourceService(repo))
		switch repo.Kind() {
		case entity.KindCharacter:
			handlers.Characters = h
		case entity.KindPlanet:
			handlers.Planets = h
		case entity.KindVehicle:
			handlers.Vehicles = h
		}
	}

	e := api.NewEcho()
	api.RegisterRoutes(e, handlers, api.AuthGuard(userService))

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down cleanly")
	}
}
