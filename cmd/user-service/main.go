package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/user-microservices/internal/config"
	"github.com/vasiliy-maslov/user-microservices/internal/db"
	"github.com/vasiliy-maslov/user-microservices/internal/greeting"
	userHttp "github.com/vasiliy-maslov/user-microservices/internal/handler/http"
	"github.com/vasiliy-maslov/user-microservices/internal/logger"
	"github.com/vasiliy-maslov/user-microservices/internal/server"
	"github.com/vasiliy-maslov/user-microservices/internal/user"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Setup("user-service", cfg.App.LogLevel, cfg.App.LogFormat)
	log.Info().Msg("Starting user-service...")

	if err := cfg.ValidateForUserService(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if cfg.Postgres.Migrate {
		if err := db.Migrate(cfg.Postgres); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	greetingClient, err := greeting.NewClient(cfg.TestService.URL, cfg.TestService.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create test service client")
	}

	repo, closeDB := openRepository(cfg.Postgres)
	defer closeDB()

	userSvc := user.NewService(repo, greetingClient)

	router := server.NewRouter()
	userHttp.NewUserHandler(userSvc).RegisterRoutes(router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, server.New(cfg.App.Port, router)); err != nil {
		log.Error().Err(err).Msg("HTTP server failed")
		return
	}

	log.Info().Msg("User-service stopped gracefully.")
}

func openRepository(cfg config.PostgresConfig) (user.Repository, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.Driver == config.DriverPq {
		conn, err := db.NewSQLX(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		return user.NewSQLXRepository(conn), func() {
			if err := conn.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close database connection")
			}
		}
	}

	pg, err := db.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	return user.NewRepository(pg.Pool), pg.Close
}
