package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/user-microservices/internal/config"
	"github.com/vasiliy-maslov/user-microservices/internal/greeting"
	greetingHttp "github.com/vasiliy-maslov/user-microservices/internal/handler/http"
	"github.com/vasiliy-maslov/user-microservices/internal/logger"
	"github.com/vasiliy-maslov/user-microservices/internal/server"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Setup("test-service", cfg.App.LogLevel, cfg.App.LogFormat)
	log.Info().Msg("Test service starting...")

	router := server.NewRouter()
	greetingHttp.NewGreetingHandler(greeting.NewGreeter()).RegisterRoutes(router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, server.New(cfg.TestService.Port, router)); err != nil {
		log.Fatal().Err(err).Msg("HTTP server failed")
	}

	log.Info().Msg("Test service stopped gracefully.")
}
