package main

import (
	"os"
	"os/signal"
	"syscall"

	"HotelAssistant/internal/config"
	"HotelAssistant/pkg/log"
	"HotelAssistant/pkg/metrics"
	"HotelAssistant/pkg/redis"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// the environment may already be provided by the container
		log.Warn(log.Fields{"error": err.Error()}, "No .env file loaded")
	}
	logger := log.NewLogger()

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	redisServer := redis.New()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithMiddleware(),
		config.WithUtils(),
		config.WithKnowledgeBase(),
		config.WithMetrics(metrics.New()),
		config.WithAssistantConfig(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
