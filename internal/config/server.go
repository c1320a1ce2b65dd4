package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"HotelAssistant/database/postgres"
	assistantHandler "HotelAssistant/internal/api/assistant/handler"
	assistantRepository "HotelAssistant/internal/api/assistant/repository"
	assistantService "HotelAssistant/internal/api/assistant/service"
	hotelHandler "HotelAssistant/internal/api/hotel/handler"
	hotelRepository "HotelAssistant/internal/api/hotel/repository"
	hotelService "HotelAssistant/internal/api/hotel/service"
	"HotelAssistant/internal/middleware"
	"HotelAssistant/pkg/knowledge"
	"HotelAssistant/pkg/metrics"
	"HotelAssistant/pkg/redis"
	"HotelAssistant/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type ServerOption func(*Server) error

type Server struct {
	engine          *fiber.App
	db              *sqlx.DB
	log             *logrus.Logger
	middleware      middleware.Middleware
	validator       *validator.Validate
	utils           utils.IUtils
	handlers        []handler
	redisServer     redis.IRedis
	knowledgeBase   knowledge.IKnowledgeBase
	metrics         metrics.IMetrics
	assistantConfig *assistantService.AssistantConfig
	catalogRefresh  time.Duration

	cancel context.CancelFunc
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.metrics == nil {
		server.metrics = metrics.Noop()
	}
	if server.assistantConfig == nil {
		server.assistantConfig = assistantService.DefaultConfig()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithKnowledgeBase() ServerOption {
	return func(s *Server) error {
		kb, err := knowledge.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to load knowledge base: %v", err)
			}
			return fmt.Errorf("failed to load knowledge base: %w", err)
		}
		s.knowledgeBase = kb
		return nil
	}
}

func WithMetrics(m metrics.IMetrics) ServerOption {
	return func(s *Server) error {
		s.metrics = m
		return nil
	}
}

// WithAssistantConfig reads the session and catalog timings from the environment.
func WithAssistantConfig() ServerOption {
	return func(s *Server) error {
		cfg := assistantService.DefaultConfig()
		if ttl := envMinutes("ASSISTANT_CONTEXT_TTL_MINUTES"); ttl > 0 {
			cfg.ContextTTL = ttl
		}
		s.assistantConfig = cfg

		s.catalogRefresh = 10 * time.Minute
		if every := envMinutes("CATALOG_REFRESH_MINUTES"); every > 0 {
			s.catalogRefresh = every
		}
		return nil
	}
}

func (s *Server) RegisterHandler() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// Hotel catalog
	hotelRepo := hotelRepository.New(s.db, s.log)
	hotelServices := hotelService.NewHotelService(s.log, hotelRepo, s.metrics)
	hotelServices.Start(ctx, s.catalogRefresh)
	hotelHandlers := hotelHandler.New(s.log, s.validator, s.middleware, hotelServices)

	// Assistant
	assistantRepo := assistantRepository.New(s.db, s.redisServer, s.log, s.assistantConfig.ContextTTL)
	assistantServices := assistantService.NewAssistantService(
		s.log, assistantRepo, hotelServices, s.knowledgeBase, s.utils, s.metrics, s.assistantConfig,
	)
	assistantHandlers := assistantHandler.New(s.log, s.validator, s.middleware, assistantServices)

	s.setupHealthCheck()
	s.engine.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	s.handlers = append(s.handlers, hotelHandlers, assistantHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops the catalog refresher and drains open connections.
func (s *Server) Shutdown() error {
	if s.cancel != nil {
		s.cancel()
	}

	err := s.engine.ShutdownWithTimeout(10 * time.Second)

	if s.db != nil {
		if dbErr := s.db.Close(); dbErr != nil && err == nil {
			err = dbErr
		}
	}
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}

func envMinutes(key string) time.Duration {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Minute
}
