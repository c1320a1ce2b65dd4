package assistantHandler

import (
	assistantService "HotelAssistant/internal/api/assistant/service"
	"HotelAssistant/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AssistantHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	assistantService assistantService.IAssistantService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as assistantService.IAssistantService,
) *AssistantHandler {
	return &AssistantHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		assistantService: as,
	}
}

func (h *AssistantHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	assistant := srv.Group("/assistant")

	// Anonymous sessions are allowed, a valid token only personalises replies
	assistant.Use(h.middleware.NewOptionalTokenMiddleware)

	assistant.Post("/chat", h.middleware.NewRateLimiter, h.Chat)
	assistant.Post("/reset", h.ResetSession)

	assistant.Get("/context/:session_id", h.GetSession)
	assistant.Get("/suggestions/:session_id", h.GetSuggestions)
	assistant.Get("/history/:session_id", h.GetHistory)
	assistant.Get("/analytics", h.middleware.NewTokenMiddleware, h.GetAnalytics)
	assistant.Get("/pages", h.GetPageMappings)

	assistant.Use("/ws", wsMiddleware)
	assistant.Get("/ws", websocket.New(h.handleWebSocket))
}
