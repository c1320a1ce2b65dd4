package handlerUtil

import (
	"errors"

	"HotelAssistant/internal/api/assistant"
	"HotelAssistant/internal/api/hotel"
	"HotelAssistant/pkg/log"
	"HotelAssistant/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	status, body := h.Resolve(requestID, err, path, operation)
	return c.Status(status).JSON(body)
}

// Resolve logs err and maps it to a status and response body. The
// WebSocket handler uses it directly since it has no fiber.Ctx per message.
func (h *ErrorHandler) Resolve(requestID string, err error, path string, operation string) (int, ErrorResponse) {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	// Assistant domain errors
	if errors.Is(err, assistant.ErrContextNotFound) {
		h.logger.WithFields(fields).Warn("Conversation context not found")
		return fiber.StatusNotFound, ErrorResponse{
			Error: "Conversation not found or expired",
			Code:  "SESSION_NOT_FOUND",
		}
	}

	if errors.Is(err, assistant.ErrContextStoreFailed) || errors.Is(err, assistant.ErrTurnLogFailed) {
		h.logger.WithFields(fields).Error("Assistant storage unavailable")
		return fiber.StatusServiceUnavailable, ErrorResponse{
			Error: "Assistant storage is temporarily unavailable",
			Code:  "STORAGE_UNAVAILABLE",
		}
	}

	// Hotel domain errors
	if errors.Is(err, hotel.ErrHotelNotFound) {
		h.logger.WithFields(fields).Warn("Hotel not found")
		return fiber.StatusNotFound, ErrorResponse{
			Error: "Hotel not found",
			Code:  "HOTEL_NOT_FOUND",
		}
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return respErr.Code, ErrorResponse{Error: err.Error()}
	}

	traceID := log.ErrorWithTraceID(fields, "Unexpected error")

	return fiber.StatusInternalServerError, ErrorResponse{
		Error:   "An unexpected error occurred",
		TraceID: traceID,
	}
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	return c.Status(fiber.StatusBadRequest).JSON(h.ValidationResponse(requestID, err, path))
}

func (h *ErrorHandler) ValidationResponse(requestID string, err error, path string) ErrorResponse {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	}
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error: message,
		Code:  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
