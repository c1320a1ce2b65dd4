package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

const (
	RequestIDKey = "request_id"

	// requestIDHeader is also the fiber locals key the request id middleware uses.
	requestIDHeader = "X-Request-ID"
	unknownRequest  = "unknown"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return unknownRequest
	}
	return requestID
}

// FromFiberCtx starts from the request's user context so values set by earlier
// handlers survive, then attaches the request id.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, ok := c.Locals(requestIDHeader).(string)
	if !ok || requestID == "" {
		requestID = c.Get(requestIDHeader)
	}
	if requestID == "" {
		requestID = unknownRequest
	}

	return WithRequestID(c.UserContext(), requestID)
}
