package assistant

import "HotelAssistant/pkg/response"

var (
	ErrContextNotFound    = response.NewError(404, "conversation context not found")
	ErrSessionRequired    = response.NewError(400, "session id is required")
	ErrEmptyMessage       = response.NewError(400, "message must not be empty")
	ErrContextStoreFailed = response.NewError(503, "conversation context store unavailable")
	ErrTurnLogFailed      = response.NewError(503, "conversation history unavailable")
)
