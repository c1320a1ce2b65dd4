package handlerUtil

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"HotelAssistant/internal/api/assistant"
	"HotelAssistant/internal/api/hotel"
	"HotelAssistant/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMapsErrors(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	h := New(log)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "missing context", err: fmt.Errorf("load: %w", assistant.ErrContextNotFound), wantCode: 404, wantBody: "SESSION_NOT_FOUND"},
		{name: "store down", err: fmt.Errorf("%w: dial tcp", assistant.ErrContextStoreFailed), wantCode: 503, wantBody: "STORAGE_UNAVAILABLE"},
		{name: "turn log down", err: assistant.ErrTurnLogFailed, wantCode: 503, wantBody: "STORAGE_UNAVAILABLE"},
		{name: "hotel missing", err: hotel.ErrHotelNotFound, wantCode: 404, wantBody: "HOTEL_NOT_FOUND"},
		{name: "coded error", err: response.NewError(409, "conflict"), wantCode: 409, wantBody: "conflict"},
		{name: "unexpected", err: errors.New("boom"), wantCode: 500, wantBody: "trace_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return h.Handle(c, "req-1", tt.err, c.Path(), "test")
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestResolveMatchesHandle(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	h := New(log)

	status, body := h.Resolve("req-1", fmt.Errorf("load: %w", assistant.ErrContextNotFound), "/ws", "test")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "SESSION_NOT_FOUND", body.Code)

	status, body = h.Resolve("req-1", response.NewError(409, "conflict"), "/ws", "test")
	assert.Equal(t, 409, status)
	assert.Empty(t, body.Code)
	assert.Equal(t, "conflict", body.Error)

	status, body = h.Resolve("req-7", errors.New("boom"), "/ws", "test")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "req-7", body.TraceID)

	body = h.ValidationResponse("req-1", errors.New("message is required"), "/ws")
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Contains(t, body.Error, "message is required")
}

func TestHandleUnexpectedUsesRequestIDAsTrace(t *testing.T) {
	h := New(logrus.New())
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return h.Handle(c, "req-42", errors.New("boom"), c.Path(), "test")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"trace_id":"req-42"`)
}
