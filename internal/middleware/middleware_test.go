package middleware

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"HotelAssistant/internal/entity"
	jwtPkg "HotelAssistant/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMiddleware(t *testing.T) Middleware {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return New(log)
}

func TestRequestIDMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(NewRequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(RequestIDKey).(string))
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDKey, "abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Header.Get(RequestIDKey))

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(RequestIDKey), 26)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDKey, strings.Repeat("x", 100))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(RequestIDKey), 26)
}

func TestRateLimiter(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_SECOND", "0.001")
	t.Setenv("RATE_LIMIT_BURST", "2")
	m := newTestMiddleware(t)

	app := fiber.New()
	app.Get("/", m.NewRateLimiter, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	var codes []int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func userEndpoint(c *fiber.Ctx) error {
	user, err := jwtPkg.GetUserLoginData(c)
	if err != nil {
		return c.SendString("anonymous")
	}
	return c.SendString(user.Username)
}

func signedToken(t *testing.T) string {
	t.Helper()
	token, _, err := jwtPkg.Sign(map[string]interface{}{
		"id":       "u1",
		"email":    "asha@example.com",
		"username": "Asha",
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func callWithAuth(t *testing.T, app *fiber.App, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body := new(bytes.Buffer)
	_, _ = body.ReadFrom(resp.Body)
	return resp.StatusCode, body.String()
}

func TestOptionalTokenMiddleware(t *testing.T) {
	t.Setenv(AccessTokenSecret, "s3cret")
	m := newTestMiddleware(t)

	app := fiber.New()
	app.Get("/", m.NewOptionalTokenMiddleware, userEndpoint)

	code, body := callWithAuth(t, app, "")
	assert.Equal(t, 200, code)
	assert.Equal(t, "anonymous", body)

	code, body = callWithAuth(t, app, "Bearer "+signedToken(t))
	assert.Equal(t, 200, code)
	assert.Equal(t, "Asha", body)

	code, body = callWithAuth(t, app, "Bearer not-a-token")
	assert.Equal(t, 200, code)
	assert.Equal(t, "anonymous", body)
}

func TestTokenMiddleware(t *testing.T) {
	t.Setenv(AccessTokenSecret, "s3cret")
	m := newTestMiddleware(t)

	app := fiber.New()
	app.Get("/", m.NewTokenMiddleware, userEndpoint)

	code, _ := callWithAuth(t, app, "")
	assert.Equal(t, 401, code)

	code, _ = callWithAuth(t, app, "Basic abc")
	assert.Equal(t, 401, code)

	code, body := callWithAuth(t, app, "Bearer "+signedToken(t))
	assert.Equal(t, 200, code)
	assert.Equal(t, "Asha", body)
}

func TestGetUserLoginDataRoundTrip(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals(jwtPkg.UserLocalsKey, entity.UserLoginData{ID: "u9", Username: "Ravi"})
		return c.Next()
	}, userEndpoint)

	_, body := callWithAuth(t, app, "")
	assert.Equal(t, "Ravi", body)
}

func TestSanitizeRequestBody(t *testing.T) {
	got := sanitizeRequestBody([]byte(`{"message":"` + strings.Repeat("a", 150) + `","token":"abc"}`))
	assert.Contains(t, got, `"token":"[SECRET]"`)
	assert.Contains(t, got, strings.Repeat("a", maxLoggedMessage)+"...")
	assert.NotContains(t, got, strings.Repeat("a", maxLoggedMessage+1))

	assert.Equal(t, "[non-JSON body]", sanitizeRequestBody([]byte("plain")))
}

func TestRateLimiterSweepsIdleVisitors(t *testing.T) {
	r := newRateLimiter(1, 1)
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	first := r.GetLimiterFrom("10.0.0.1", start)
	assert.Same(t, first, r.GetLimiterFrom("10.0.0.1", start.Add(time.Minute)))

	r.GetLimiterFrom("10.0.0.2", start.Add(30*time.Minute))
	assert.Len(t, r.visitors, 1)
	assert.NotSame(t, first, r.GetLimiterFrom("10.0.0.1", start.Add(31*time.Minute)))
}
