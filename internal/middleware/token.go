package middleware

import (
	"HotelAssistant/internal/entity"
	jwtPkg "HotelAssistant/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
)

func (m *middleware) authenticate(ctx *fiber.Ctx) (entity.UserLoginData, error) {
	userToken, err := jwtPkg.VerifyTokenHeader(ctx, AccessTokenSecret)
	if err != nil {
		return entity.UserLoginData{}, err
	}
	return jwtPkg.UserFromToken(userToken)
}

func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	user, err := m.authenticate(ctx)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"path":       ctx.Path(),
			"error":      err.Error(),
		}).Warn("Token verification failed")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	ctx.Locals(jwtPkg.UserLocalsKey, user)
	return ctx.Next()
}

// NewOptionalTokenMiddleware attaches the user when a valid token is sent and
// lets anonymous requests through. A bad token is treated as no token.
func (m *middleware) NewOptionalTokenMiddleware(ctx *fiber.Ctx) error {
	if ctx.Get(fiber.HeaderAuthorization) == "" {
		return ctx.Next()
	}

	user, err := m.authenticate(ctx)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"path":       ctx.Path(),
			"error":      err.Error(),
		}).Debug("Ignoring invalid access token")
		return ctx.Next()
	}

	ctx.Locals(jwtPkg.UserLocalsKey, user)
	return ctx.Next()
}
