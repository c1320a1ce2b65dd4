package jwtPkg

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"HotelAssistant/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const UserLocalsKey = "user"

var (
	ErrEmptyHeader     = errors.New("empty Authorization header")
	ErrInvalidFormat   = errors.New("invalid Authorization format")
	ErrMissingSecret   = errors.New("JWT secret not configured")
	ErrIncompleteClaim = errors.New("token claims are missing required fields")
)

func Sign(data map[string]interface{}, expiredAt time.Duration) (string, int64, error) {
	expiresAt := time.Now().Add(expiredAt).Unix()

	secret := os.Getenv("JWT_ACCESS_TOKEN_SECRET")
	if secret == "" {
		return "", 0, fmt.Errorf("JWT_ACCESS_TOKEN_SECRET not set")
	}

	claims := jwt.MapClaims{}
	claims["exp"] = expiresAt
	claims["authorization"] = true

	for i, v := range data {
		claims[i] = v
	}

	to := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := to.SignedString([]byte(secret))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return "", 0, err
	}

	return accessToken, expiresAt, nil
}

// BearerToken pulls the raw token out of the Authorization header.
func BearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get("Authorization")
	if header == "" {
		return "", ErrEmptyHeader
	}

	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrInvalidFormat
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", ErrInvalidFormat
	}
	return token, nil
}

func VerifyToken(accessToken string, secretEnvKey string) (*jwt.Token, error) {
	secret := os.Getenv(secretEnvKey)
	if secret == "" {
		return nil, ErrMissingSecret
	}

	return jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
}

func VerifyTokenHeader(c *fiber.Ctx, secretEnvKey string) (*jwt.Token, error) {
	accessToken, err := BearerToken(c)
	if err != nil {
		return nil, err
	}
	return VerifyToken(accessToken, secretEnvKey)
}

// UserFromToken reads the login data the auth service puts in its claims.
func UserFromToken(token *jwt.Token) (entity.UserLoginData, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.UserLoginData{}, ErrIncompleteClaim
	}

	id, _ := claims["id"].(string)
	email, _ := claims["email"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return entity.UserLoginData{}, ErrIncompleteClaim
	}

	return entity.UserLoginData{
		ID:       id,
		Email:    email,
		Username: username,
	}, nil
}

func GetUserLoginData(c *fiber.Ctx) (entity.UserLoginData, error) {
	user, ok := c.Locals(UserLocalsKey).(entity.UserLoginData)
	if !ok {
		return entity.UserLoginData{}, fiber.ErrUnauthorized
	}

	return user, nil
}
