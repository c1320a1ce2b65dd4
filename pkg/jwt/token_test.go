package jwtPkg

import (
	"testing"
	"time"

	"HotelAssistant/internal/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "JWT_ACCESS_TOKEN_SECRET"

func TestSignAndVerify(t *testing.T) {
	t.Setenv(testSecretKey, "s3cret")

	token, exp, err := Sign(map[string]interface{}{
		"id":       "u1",
		"email":    "asha@example.com",
		"username": "Asha",
	}, time.Hour)
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	parsed, err := VerifyToken(token, testSecretKey)
	require.NoError(t, err)

	user, err := UserFromToken(parsed)
	require.NoError(t, err)
	assert.Equal(t, entity.UserLoginData{ID: "u1", Email: "asha@example.com", Username: "Asha"}, user)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Setenv(testSecretKey, "one")
	token, _, err := Sign(map[string]interface{}{"id": "u1", "username": "A"}, time.Hour)
	require.NoError(t, err)

	t.Setenv(testSecretKey, "two")
	_, err = VerifyToken(token, testSecretKey)
	assert.Error(t, err)

	t.Setenv(testSecretKey, "")
	_, err = VerifyToken(token, testSecretKey)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestUserFromTokenNeedsIDAndUsername(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1"})

	_, err := UserFromToken(token)
	assert.ErrorIs(t, err, ErrIncompleteClaim)
}
