package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Asha", UserLoginData{Username: "Asha Rao"}.FirstName())
	assert.Equal(t, "Asha", UserLoginData{Username: "  Asha "}.FirstName())
	assert.Empty(t, UserLoginData{}.FirstName())
}
