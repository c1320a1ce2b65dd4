package entity

import "strings"

// UserLoginData is the identity carried in an access token.
type UserLoginData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// FirstName is the part of the username used to address the user.
func (u UserLoginData) FirstName() string {
	fields := strings.Fields(u.Username)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
