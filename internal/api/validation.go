package api

import (
	"fmt"
	"strings"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// ValidateCredentials checks registration input and returns the trimmed
// username.
func ValidateCredentials(req *CredentialsRequest) (string, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < minUsernameLen {
		return "", fmt.Errorf("username must be at least %d characters", minUsernameLen)
	}
	if len(req.Password) < minPasswordLen {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	return username, nil
}
