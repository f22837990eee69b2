package users

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const MaxUsernameLength = 150

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("a user with that username already exists")
	ErrAPIKeyNotFound     = errors.New("api key not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// User owns bonds and authenticates with an API key.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
