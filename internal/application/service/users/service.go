package users

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	domain "bondregistry/internal/domain/entity/users"
	interfaces "bondregistry/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const apiKeyBytes = 20

const MaxPasswordBytes = 72

var (
	ErrInvalidUsername = errors.New("username must be 1-150 characters")
	ErrEmptyPassword   = errors.New("password is required")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

type Service struct {
	users      interfaces.UsersRepository
	keys       interfaces.APIKeyStore
	logger     logrus.FieldLogger
	bcryptCost int
}

func NewService(users interfaces.UsersRepository, keys interfaces.APIKeyStore, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		users:      users,
		keys:       keys,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the hashing cost, mainly to keep tests fast.
func (s *Service) WithBcryptCost(cost int) *Service {
	s.bcryptCost = cost
	return s
}

// SignUp registers a user and issues the user's API key. A user is never
// left without a key.
func (s *Service) SignUp(ctx context.Context, username, password string) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > domain.MaxUsernameLength {
		return nil, "", ErrInvalidUsername
	}
	if password == "" {
		return nil, "", ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return nil, "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{ID: uuid.New(), Username: username, PasswordHash: string(hash)}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	key, err := NewAPIKey()
	if err != nil {
		s.rollback(ctx, user.ID)
		return nil, "", err
	}
	if err := s.keys.SaveAPIKey(ctx, key, user.ID); err != nil {
		s.rollback(ctx, user.ID)
		return nil, "", fmt.Errorf("save api key: %w", err)
	}

	s.logger.WithField("user_id", user.ID.String()).Info("user signed up")
	return user, key, nil
}

// Login checks the password and returns the user's API key.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.keys.APIKeyForUser(ctx, user.ID)
}

// Authenticate maps an API key to its owner.
func (s *Service) Authenticate(ctx context.Context, key string) (*domain.User, error) {
	if key == "" {
		return nil, domain.ErrAPIKeyNotFound
	}
	userID, err := s.keys.LookupAPIKey(ctx, key)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrAPIKeyNotFound
	}
	return user, err
}

func (s *Service) rollback(ctx context.Context, id uuid.UUID) {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		s.logger.WithError(err).WithField("user_id", id.String()).Error("failed to remove user without api key")
	}
}

// NewAPIKey returns a random 40 character hex key.
func NewAPIKey() (string, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
