package users

import (
	"context"
	"errors"
	"sync"
	"time"

	domain "bondregistry/internal/domain/entity/users"

	"github.com/google/uuid"
)

// InMemoryStore implements the users repository and API key store in
// process memory. It backs tests and single-process development runs.
type InMemoryStore struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]domain.User
	byUsername map[string]uuid.UUID
	keys       map[string]uuid.UUID
	userKeys   map[uuid.UUID]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:      make(map[uuid.UUID]domain.User),
		byUsername: make(map[string]uuid.UUID),
		keys:       make(map[string]uuid.UUID),
		userKeys:   make(map[uuid.UUID]string),
	}
}

func (s *InMemoryStore) CreateUser(_ context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[user.Username]; taken {
		return domain.ErrUsernameTaken
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = *user
	s.byUsername[user.Username] = user.ID
	return nil
}

func (s *InMemoryStore) GetUser(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (s *InMemoryStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	id, ok := s.byUsername[username]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return s.GetUser(ctx, id)
}

func (s *InMemoryStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	delete(s.byUsername, user.Username)
	if key, ok := s.userKeys[id]; ok {
		delete(s.keys, key)
		delete(s.userKeys, id)
	}
	return nil
}

func (s *InMemoryStore) SaveAPIKey(_ context.Context, key string, userID uuid.UUID) error {
	if key == "" {
		return errors.New("api key is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if previous, ok := s.userKeys[userID]; ok {
		delete(s.keys, previous)
	}
	s.keys[key] = userID
	s.userKeys[userID] = key
	return nil
}

func (s *InMemoryStore) LookupAPIKey(_ context.Context, key string) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.keys[key]
	if !ok {
		return uuid.Nil, domain.ErrAPIKeyNotFound
	}
	return id, nil
}

func (s *InMemoryStore) APIKeyForUser(_ context.Context, userID uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.userKeys[userID]
	if !ok {
		return "", domain.ErrAPIKeyNotFound
	}
	return key, nil
}
