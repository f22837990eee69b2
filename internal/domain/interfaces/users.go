package interfaces

import (
	"context"

	domain "bondregistry/internal/domain/entity/users"

	"github.com/google/uuid"
)

type UsersRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// APIKeyStore keeps the one-to-one mapping between users and their API keys.
type APIKeyStore interface {
	SaveAPIKey(ctx context.Context, key string, userID uuid.UUID) error
	LookupAPIKey(ctx context.Context, key string) (uuid.UUID, error)
	APIKeyForUser(ctx context.Context, userID uuid.UUID) (string, error)
}
