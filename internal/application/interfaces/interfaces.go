package interfaces

import (
	"context"
	"net/http"

	domainbonds "bondregistry/internal/domain/entity/bonds"
	domainusers "bondregistry/internal/domain/entity/users"

	"github.com/google/uuid"
)

type HTTPHandler interface {
	http.Handler
}

// BondService is the bond use-case surface consumed by the HTTP layer.
type BondService interface {
	Create(ctx context.Context, owner uuid.UUID, fields domainbonds.Fields) (*domainbonds.Bond, error)
	Update(ctx context.Context, owner uuid.UUID, id int64, fields domainbonds.Fields) (*domainbonds.Bond, error)
	Get(ctx context.Context, owner uuid.UUID, id int64) (*domainbonds.Bond, error)
	List(ctx context.Context, owner uuid.UUID, legalName *string) ([]domainbonds.Bond, error)
}

type UserService interface {
	SignUp(ctx context.Context, username, password string) (*domainusers.User, string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, key string) (*domainusers.User, error)
}
