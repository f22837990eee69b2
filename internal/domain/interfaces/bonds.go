//go:generate mockgen -source=bonds.go -destination=mocks/bonds_mocks.go -package=mocks

package interfaces

import (
	"context"

	domain "bondregistry/internal/domain/entity/bonds"
)

type BondsRepository interface {
	CreateBond(ctx context.Context, bond *domain.Bond) error
	UpdateBond(ctx context.Context, bond *domain.Bond) error
	// CreateBondUniqueLEI and UpdateBondUniqueLEI check and write atomically,
	// returning bonds.ErrDuplicateLEI when another bond carries the LEI.
	CreateBondUniqueLEI(ctx context.Context, bond *domain.Bond) error
	UpdateBondUniqueLEI(ctx context.Context, bond *domain.Bond) error
	GetBond(ctx context.Context, id int64) (*domain.Bond, error)
	ListBonds(ctx context.Context, filter domain.Filter) ([]domain.Bond, error)
	LEIInUse(ctx context.Context, lei string, excludeID int64) (bool, error)
	Close()
}

// LegalNameResolver maps an LEI to the registered legal entity name.
// Failures are *lei.ResolutionError values.
type LegalNameResolver interface {
	Resolve(ctx context.Context, lei string) (string, error)
}

// LegalNameResolverFunc adapts a function to LegalNameResolver.
type LegalNameResolverFunc func(ctx context.Context, lei string) (string, error)

func (f LegalNameResolverFunc) Resolve(ctx context.Context, lei string) (string, error) {
	return f(ctx, lei)
}

type BondEventPublisher interface {
	PublishBondEvent(ctx context.Context, event domain.Event) error
}
