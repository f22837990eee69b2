package bonds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	domain "bondregistry/internal/domain/entity/bonds"
	"bondregistry/internal/domain/entity/lei"
	interfaces "bondregistry/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrNoResolver = errors.New("legal name resolver is required")

type Service struct {
	repo        interfaces.BondsRepository
	resolver    interfaces.LegalNameResolver
	publisher   interfaces.BondEventPublisher
	logger      logrus.FieldLogger
	uniqueLEI   bool
	ownerScoped bool
	now         func() time.Time
}

type Option func(*Service)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventPublisher announces every successful save.
func WithEventPublisher(publisher interfaces.BondEventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithUniqueLEI rejects a save when another bond already carries the LEI.
func WithUniqueLEI(enabled bool) Option {
	return func(s *Service) {
		s.uniqueLEI = enabled
	}
}

// WithOwnerScoping restricts reads to the caller's own bonds. Enabled by default.
func WithOwnerScoping(enabled bool) Option {
	return func(s *Service) {
		s.ownerScoped = enabled
	}
}

func NewService(repo interfaces.BondsRepository, resolver interfaces.LegalNameResolver, opts ...Option) (*Service, error) {
	if resolver == nil {
		return nil, ErrNoResolver
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Service{
		repo:        repo,
		resolver:    resolver,
		logger:      discard,
		ownerScoped: true,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Create resolves the legal name for fields.LEI and persists a new bond owned
// by owner. A resolution failure is returned unchanged and nothing is written.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, fields domain.Fields) (*domain.Bond, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkLEI(ctx, fields.LEI, 0); err != nil {
		return nil, err
	}

	bond := &domain.Bond{Owner: owner}
	bond.Apply(fields)
	if err := s.enrich(ctx, bond); err != nil {
		return nil, err
	}
	if err := s.insert(ctx, bond); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventCreated, bond)
	return bond, nil
}

// Update replaces the caller-settable fields of an owned bond and resolves
// the legal name again.
func (s *Service) Update(ctx context.Context, owner uuid.UUID, id int64, fields domain.Fields) (*domain.Bond, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	bond, err := s.repo.GetBond(ctx, id)
	if err != nil {
		return nil, err
	}
	if bond.Owner != owner {
		return nil, domain.ErrNotFound
	}
	if err := s.checkLEI(ctx, fields.LEI, bond.ID); err != nil {
		return nil, err
	}

	bond.Apply(fields)
	if err := s.enrich(ctx, bond); err != nil {
		return nil, err
	}
	if err := s.save(ctx, bond); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventUpdated, bond)
	return bond, nil
}

func (s *Service) Get(ctx context.Context, owner uuid.UUID, id int64) (*domain.Bond, error) {
	bond, err := s.repo.GetBond(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.ownerScoped && bond.Owner != owner {
		return nil, domain.ErrNotFound
	}
	return bond, nil
}

// List returns the owner's bonds in insertion order. A non-nil legalName
// keeps only exact, case-sensitive matches.
func (s *Service) List(ctx context.Context, owner uuid.UUID, legalName *string) ([]domain.Bond, error) {
	filter := domain.Filter{LegalName: legalName}
	if s.ownerScoped {
		filter.Owner = &owner
	}
	return s.repo.ListBonds(ctx, filter)
}

func (s *Service) Close() {
	s.repo.Close()
}

func (s *Service) enrich(ctx context.Context, bond *domain.Bond) error {
	name, err := s.resolver.Resolve(ctx, bond.LEI)
	if err != nil {
		if kind, ok := lei.KindOf(err); ok {
			s.logger.WithFields(logrus.Fields{"lei": bond.LEI, "kind": kind.String()}).Warn("bond not saved, legal name unresolved")
		}
		return err
	}
	bond.LegalName = name
	return nil
}

func (s *Service) checkLEI(ctx context.Context, value string, excludeID int64) error {
	if !s.uniqueLEI {
		return nil
	}
	inUse, err := s.repo.LEIInUse(ctx, value, excludeID)
	if err != nil {
		return fmt.Errorf("check lei uniqueness: %w", err)
	}
	if inUse {
		return duplicateLEIError()
	}
	return nil
}

// insert and save repeat the uniqueness check at write time, since another
// save may take the LEI while the legal name is being resolved.
func (s *Service) insert(ctx context.Context, bond *domain.Bond) error {
	var err error
	if s.uniqueLEI {
		err = s.repo.CreateBondUniqueLEI(ctx, bond)
	} else {
		err = s.repo.CreateBond(ctx, bond)
	}
	if errors.Is(err, domain.ErrDuplicateLEI) {
		return duplicateLEIError()
	}
	if err != nil {
		return fmt.Errorf("create bond: %w", err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, bond *domain.Bond) error {
	var err error
	if s.uniqueLEI {
		err = s.repo.UpdateBondUniqueLEI(ctx, bond)
	} else {
		err = s.repo.UpdateBond(ctx, bond)
	}
	if errors.Is(err, domain.ErrDuplicateLEI) {
		return duplicateLEIError()
	}
	if err != nil {
		return fmt.Errorf("update bond %d: %w", bond.ID, err)
	}
	return nil
}

func duplicateLEIError() error {
	return errors.Join(domain.ErrDuplicateLEI, domain.FieldErrors{"lei": {domain.MsgDuplicateLEI}})
}

func (s *Service) publish(ctx context.Context, eventType domain.EventType, bond *domain.Bond) {
	if s.publisher == nil {
		return
	}
	event := domain.Event{Type: eventType, Bond: *bond, OccurredAt: s.now().UTC()}
	if err := s.publisher.PublishBondEvent(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"bond_id": bond.ID,
			"event":   string(eventType),
		}).Warn("failed to publish bond event")
	}
}
