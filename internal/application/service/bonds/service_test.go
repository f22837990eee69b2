package bonds

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	domain "bondregistry/internal/domain/entity/bonds"
	"bondregistry/internal/domain/entity/lei"
	"bondregistry/internal/domain/interfaces"
	"bondregistry/internal/domain/interfaces/mocks"
	infrabonds "bondregistry/internal/infrastructure/bonds"
	"bondregistry/internal/infrastructure/bonds/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	repo      *mocks.MockBondsRepository
	resolver  *mocks.MockLegalNameResolver
	publisher *mocks.MockBondEventPublisher
	service   *Service
	ctx       context.Context
	owner     uuid.UUID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = mocks.NewMockBondsRepository(s.ctrl)
	s.resolver = mocks.NewMockLegalNameResolver(s.ctrl)
	s.publisher = mocks.NewMockBondEventPublisher(s.ctrl)
	s.ctx = context.Background()
	s.owner = uuid.New()

	var err error
	s.service, err = NewService(s.repo, s.resolver, WithEventPublisher(s.publisher))
	s.Require().NoError(err)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func exampleFields() domain.Fields {
	return domain.Fields{
		ISIN:     "FR0000131104",
		Size:     100000000,
		Currency: "EUR",
		Maturity: time.Date(2025, time.March, 27, 0, 0, 0, 0, time.UTC),
		LEI:      "R0M123",
	}
}

func (s *ServiceSuite) TestCreateStoresResolvedLegalName() {
	gomock.InOrder(
		s.resolver.EXPECT().Resolve(gomock.Any(), "R0M123").Return("BNP PARIBAS", nil),
		s.repo.EXPECT().CreateBond(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, b *domain.Bond) error {
				s.Equal("BNP PARIBAS", b.LegalName)
				s.Equal(s.owner, b.Owner)
				b.ID = 1
				return nil
			}),
		s.publisher.EXPECT().PublishBondEvent(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e domain.Event) error {
				s.Equal(domain.EventCreated, e.Type)
				s.Equal(int64(1), e.Bond.ID)
				return nil
			}),
	)

	bond, err := s.service.Create(s.ctx, s.owner, exampleFields())

	s.Require().NoError(err)
	s.Equal(int64(1), bond.ID)
	s.Equal("BNP PARIBAS", bond.LegalName)
	s.Equal("FR0000131104", bond.ISIN)
}

func (s *ServiceSuite) TestCreateNeverPersistsOnResolutionFailure() {
	for _, kind := range lei.Kinds() {
		s.Run(kind.String(), func() {
			failure := lei.NewResolutionError(kind, "R0M123", 503, nil)
			s.resolver.EXPECT().Resolve(gomock.Any(), "R0M123").Return("", failure)

			bond, err := s.service.Create(s.ctx, s.owner, exampleFields())

			s.Nil(bond)
			s.Same(failure, err)
			s.Equal(lei.DefaultMessages().Text(kind, 503), err.Error())
		})
	}
}

func (s *ServiceSuite) TestCreateEmptyArrayFailsWithNoMatch() {
	s.resolver.EXPECT().Resolve(gomock.Any(), "R0M123").
		Return("", lei.NewResolutionError(lei.KindNoMatch, "R0M123", 0, nil))

	_, err := s.service.Create(s.ctx, s.owner, exampleFields())

	s.ErrorIs(err, lei.ErrNoMatch)
	s.EqualError(err, "LEI lookup server did not find matching record")
}

func (s *ServiceSuite) TestCreateInvalidFieldsSkipsResolution() {
	fields := exampleFields()
	fields.LEI = ""
	fields.Currency = "EURO"

	_, err := s.service.Create(s.ctx, s.owner, fields)

	var fieldErrs domain.FieldErrors
	s.Require().True(errors.As(err, &fieldErrs))
	s.Contains(fieldErrs, "lei")
	s.Contains(fieldErrs, "currency")
}

func (s *ServiceSuite) TestCreateRepositoryErrorIsWrapped() {
	dbErr := errors.New("connection reset")
	s.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return("BNP PARIBAS", nil)
	s.repo.EXPECT().CreateBond(gomock.Any(), gomock.Any()).Return(dbErr)

	_, err := s.service.Create(s.ctx, s.owner, exampleFields())

	s.ErrorIs(err, dbErr)
}

func (s *ServiceSuite) TestCreatePublishFailureDoesNotFailSave() {
	s.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return("BNP PARIBAS", nil)
	s.repo.EXPECT().CreateBond(gomock.Any(), gomock.Any()).Return(nil)
	s.publisher.EXPECT().PublishBondEvent(gomock.Any(), gomock.Any()).Return(errors.New("channel closed"))

	bond, err := s.service.Create(s.ctx, s.owner, exampleFields())

	s.NoError(err)
	s.NotNil(bond)
}

func (s *ServiceSuite) TestUpdateReResolvesAndLatestOutputWins() {
	stored := &domain.Bond{ID: 5, Owner: s.owner, LegalName: "OLD NAME"}
	stored.Apply(exampleFields())

	s.repo.EXPECT().GetBond(gomock.Any(), int64(5)).DoAndReturn(
		func(context.Context, int64) (*domain.Bond, error) {
			copied := *stored
			return &copied, nil
		}).Times(2)
	gomock.InOrder(
		s.resolver.EXPECT().Resolve(gomock.Any(), "R0M123").Return("FIRST NAME", nil),
		s.resolver.EXPECT().Resolve(gomock.Any(), "R0M123").Return("SECOND NAME", nil),
	)
	s.repo.EXPECT().UpdateBond(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, b *domain.Bond) error {
			stored = b
			return nil
		}).Times(2)
	s.publisher.EXPECT().PublishBondEvent(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	first, err := s.service.Update(s.ctx, s.owner, 5, exampleFields())
	s.Require().NoError(err)
	s.Equal("FIRST NAME", first.LegalName)

	second, err := s.service.Update(s.ctx, s.owner, 5, exampleFields())
	s.Require().NoError(err)
	s.Equal("SECOND NAME", second.LegalName)
	s.Equal("SECOND NAME", stored.LegalName)
}

func (s *ServiceSuite) TestUpdateForeignBondIsNotFound() {
	s.repo.EXPECT().GetBond(gomock.Any(), int64(5)).Return(&domain.Bond{ID: 5, Owner: uuid.New()}, nil)

	_, err := s.service.Update(s.ctx, s.owner, 5, exampleFields())

	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *ServiceSuite) TestUpdateResolutionFailureLeavesBondUntouched() {
	s.repo.EXPECT().GetBond(gomock.Any(), int64(5)).Return(&domain.Bond{ID: 5, Owner: s.owner, LEI: "R0M123"}, nil)
	s.resolver.EXPECT().Resolve(gomock.Any(), "R0M123").
		Return("", lei.NewResolutionError(lei.KindServerError, "R0M123", 500, nil))

	_, err := s.service.Update(s.ctx, s.owner, 5, exampleFields())

	s.ErrorIs(err, lei.ErrServerError)
}

func (s *ServiceSuite) TestListIsScopedToOwner() {
	s.repo.EXPECT().ListBonds(gomock.Any(), domain.Filter{Owner: &s.owner}).
		Return([]domain.Bond{{ID: 1, Owner: s.owner}}, nil)

	got, err := s.service.List(s.ctx, s.owner, nil)

	s.Require().NoError(err)
	s.Len(got, 1)
}

func (s *ServiceSuite) TestListPassesExactLegalName() {
	name := "BNP"
	s.repo.EXPECT().ListBonds(gomock.Any(), domain.Filter{Owner: &s.owner, LegalName: &name}).Return([]domain.Bond{}, nil)

	got, err := s.service.List(s.ctx, s.owner, &name)

	s.Require().NoError(err)
	s.Empty(got)
}

func (s *ServiceSuite) TestGetForeignBondIsNotFound() {
	s.repo.EXPECT().GetBond(gomock.Any(), int64(9)).Return(&domain.Bond{ID: 9, Owner: uuid.New()}, nil)

	_, err := s.service.Get(s.ctx, s.owner, 9)

	s.ErrorIs(err, domain.ErrNotFound)
}

func TestNewServiceRequiresResolver(t *testing.T) {
	_, err := NewService(nil, nil)
	assert.ErrorIs(t, err, ErrNoResolver)
}

func TestServiceWithoutOwnerScoping(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockBondsRepository(ctrl)
	resolver := mocks.NewMockLegalNameResolver(ctrl)
	svc, err := NewService(repo, resolver, WithOwnerScoping(false))
	require.NoError(t, err)

	repo.EXPECT().ListBonds(gomock.Any(), domain.Filter{}).Return([]domain.Bond{{ID: 1}, {ID: 2}}, nil)
	repo.EXPECT().GetBond(gomock.Any(), int64(2)).Return(&domain.Bond{ID: 2, Owner: uuid.New()}, nil)

	all, err := svc.List(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bond, err := svc.Get(context.Background(), uuid.New(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), bond.ID)
}

func TestServiceUniqueLEI(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockBondsRepository(ctrl)
	resolver := mocks.NewMockLegalNameResolver(ctrl)
	svc, err := NewService(repo, resolver, WithUniqueLEI(true))
	require.NoError(t, err)
	owner := uuid.New()

	t.Run("duplicate rejected before resolution", func(t *testing.T) {
		repo.EXPECT().LEIInUse(gomock.Any(), "R0M123", int64(0)).Return(true, nil)

		_, err := svc.Create(context.Background(), owner, exampleFields())

		assert.ErrorIs(t, err, domain.ErrDuplicateLEI)
		var fieldErrs domain.FieldErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Equal(t, []string{domain.MsgDuplicateLEI}, fieldErrs["lei"])
	})

	t.Run("update excludes the bond itself", func(t *testing.T) {
		repo.EXPECT().GetBond(gomock.Any(), int64(3)).Return(&domain.Bond{ID: 3, Owner: owner}, nil)
		repo.EXPECT().LEIInUse(gomock.Any(), "R0M123", int64(3)).Return(false, nil)
		resolver.EXPECT().Resolve(gomock.Any(), "R0M123").Return("BNP PARIBAS", nil)
		repo.EXPECT().UpdateBondUniqueLEI(gomock.Any(), gomock.Any()).Return(nil)

		bond, err := svc.Update(context.Background(), owner, 3, exampleFields())

		require.NoError(t, err)
		assert.Equal(t, "BNP PARIBAS", bond.LegalName)
	})

	t.Run("duplicate taken while resolving", func(t *testing.T) {
		repo.EXPECT().LEIInUse(gomock.Any(), "R0M123", int64(0)).Return(false, nil)
		resolver.EXPECT().Resolve(gomock.Any(), "R0M123").Return("BNP PARIBAS", nil)
		repo.EXPECT().CreateBondUniqueLEI(gomock.Any(), gomock.Any()).Return(domain.ErrDuplicateLEI)

		_, err := svc.Create(context.Background(), owner, exampleFields())

		assert.ErrorIs(t, err, domain.ErrDuplicateLEI)
		var fieldErrs domain.FieldErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Equal(t, []string{domain.MsgDuplicateLEI}, fieldErrs["lei"])
	})
}

func newSQLiteBondsRepository(t *testing.T) *infrabonds.Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bonds.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.BondModel{}))

	repo := infrabonds.NewRepositoryWithDB(db)
	t.Cleanup(repo.Close)
	return repo
}

func TestServiceUniqueLEIConcurrentCreates(t *testing.T) {
	repo := newSQLiteBondsRepository(t)
	slowResolver := interfaces.LegalNameResolverFunc(func(ctx context.Context, _ string) (string, error) {
		time.Sleep(100 * time.Millisecond)
		return "BNP PARIBAS", nil
	})
	svc, err := NewService(repo, slowResolver, WithUniqueLEI(true))
	require.NoError(t, err)

	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), uuid.New(), exampleFields())
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicateLEI)
	}
	assert.Equal(t, 1, created)

	stored, err := repo.ListBonds(context.Background(), domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestServiceStoresLongLegalNameVerbatim(t *testing.T) {
	repo := newSQLiteBondsRepository(t)
	name := strings.Repeat("SOCIÉTÉ GÉNÉRALE ", 30)
	resolver := interfaces.LegalNameResolverFunc(func(context.Context, string) (string, error) {
		return name, nil
	})
	svc, err := NewService(repo, resolver)
	require.NoError(t, err)
	owner := uuid.New()

	bond, err := svc.Create(context.Background(), owner, exampleFields())
	require.NoError(t, err)
	assert.Equal(t, name, bond.LegalName)

	stored, err := svc.Get(context.Background(), owner, bond.ID)
	require.NoError(t, err)
	assert.Equal(t, name, stored.LegalName)

	matches, err := svc.List(context.Background(), owner, &name)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, bond.ID, matches[0].ID)
}
