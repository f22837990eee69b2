package bonds

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "bondregistry/internal/domain/entity/bonds"
	"bondregistry/internal/infrastructure/bonds/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Repository struct {
	db       *gorm.DB
	leiLocks *keyedMutex
}

// NewRepository opens a Postgres-backed repository. The schema is owned by
// the migration package.
func NewRepository(dsn string, log *logrus.Logger) (*Repository, error) {
	gormLogger := logger.Discard
	if log != nil {
		gormLogger = logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open bonds db: %w", err)
	}
	return NewRepositoryWithDB(db), nil
}

func NewRepositoryWithDB(db *gorm.DB) *Repository {
	return &Repository{db: db, leiLocks: newKeyedMutex()}
}

func (r *Repository) Close() {
	if r == nil || r.db == nil {
		return
	}
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (r *Repository) CreateBond(ctx context.Context, bond *domain.Bond) error {
	if bond == nil {
		return domain.ErrNilBond
	}
	now := time.Now().UTC()
	if bond.CreatedAt.IsZero() {
		bond.CreatedAt = now
	}
	bond.UpdatedAt = now

	model := models.FromDomain(bond)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	bond.ID = model.ID
	return nil
}

func (r *Repository) UpdateBond(ctx context.Context, bond *domain.Bond) error {
	if bond == nil {
		return domain.ErrNilBond
	}
	if bond.ID == 0 {
		return errors.New("bond id is required")
	}
	bond.UpdatedAt = time.Now().UTC()

	model := models.FromDomain(bond)
	res := r.db.WithContext(ctx).
		Model(&models.BondModel{}).
		Where("id = ?", bond.ID).
		Select("isin", "size", "currency", "maturity", "lei", "legal_name", "updated_at").
		Updates(&model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) GetBond(ctx context.Context, id int64) (*domain.Bond, error) {
	var model models.BondModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	bond := model.ToDomain()
	return &bond, nil
}

// ListBonds returns matching bonds in insertion order.
func (r *Repository) ListBonds(ctx context.Context, filter domain.Filter) ([]domain.Bond, error) {
	query := r.db.WithContext(ctx).Model(&models.BondModel{})
	if filter.Owner != nil {
		query = query.Where("owner_id = ?", *filter.Owner)
	}
	if filter.LegalName != nil {
		query = query.Where("legal_name = ?", *filter.LegalName)
	}

	var rows []models.BondModel
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Bond, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToDomain())
	}
	return result, nil
}

// LEIInUse reports whether another bond already carries lei.
func (r *Repository) LEIInUse(ctx context.Context, lei string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BondModel{}).
		Where("lei = ? AND id <> ?", lei, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateBondUniqueLEI inserts bond unless another bond already carries its
// LEI, returning domain.ErrDuplicateLEI in that case.
func (r *Repository) CreateBondUniqueLEI(ctx context.Context, bond *domain.Bond) error {
	if bond == nil {
		return domain.ErrNilBond
	}
	return r.withLEILock(ctx, bond.LEI, 0, func(tx *Repository) error {
		return tx.CreateBond(ctx, bond)
	})
}

// UpdateBondUniqueLEI is UpdateBond guarded like CreateBondUniqueLEI.
func (r *Repository) UpdateBondUniqueLEI(ctx context.Context, bond *domain.Bond) error {
	if bond == nil {
		return domain.ErrNilBond
	}
	return r.withLEILock(ctx, bond.LEI, bond.ID, func(tx *Repository) error {
		return tx.UpdateBond(ctx, bond)
	})
}

// withLEILock runs fn in a transaction that holds the lock for lei, after
// checking that no bond other than excludeID carries it. The in-process lock
// covers drivers without advisory locks; Postgres also takes
// pg_advisory_xact_lock so separate processes serialize too.
func (r *Repository) withLEILock(ctx context.Context, lei string, excludeID int64, fn func(tx *Repository) error) error {
	unlock := r.leiLocks.lock(lei)
	defer unlock()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", lei).Error; err != nil {
				return fmt.Errorf("lock lei %s: %w", lei, err)
			}
		}
		txRepo := &Repository{db: tx, leiLocks: r.leiLocks}
		inUse, err := txRepo.LEIInUse(ctx, lei, excludeID)
		if err != nil {
			return err
		}
		if inUse {
			return domain.ErrDuplicateLEI
		}
		return fn(txRepo)
	})
}
