package models

import (
	"time"

	domain "bondregistry/internal/domain/entity/bonds"

	"github.com/google/uuid"
)

type BondModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`
	ISIN      string    `gorm:"column:isin;type:varchar(20);not null"`
	Size      int64     `gorm:"column:size;type:bigint;not null"`
	Currency  string    `gorm:"column:currency;type:varchar(3);not null"`
	Maturity  time.Time `gorm:"column:maturity;type:date;not null"`
	LEI       string    `gorm:"column:lei;type:varchar(40);not null;index"`
	LegalName string    `gorm:"column:legal_name;type:text;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP"`
}

func (BondModel) TableName() string {
	return "bonds"
}

func FromDomain(b *domain.Bond) BondModel {
	return BondModel{
		ID:        b.ID,
		OwnerID:   b.Owner,
		ISIN:      b.ISIN,
		Size:      b.Size,
		Currency:  b.Currency,
		Maturity:  b.Maturity,
		LEI:       b.LEI,
		LegalName: b.LegalName,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (m BondModel) ToDomain() domain.Bond {
	return domain.Bond{
		ID:        m.ID,
		Owner:     m.OwnerID,
		ISIN:      m.ISIN,
		Size:      m.Size,
		Currency:  m.Currency,
		Maturity:  dateOnly(m.Maturity),
		LEI:       m.LEI,
		LegalName: m.LegalName,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
