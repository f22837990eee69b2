package broker

import (
	"time"

	domain "bondregistry/internal/domain/entity/bonds"
)

// BondMessage is the JSON body of a bond event.
type BondMessage struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurred_at"`
	Bond       BondBody  `json:"bond"`
}

type BondBody struct {
	ID        int64  `json:"id"`
	Owner     string `json:"owner"`
	ISIN      string `json:"isin"`
	Size      int64  `json:"size"`
	Currency  string `json:"currency"`
	Maturity  string `json:"maturity"`
	LEI       string `json:"lei"`
	LegalName string `json:"legal_name"`
}

func newBondMessage(event domain.Event) BondMessage {
	b := event.Bond
	return BondMessage{
		Event:      string(event.Type),
		OccurredAt: event.OccurredAt.UTC(),
		Bond: BondBody{
			ID:        b.ID,
			Owner:     b.Owner.String(),
			ISIN:      b.ISIN,
			Size:      b.Size,
			Currency:  b.Currency,
			Maturity:  b.Maturity.Format(domain.MaturityLayout),
			LEI:       b.LEI,
			LegalName: b.LegalName,
		},
	}
}
