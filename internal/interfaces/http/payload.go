package http

import (
	domainbonds "bondregistry/internal/domain/entity/bonds"
)

type bondPayload struct {
	ISIN     string `json:"isin" binding:"required,max=20"`
	Size     *int64 `json:"size" binding:"required"`
	Currency string `json:"currency" binding:"required,len=3"`
	Maturity string `json:"maturity" binding:"required,datetime=2006-01-02"`
	LEI      string `json:"lei" binding:"required,max=40"`
}

func (p bondPayload) toDomain() (domainbonds.Fields, error) {
	maturity, err := domainbonds.ParseMaturity(p.Maturity)
	if err != nil {
		return domainbonds.Fields{}, domainbonds.FieldErrors{"maturity": {domainbonds.MsgInvalidDate}}
	}
	var size int64
	if p.Size != nil {
		size = *p.Size
	}
	return domainbonds.Fields{
		ISIN:     p.ISIN,
		Size:     size,
		Currency: p.Currency,
		Maturity: maturity,
		LEI:      p.LEI,
	}, nil
}

type bondResponse struct {
	ID        int64  `json:"id"`
	ISIN      string `json:"isin"`
	Size      int64  `json:"size"`
	Currency  string `json:"currency"`
	Maturity  string `json:"maturity"`
	LEI       string `json:"lei"`
	LegalName string `json:"legal_name"`
}

func newBondResponse(b *domainbonds.Bond) bondResponse {
	return bondResponse{
		ID:        b.ID,
		ISIN:      b.ISIN,
		Size:      b.Size,
		Currency:  b.Currency,
		Maturity:  b.Maturity.Format(domainbonds.MaturityLayout),
		LEI:       b.LEI,
		LegalName: b.LegalName,
	}
}

func newBondListResponse(bonds []domainbonds.Bond) []bondResponse {
	out := make([]bondResponse, 0, len(bonds))
	for i := range bonds {
		out = append(out, newBondResponse(&bonds[i]))
	}
	return out
}

type credentialsPayload struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required,max=72"`
}

type signUpResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	APIKey   string `json:"api_key"`
}

type tokenResponse struct {
	APIKey string `json:"api_key"`
}
