package bonds

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaturityLayout is the only accepted textual form of a maturity date.
const MaturityLayout = "2006-01-02"

const (
	MaxISINLength  = 20
	CurrencyLength = 3
	MaxLEILength   = 40
)

var (
	ErrNotFound     = errors.New("bond not found")
	ErrNilBond      = errors.New("bond is nil")
	ErrDuplicateLEI = errors.New("bond with this lei already exists")
)

// Bond is a fixed-income instrument registered by a single owner.
// LegalName is never supplied by callers; it is resolved from LEI on every save.
type Bond struct {
	ID        int64
	Owner     uuid.UUID
	ISIN      string
	Size      int64
	Currency  string
	Maturity  time.Time
	LEI       string
	LegalName string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields are the caller-settable attributes of a Bond.
type Fields struct {
	ISIN     string
	Size     int64
	Currency string
	Maturity time.Time
	LEI      string
}

// Apply copies caller-settable fields onto the bond. LegalName is left untouched.
func (b *Bond) Apply(f Fields) {
	b.ISIN = f.ISIN
	b.Size = f.Size
	b.Currency = f.Currency
	b.Maturity = f.Maturity
	b.LEI = f.LEI
}

// Fields returns the caller-settable part of the bond.
func (b Bond) Fields() Fields {
	return Fields{
		ISIN:     b.ISIN,
		Size:     b.Size,
		Currency: b.Currency,
		Maturity: b.Maturity,
		LEI:      b.LEI,
	}
}

// Validate checks the domain rules for a bond's fields and reports every
// offending field at once.
func (f Fields) Validate() error {
	errs := FieldErrors{}
	switch {
	case strings.TrimSpace(f.ISIN) == "":
		errs.Add("isin", MsgRequired)
	case utf8.RuneCountInString(f.ISIN) > MaxISINLength:
		errs.Add("isin", MaxLengthMessage(MaxISINLength))
	}
	switch {
	case f.Currency == "":
		errs.Add("currency", MsgRequired)
	case utf8.RuneCountInString(f.Currency) != CurrencyLength:
		errs.Add("currency", ExactLengthMessage(CurrencyLength))
	}
	if f.Maturity.IsZero() {
		errs.Add("maturity", MsgRequired)
	}
	switch {
	case strings.TrimSpace(f.LEI) == "":
		errs.Add("lei", MsgRequired)
	case utf8.RuneCountInString(f.LEI) > MaxLEILength:
		errs.Add("lei", MaxLengthMessage(MaxLEILength))
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ParseMaturity parses a YYYY-MM-DD date. Nonexistent calendar days and
// short years are rejected.
func ParseMaturity(s string) (time.Time, error) {
	t, err := time.Parse(MaturityLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse maturity %q: %w", s, err)
	}
	return t, nil
}

// Filter narrows a bond listing. Nil fields are not applied.
type Filter struct {
	Owner     *uuid.UUID
	LegalName *string
}

const (
	MsgRequired       = "This field is required."
	MsgInvalidInteger = "A valid integer is required."
	MsgInvalidDate    = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	MsgInvalid        = "Invalid value."
	MsgDuplicateLEI   = "bond with this lei already exists."
)

func MaxLengthMessage(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

func ExactLengthMessage(n int) string {
	return fmt.Sprintf("Ensure this field has exactly %d characters.", n)
}

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Merge adds the fields of other that e does not report yet.
func (e FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		if _, ok := e[field]; !ok {
			e[field] = msgs
		}
	}
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], " "))
	}
	return "invalid bond fields: " + strings.Join(parts, "; ")
}
