package bonds

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() Fields {
	return Fields{
		ISIN:     "FR0000131104",
		Size:     100000000,
		Currency: "EUR",
		Maturity: time.Date(2025, time.March, 27, 0, 0, 0, 0, time.UTC),
		LEI:      "R0MUWSFPU8MPRO8K5P83",
	}
}

func TestFieldsValidate(t *testing.T) {
	t.Run("valid fields", func(t *testing.T) {
		assert.NoError(t, validFields().Validate())
	})

	t.Run("every required field missing", func(t *testing.T) {
		err := Fields{}.Validate()

		var fieldErrs FieldErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Equal(t, FieldErrors{
			"isin":     {MsgRequired},
			"currency": {MsgRequired},
			"maturity": {MsgRequired},
			"lei":      {MsgRequired},
		}, fieldErrs)
	})

	for _, currency := range []string{"E", "EU", "EURO"} {
		t.Run("currency "+currency, func(t *testing.T) {
			f := validFields()
			f.Currency = currency

			var fieldErrs FieldErrors
			require.True(t, errors.As(f.Validate(), &fieldErrs))
			assert.Equal(t, []string{"Ensure this field has exactly 3 characters."}, fieldErrs["currency"])
		})
	}

	t.Run("isin too long", func(t *testing.T) {
		f := validFields()
		f.ISIN = "FR0000131104FR0000131104"

		var fieldErrs FieldErrors
		require.True(t, errors.As(f.Validate(), &fieldErrs))
		assert.Equal(t, []string{"Ensure this field has no more than 20 characters."}, fieldErrs["isin"])
	})

	t.Run("blank lei", func(t *testing.T) {
		f := validFields()
		f.LEI = "   "

		var fieldErrs FieldErrors
		require.True(t, errors.As(f.Validate(), &fieldErrs))
		assert.Contains(t, fieldErrs, "lei")
	})
}

func TestParseMaturity(t *testing.T) {
	for _, s := range []string{"2020-03-03", "1992-03-30"} {
		t.Run("accepts "+s, func(t *testing.T) {
			got, err := ParseMaturity(s)
			require.NoError(t, err)
			assert.Equal(t, s, got.Format(MaturityLayout))
		})
	}

	for _, s := range []string{"92-03-30", "2020-02-31", "2020/03/03", "03-03-2020", ""} {
		t.Run("rejects "+s, func(t *testing.T) {
			_, err := ParseMaturity(s)
			assert.Error(t, err)
		})
	}
}

func TestBondApplyKeepsLegalName(t *testing.T) {
	b := Bond{ID: 7, LegalName: "BNP PARIBAS"}
	b.Apply(validFields())

	assert.Equal(t, int64(7), b.ID)
	assert.Equal(t, "BNP PARIBAS", b.LegalName)
	assert.Equal(t, validFields(), b.Fields())
}

func TestFieldErrorsError(t *testing.T) {
	errs := FieldErrors{}
	errs.Add("lei", MsgRequired)
	errs.Add("currency", MsgRequired)

	assert.Equal(t, "invalid bond fields: currency: This field is required.; lei: This field is required.", errs.Error())
}

func TestFieldErrorsMerge(t *testing.T) {
	errs := FieldErrors{"size": {MsgInvalidInteger}}
	errs.Merge(FieldErrors{"size": {MsgRequired}, "lei": {MsgRequired}})
	errs.Merge(nil)

	assert.Equal(t, FieldErrors{
		"size": {MsgInvalidInteger},
		"lei":  {MsgRequired},
	}, errs)
}
