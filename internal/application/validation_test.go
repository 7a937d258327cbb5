package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"palm-bot/internal/domain/entity"
)

func validInfo() entity.UserInfo {
	return entity.UserInfo{
		Name:    "Ann",
		Age:     "28",
		DOB:     "1996-01-01",
		Country: "Canada",
		City:    "Toronto",
		Gender:  entity.GenderFemale,
	}
}

func TestValidateRequired_Valid(t *testing.T) {
	require.NoError(t, ValidateRequired(validInfo()))
}

func TestValidateRequired_OptionalFieldsMayBeEmpty(t *testing.T) {
	info := validInfo()
	info.Religion = ""
	info.Phone = ""
	require.NoError(t, ValidateRequired(info))
}

func TestValidateRequired_ReportsEachMissingField(t *testing.T) {
	for _, field := range entity.RequiredFields {
		t.Run(string(field), func(t *testing.T) {
			info := validInfo()
			require.NoError(t, info.Set(field, ""))

			err := ValidateRequired(info)
			var mf *entity.MissingFieldError
			require.True(t, errors.As(err, &mf))
			require.Equal(t, field, mf.Field)
		})
	}
}

func TestValidateRequired_FirstMissingInFixedOrder(t *testing.T) {
	info := validInfo()
	info.Gender = ""
	info.City = ""
	info.DOB = ""

	var mf *entity.MissingFieldError
	require.ErrorAs(t, ValidateRequired(info), &mf)
	require.Equal(t, entity.FieldDOB, mf.Field)

	var empty entity.UserInfo
	require.ErrorAs(t, ValidateRequired(empty), &mf)
	require.Equal(t, entity.FieldName, mf.Field)
}

func TestValidateRequired_WhitespaceIsMissing(t *testing.T) {
	info := validInfo()
	info.Country = "   "

	var mf *entity.MissingFieldError
	require.ErrorAs(t, ValidateRequired(info), &mf)
	require.Equal(t, entity.FieldCountry, mf.Field)
}
