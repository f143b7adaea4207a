package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentify_backend/pkg/apperrors"
)

type address struct {
	City    string `json:"city" validate:"required"`
	Pincode string `json:"pincode" validate:"required,pincode"`
}

type listing struct {
	Title     string   `json:"title" validate:"required,min=3"`
	Type      string   `json:"propertyType" validate:"required,property-type"`
	Furnished string   `json:"furnished" validate:"omitempty,furnishing"`
	Types     []string `json:"types" validate:"omitempty,property-type"`
	Rent      float64  `json:"rent" validate:"gt=0"`
	Address   address  `json:"address"`
}

func valid() listing {
	return listing{
		Title:   "Nice flat",
		Type:    "apartment",
		Rent:    1000,
		Address: address{City: "Pune", Pincode: "411001"},
	}
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, New().Validate(valid()))
}

func TestPincode(t *testing.T) {
	cases := map[string]bool{
		"560103":  true,
		"110001":  true,
		"12345":   false,
		"0560103": false,
		"056010":  false,
		"56010a":  false,
	}
	for pin, ok := range cases {
		assert.Equal(t, ok, IsPincode(pin), pin)
	}
}

func TestFieldErrorsUseJSONPaths(t *testing.T) {
	l := valid()
	l.Rent = 0
	l.Type = "castle"
	l.Address.Pincode = "12345"

	err := New().Validate(l)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "rent")
	assert.Contains(t, ve.Errors, "propertyType")
	assert.Contains(t, ve.Errors, "address.pincode")
	assert.Contains(t, ve.Errors["propertyType"], "apartment")
}

func TestSliceEnum(t *testing.T) {
	l := valid()
	l.Types = []string{"house", "pg"}
	assert.NoError(t, New().Validate(l))

	l.Types = []string{"house", "igloo"}
	err := New().Validate(l)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "types")
}

func TestValidateAppMapsToAppError(t *testing.T) {
	l := valid()
	l.Title = ""

	err := New().ValidateApp(l)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	assert.Equal(t, 400, appErr.HTTPCode)
	assert.Equal(t, map[string]string{"title": "This field is required"}, appErr.Details)
}
