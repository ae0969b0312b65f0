package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNotBlank(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name" validate:"not_blank"`
	}

	require.NoError(t, Validate.Struct(payload{Name: "x"}))
	require.Error(t, Validate.Struct(payload{Name: " \t\n"}))
	require.Error(t, Validate.Struct(payload{Name: ""}))
}

func TestValidationFieldErrors(t *testing.T) {
	t.Parallel()

	type payload struct {
		Emails []string `json:"emails" validate:"dive,valid_email"`
		Code   string   `json:"code" validate:"required"`
	}

	err := Validate.Struct(payload{Emails: []string{"ok@example.com", "bad", "worse"}})
	require.Error(t, err)

	errs, ok := validationFieldErrors(err, map[string]string{"emails": "bad emails"})
	require.True(t, ok)
	assert.Equal(t, fieldErrors{"emails": "bad emails", "code": "code is invalid."}, errs)
}

func TestValidationFieldErrors_NotValidationError(t *testing.T) {
	t.Parallel()

	errs, ok := validationFieldErrors(errors.New("boom"), nil)
	assert.False(t, ok)
	assert.Nil(t, errs)
}
