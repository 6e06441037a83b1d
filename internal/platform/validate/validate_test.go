// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Libris", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Pattern checks regex-backed identifier validation.
*/
func TestValidator_Pattern(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		expr    string
		isValid bool
	}{
		{"matches", "9780306406157", `^\d{13}$`, true},
		{"no_match", "978-030", `^\d{13}$`, false},
		{"empty_pattern", "anything", "", true},
		{"malformed_pattern", "x", `(`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Pattern("value", tt.value, tt.expr)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "").              // Fails
		MaxLen("sort_name", "abcdef", 3).  // Fails
		UUID("bbid", "not-a-uuid").        // Fails
		Custom("aliases", true, "broken"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	assert.Len(t, ae.Details, 4)
}

/*
TestValidator_Merge verifies nested validation errors are flattened into the chain.
*/
func TestValidator_Merge(t *testing.T) {
	inner := apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "aliases[0].name", Message: "This field is required"},
	)

	v := &validate.Validator{}
	v.Merge("aliases", inner).Merge("note", errors.New("plain failure")).Merge("x", nil)

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 2)
	assert.Equal(t, "aliases[0].name", ae.Details[0].Field)
	assert.Equal(t, "note", ae.Details[1].Field)
}

type aliasInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	SortName string `json:"sortName" validate:"required"`
}

type payload struct {
	Aliases []aliasInput `json:"aliases" validate:"dive"`
	Note    string       `json:"note" validate:"max=10"`
}

/*
TestStruct reports JSON field paths for nested struct tag failures.
*/
func TestStruct(t *testing.T) {
	err := validate.Struct(payload{
		Aliases: []aliasInput{{Name: "Dune", SortName: ""}},
		Note:    "far too long for the limit",
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)

	fields := make([]string, 0, len(ae.Details))
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	assert.ElementsMatch(t, []string{"aliases[0].sortName", "note"}, fields)

	assert.NoError(t, validate.Struct(payload{Aliases: []aliasInput{{Name: "Dune", SortName: "Dune"}}}))
}
