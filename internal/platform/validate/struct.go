// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/libris/internal/platform/apperr"
)

// structValidator is shared; validator.Validate caches struct metadata and is goroutine safe.
var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so field errors line up with the request payload.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return v
}

// Struct validates s against its `validate` struct tags.
//
// Failures are returned as a single VALIDATION_ERROR whose details use the
// namespaced JSON path of each field (e.g. "aliases[0].name").
func Struct(s any) error {
	err := structValidator.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperr.Internal(err)
	}

	details := make([]apperr.FieldError, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		details = append(details, apperr.FieldError{
			Field:   fieldPath(fieldErr.Namespace()),
			Message: friendlyMessage(fieldErr),
		})
	}

	return apperr.ValidationError("Validation failed", details...)
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, found := strings.Cut(namespace, "."); found {
		return rest
	}
	return namespace
}

func friendlyMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return fmt.Sprintf("Maximum %s characters", fieldErr.Param())
	case "min":
		return fmt.Sprintf("Minimum %s characters", fieldErr.Param())
	case "gt":
		return "Must be greater than " + fieldErr.Param()
	case "uuid":
		return "Must be a valid UUID"
	case "oneof":
		return "Must be one of: " + fieldErr.Param()
	default:
		return "Is invalid"
	}
}
