// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package validation provides struct validation using go-playground/validator v10.
// It provides a thread-safe singleton validator instance with the custom
// rules used by request bodies.
//
// Custom tags:
//   - half_step: a float64 rating on a 0.5 boundary within the accepted
//     rating range (see models.ValidRating)
//   - interaction_kind: a known interaction kind name
//
// Example usage:
//
//	type recordInteractionRequest struct {
//	    ItemID string   `json:"item_id" validate:"required,max=128"`
//	    Kind   string   `json:"kind" validate:"required,interaction_kind"`
//	    Rating *float64 `json:"rating" validate:"omitempty,half_step"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    ...
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/cinerank/internal/models"
)

const codeValidation = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule on one request field.
type FieldError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field is the JSON name of the field, or the Go name when it has no json tag.
func (e *FieldError) Field() string { return e.field }

// Tag is the rule that failed, e.g. "max".
func (e *FieldError) Tag() string { return e.tag }

// Param is the rule parameter, e.g. "128" for max=128.
func (e *FieldError) Param() string { return e.param }

// Value is the rejected value.
func (e *FieldError) Value() interface{} { return e.value }

func (e *FieldError) Error() string { return e.message }

// RequestValidationError collects every failed rule of one request.
type RequestValidationError struct {
	errors []FieldError
}

// Errors returns the failed rules in struct field order.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i := range ve.errors {
		messages[i] = ve.errors[i].message
	}
	return strings.Join(messages, "; ")
}

// ToAPIError renders the failures as a VALIDATION_ERROR envelope error.
// A single failure reports its field in details; several are listed under
// details.fields and prefixed with the field name in the message.
func (ve *RequestValidationError) ToAPIError() *models.APIError {
	switch len(ve.errors) {
	case 0:
		return &models.APIError{Code: codeValidation, Message: "Validation failed"}
	case 1:
		fe := ve.errors[0]
		return &models.APIError{
			Code:    codeValidation,
			Message: fe.message,
			Details: map[string]interface{}{
				"field": fe.field,
				"tag":   fe.tag,
				"value": fe.value,
			},
		}
	}

	fields := make([]map[string]interface{}, len(ve.errors))
	messages := make([]string, len(ve.errors))
	for i, fe := range ve.errors {
		fields[i] = map[string]interface{}{
			"field":   fe.field,
			"tag":     fe.tag,
			"message": fe.message,
		}
		messages[i] = fe.field + ": " + fe.message
	}
	return &models.APIError{
		Code:    codeValidation,
		Message: strings.Join(messages, "; "),
		Details: map[string]interface{}{"fields": fields},
	}
}

// GetValidator returns the process-wide validator with the custom rules
// registered. Safe for concurrent use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their JSON name so messages match request bodies.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			switch name {
			case "-":
				return ""
			case "":
				return fld.Name
			}
			return name
		})

		// Registration only fails on an empty tag or nil func.
		_ = validate.RegisterValidation("half_step", validateHalfStep)
		_ = validate.RegisterValidation("interaction_kind", validateInteractionKind)
	})

	return validate
}

// ValidateStruct checks s against its validate tags. It returns nil when
// every rule passes.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{errors: []FieldError{{
			field:   "unknown",
			tag:     "unknown",
			message: err.Error(),
		}}}
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: message(fe),
		}
	}
	return &RequestValidationError{errors: out}
}

// message turns a validator failure into the sentence shown to clients.
func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "half_step":
		return fmt.Sprintf("%s must be between %.1f and %.1f in steps of %.1f",
			field, models.MinRating, models.MaxRating, models.RatingStep)
	case "interaction_kind":
		return field + " must be one of: view, like, rate"
	case "datetime":
		return field + " must be a valid date/time in RFC3339 format"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

// validateHalfStep accepts float ratings inside the rating range on a
// RatingStep boundary. Pointer fields are dereferenced by the validator.
func validateHalfStep(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		return models.ValidRating(fl.Field().Float())
	default:
		return false
	}
}

// validateInteractionKind accepts the wire names of the interaction kinds.
func validateInteractionKind(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := models.ParseInteractionKind(fl.Field().String())
	return err == nil
}
