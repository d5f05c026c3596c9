package util

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// credit: https://github.com/go-playground/validator/issues/559#issuecomment-976459959

type ApiError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RegisterValidations adds the custom binding tags used by the request structs.
func RegisterValidations(v *validator.Validate) error {
	custom := map[string]validator.Func{
		"strNotEmpty": StrNotEmpty,
		"cmax":        CustomMax,
		"maxBytes":    MaxBytes,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func msgForTag(fe validator.FieldError, field string) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%v is required", field)
	case "email":
		return "Invalid email"
	case "url":
		return fmt.Sprintf("%v must be a valid url", field)
	case "oneof":
		return fmt.Sprintf("%v must be one of: %v", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "cmax":
		return fmt.Sprintf("%v must be at most %v characters", field, fe.Param())
	case "maxBytes":
		return fmt.Sprintf("%v must be at most %v bytes", field, fe.Param())
	case "strNotEmpty":
		return fmt.Sprintf("%v must not be empty or contain only whitespace characters", field)
	}

	zap.S().Warnf("No message for validation tag %q: %v", fe.Tag(), fe.Error())
	return fe.Error()
}

/*
GenerateErrorMessages extracts validation errors and returns them as an array of ApiError.
Each ApiError contains the field name and a descriptive error message.

Example output:

	[
	  {
		"field": "Name",
		"message": "Name must not be empty or contain only whitespace characters"
	  }
	]

If a customField map is provided, it will replace the field name with the corresponding custom field name.
Example usage:

	GenerateErrorMessages(err, map[string]string{"name": "CHANGEDFIELDNAME"})

Example output:

	[
	  {
		"field": "CHANGEDFIELDNAME",
		"message": "CHANGEDFIELDNAME must not be empty or contain only whitespace characters"
	  }
	]

Optional Parameters:
- customField (map[string]string): A map to override field names in the error messages.
- fieldName (string): A specific field name to field names in the error messages.
*/
func GenerateErrorMessages(err error, optionalParams ...interface{}) []ApiError {
	var customField map[string]string
	var fieldName string

	// Parse optional parameters
	for _, param := range optionalParams {
		switch v := param.(type) {
		case map[string]string:
			customField = v
		case string:
			fieldName = v
		}
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make([]ApiError, len(ve))
		for i, fe := range ve {
			field := fe.Field()
			// Use customField if specified and the field exists in the map
			if customField != nil {
				if customFieldName, ok := customField[field]; ok {
					field = customFieldName
				}
			}
			out[i] = ApiError{field, msgForTag(fe, field)}
		}
		return out
	}

	var fileErr *errs.ValidationError
	if errors.As(err, &fileErr) {
		return []ApiError{
			{
				Field:   fileErr.Field,
				Message: fileErr.Message,
			},
		}
	}

	switch {
	case errs.IsNotFound(err):
		return []ApiError{
			{
				Field:   "Unknown",
				Message: "Record not found",
			},
		}
	default:
		return []ApiError{
			{
				Field: func() string {
					if fieldName != "" {
						return fieldName
					} else {
						return "Unknown"
					}
				}(),
				Message: err.Error(),
			},
		}
	}
}

// check if string is empty, after trimming spaces
// Usage: `binding:"strNotEmpty"`
func StrNotEmpty(fl validator.FieldLevel) bool {
	// field name. e.g: "email"
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	// get the value of the field
	str := field.String()
	str = strings.TrimSpace(str)

	if len(str) == 0 {
		return false
	} else {
		return true
	}
}

// check if string has at most the maximum number of characters, after trimming spaces
// Usage: `binding:"cmax=3"`
func CustomMax(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	maxLength, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	return utf8.RuneCountInString(strings.TrimSpace(field.String())) <= maxLength
}

// check if string is at most the given number of bytes, untrimmed
// Usage: `binding:"maxBytes=72"`
func MaxBytes(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	maxBytes, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	return len(field.String()) <= maxBytes
}
