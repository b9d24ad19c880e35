// Package validation wraps go-playground/validator with the portal's custom
// rules and converts its errors into apperr.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/ukydev/municipal-assets/internal/apperr"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(jsonFieldName)
		// mintrim=N: at least N characters once surrounding blanks are removed.
		_ = validate.RegisterValidation("mintrim", minTrimmed)
	})
	return validate
}

// Struct validates v against its `validate` tags.
func Struct(v interface{}) *apperr.ValidationError {
	verr := apperr.NewValidationError()
	err := instance().Struct(v)
	if err == nil {
		return verr
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Reject("_", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		field := fieldPath(fe)
		if fe.Tag() == "required" {
			verr.Require(field)
			continue
		}
		verr.Reject(field, describe(fe))
	}
	return verr
}

// MinTrimmed reports whether s has at least n characters after trimming.
func MinTrimmed(s string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= n
}

func minTrimmed(fl validator.FieldLevel) bool {
	var n int
	if _, err := fmt.Sscanf(fl.Param(), "%d", &n); err != nil {
		return false
	}
	return MinTrimmed(fl.Field().String(), n)
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// fieldPath drops the top-level struct name from the namespace, so nested
// fields read as "attachedDocuments[0].fileUrl".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "mintrim":
		return fmt.Sprintf("must have at least %s characters", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return "must have at most " + fe.Param() + " elements"
	case "nefield":
		return "must differ from " + fe.Param()
	case "url":
		return "must be a valid URL"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
