// Package validation runs go-playground/validator over request and domain
// structs and converts failures into errs field errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"medtrack/m/domain"
	"medtrack/m/internal/errs"
)

// Validatable is implemented by payloads that check themselves beyond tags.
type Validatable interface {
	Validate() error
}

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator, configured to report json field
// names and to see decimals and dates as plain values.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			d, ok := field.Interface().(decimal.Decimal)
			if !ok {
				return nil
			}
			return d.InexactFloat64()
		}, decimal.Decimal{})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			d, ok := field.Interface().(domain.Date)
			if !ok {
				return nil
			}
			return d.String()
		}, domain.Date{})
		instance = v
	})
	return instance
}

// Struct validates s and returns a ValidationError listing every failed field.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		if v, ok := s.(Validatable); ok {
			return v.Validate()
		}
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs.Validation("Validation failed: " + err.Error())
	}
	fields := make([]errs.FieldError, 0, len(ve))
	required := false
	for _, fe := range ve {
		if fe.Tag() == "required" {
			required = true
		}
		fields = append(fields, errs.FieldError{Field: fe.Field(), Error: message(fe)})
	}
	if required {
		return errs.Validation("All fields are required", fields...)
	}
	return errs.Validation("", fields...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Param() == "0" {
			return "cannot be negative"
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "numeric":
		return "must be a number"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s:%s", fe.Tag(), fe.Param())
		}
		return "failed " + fe.Tag()
	}
}
