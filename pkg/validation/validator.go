package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their YAML key so messages match the config file
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Struct validates v against its `validate` struct tags and returns every
// failure joined into one error.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	return formatValidationError(validate.Struct(v))
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	errs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := trimRoot(e.Namespace())
		param := e.Param()

		switch e.Tag() {
		case "required":
			errs = append(errs, fmt.Errorf("%s: field is required", field))
		case "min", "gte":
			errs = append(errs, fmt.Errorf("%s: must be at least %s, got %v", field, param, e.Value()))
		case "max", "lte":
			errs = append(errs, fmt.Errorf("%s: must not exceed %s, got %v", field, param, e.Value()))
		case "oneof":
			errs = append(errs, fmt.Errorf("%s: must be one of [%s], got %q", field, param, e.Value()))
		default:
			errs = append(errs, fmt.Errorf("%s: validation failed (%s)", field, e.Tag()))
		}
	}

	return errors.Join(errs...)
}

// trimRoot drops the struct type name from a namespace like "Config.rates.worm".
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
