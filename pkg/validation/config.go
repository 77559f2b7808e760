package validation

import (
	"cmp"
	"errors"
	"fmt"
	"time"
)

// FieldError reports one failed check, addressed as section.field.
type FieldError struct {
	Section string
	Field   string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path(), e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Path returns the dotted location of the field, e.g. "simulation.nodes".
func (e *FieldError) Path() string {
	return e.Section + "." + e.Field
}

// ConfigValidator collects failures of checks that struct tags cannot
// express, such as duration bounds and cross-field rules.
type ConfigValidator struct {
	section string
	errs    []error
}

// NewConfigValidator creates a validator for one config section.
func NewConfigValidator(section string) *ConfigValidator {
	return &ConfigValidator{section: section}
}

func (cv *ConfigValidator) fail(field string, err error) {
	cv.errs = append(cv.errs, &FieldError{Section: cv.section, Field: field, Err: err})
}

// Range reports whether value lies in [lo, hi]. NaN is never in range.
func Range[T cmp.Ordered](value, lo, hi T) bool {
	return value == value && cmp.Compare(value, lo) >= 0 && cmp.Compare(value, hi) <= 0
}

func (cv *ConfigValidator) RangeInt(field string, value, lo, hi int) *ConfigValidator {
	if !Range(value, lo, hi) {
		cv.fail(field, fmt.Errorf("value %d is outside range [%d, %d]", value, lo, hi))
	}
	return cv
}

func (cv *ConfigValidator) RangeFloat(field string, value, lo, hi float64) *ConfigValidator {
	if !Range(value, lo, hi) {
		cv.fail(field, fmt.Errorf("value %g is outside range [%g, %g]", value, lo, hi))
	}
	return cv
}

func (cv *ConfigValidator) RangeDuration(field string, value, lo, hi time.Duration) *ConfigValidator {
	if !Range(value, lo, hi) {
		cv.fail(field, fmt.Errorf("duration %v is outside range [%v, %v]", value, lo, hi))
	}
	return cv
}

// Custom records the error returned by fn, if any.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.fail(field, err)
	}
	return cv
}

// When runs validations only if condition holds.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

func (cv *ConfigValidator) HasErrors() bool { return len(cv.errs) > 0 }

// Errors returns a copy of the collected failures.
func (cv *ConfigValidator) Errors() []error {
	return append([]error(nil), cv.errs...)
}

// Validate returns every failure joined, or nil.
func (cv *ConfigValidator) Validate() error {
	return errors.Join(cv.errs...)
}

// DefaultOr returns value unless it is the zero value of T.
func DefaultOr[T comparable](value, def T) T {
	var zero T
	if value == zero {
		return def
	}
	return value
}
