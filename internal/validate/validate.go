// Package validate provides a chainable Validator that collects field-level
// errors before returning a single apperror.
//
// This is the first, purely syntactic validation phase: it only looks at
// the input values. Checks that need storage (does the blog exist, is the
// login taken) run afterwards in the service layer.
//
//	err := new(validate.Validator).
//		Required("name", in.Name).
//		MaxLen("name", in.Name, validate.BlogNameMax).
//		Err()
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sakif/bloggers-platform/internal/apperror"
)

// Validator is not safe for concurrent use. Create one per operation.
type Validator struct {
	errs []apperror.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, fmt.Sprintf("%s is required", field))
	}
	return v
}

// Length fails if the trimmed rune count is outside [min, max].
func (v *Validator) Length(field, value string, min, max int) *Validator {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n < min || n > max {
		v.add(field, fmt.Sprintf("length of %s must be between %d and %d characters", field, min, max))
	}
	return v
}

// MaxLen fails if the rune count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > max {
		v.add(field, fmt.Sprintf("%s must be %d characters or less", field, max))
	}
	return v
}

// Range fails if the value is outside [min, max].
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("%s must be between %d and %d", field, min, max))
	}
	return v
}

// Match fails if the value does not match the pattern.
func (v *Validator) Match(field, value string, re *regexp.Regexp, message string) *Validator {
	if !re.MatchString(value) {
		v.add(field, message)
	}
	return v
}

// Email fails if the value does not look like an email address.
func (v *Validator) Email(field, value string) *Validator {
	return v.Match(field, value, emailPattern, "email is not valid")
}

// OneOf fails if the value is not in the allowed set.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a validation apperror listing every failed field, or nil.
func (v *Validator) Err() error {
	return apperror.Invalid(v.errs...)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add records at most one failure per field; the first rule to fail wins.
func (v *Validator) add(field, message string) {
	for _, e := range v.errs {
		if e.Field == field {
			return
		}
	}
	v.errs = append(v.errs, apperror.FieldError{Field: field, Message: message})
}
