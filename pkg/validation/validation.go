// Package validation checks raw form input against per-field rules and
// reports every failing field at once.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/asaskevich/govalidator"
)

// Rule names understood by the validator
const (
	Required = "required"
	Email    = "email"
)

// Rules maps a field name to the ordered rules applied to it
type Rules map[string][]string

// Error carries the failing fields and their messages
type Error struct {
	Fields map[string][]string
}

func (e *Error) Error() string {
	names := e.FieldNames()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, strings.Join(e.Fields[name], " "))
	}
	return "validation failed: " + strings.Join(parts, " ")
}

// Has reports whether the field failed validation
func (e *Error) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// First returns the first message for the field, or ""
func (e *Error) First(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// FieldNames returns the failing fields in sorted order
func (e *Error) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validator applies Rules to input
type Validator struct{}

// New creates a Validator
func New() *Validator {
	return &Validator{}
}

// Validate returns nil when every rule passes, otherwise an *Error
func (v *Validator) Validate(input map[string]string, rules Rules) error {
	failed := make(map[string][]string)

	for field, fieldRules := range rules {
		value := strings.TrimSpace(input[field])
		for _, rule := range fieldRules {
			msg, ok := check(rule, field, value)
			if ok {
				continue
			}
			failed[field] = append(failed[field], msg)
			// a missing value makes the remaining rules meaningless
			if rule == Required {
				break
			}
		}
	}

	if len(failed) == 0 {
		return nil
	}
	return &Error{Fields: failed}
}

func check(rule, field, value string) (string, bool) {
	label := strings.ReplaceAll(field, "_", " ")
	switch rule {
	case Required:
		return fmt.Sprintf("The %s field is required.", label), value != ""
	case Email:
		if value == "" {
			return "", true
		}
		return fmt.Sprintf("The %s must be a valid email address.", label), govalidator.IsEmail(value)
	default:
		return fmt.Sprintf("The %s field has an unknown rule %q.", label, rule), false
	}
}
