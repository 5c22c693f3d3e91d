package validator

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationErrors maps field names to their validation failures.
type ValidationErrors map[string][]error

func (v ValidationErrors) Error() string {
	var sb strings.Builder
	for field, errs := range v {
		for _, err := range errs {
			if sb.Len() > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s: %v", field, err)
		}
	}
	return sb.String()
}

// Rule validates a single value.
type Rule interface {
	Validate(value any) error
}

// Rules maps struct field names to the rules applied to them.
type Rules map[string][]Rule

// Validate checks the exported fields of a struct (or pointer to struct)
// against the rule map. Fields without rules are ignored; rule names that
// match no field are reported as errors.
func (r Rules) Validate(value any) error {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return fmt.Errorf("validate: nil value")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("validate: expected struct, got %s", rv.Kind())
	}

	errs := make(ValidationErrors)
	for field, rules := range r {
		fv := rv.FieldByName(field)
		if !fv.IsValid() {
			errs[field] = append(errs[field], fmt.Errorf("unknown field"))
			continue
		}
		for _, rule := range rules {
			if err := rule.Validate(fv.Interface()); err != nil {
				errs[field] = append(errs[field], err)
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Check validates a single value against a list of rules and returns the
// first failure, or nil.
func Check(value any, rules ...Rule) error {
	for _, rule := range rules {
		if err := rule.Validate(value); err != nil {
			return err
		}
	}
	return nil
}
