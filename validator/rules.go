package validator

import (
	"fmt"
	"reflect"
)

type ruleFunc func(value any) error

func (f ruleFunc) Validate(value any) error { return f(value) }

// Required fails on zero values (empty strings, zero numbers, nil).
var Required Rule = ruleFunc(func(value any) error {
	if value == nil {
		return fmt.Errorf("is required")
	}
	rv := reflect.ValueOf(value)
	if rv.IsZero() {
		return fmt.Errorf("is required")
	}
	return nil
})

// Range requires an integer value within [min, max].
func Range(min, max int64) Rule {
	return ruleFunc(func(value any) error {
		n, ok := toInt64(value)
		if !ok {
			return fmt.Errorf("is not an integer")
		}
		if n < min || n > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		return nil
	})
}

// Min requires an integer value of at least min.
func Min(min int64) Rule {
	return ruleFunc(func(value any) error {
		n, ok := toInt64(value)
		if !ok {
			return fmt.Errorf("is not an integer")
		}
		if n < min {
			return fmt.Errorf("must be at least %d", min)
		}
		return nil
	})
}

// MaxLen limits the length of a string.
func MaxLen(max int) Rule {
	return ruleFunc(func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("is not a string")
		}
		if len(s) > max {
			return fmt.Errorf("must be at most %d characters", max)
		}
		return nil
	})
}

// In requires the value to be one of the allowed options.
func In(options ...any) Rule {
	return ruleFunc(func(value any) error {
		for _, opt := range options {
			if value == opt {
				return nil
			}
		}
		return fmt.Errorf("must be one of %v", options)
	})
}

func toInt64(value any) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	default:
		return 0, false
	}
}
