package rules

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	og "github.com/govalid/objectgraph"
)

// Length checks the length of a string (in runes), slice, array, or map.
// Max of 0 means unbounded above.
type Length struct {
	Min int
	Max int

	// Message overrides the default template. Format args: display name,
	// Min, Max.
	Message string
}

// RuleName implements Rule.
func (r *Length) RuleName() string { return "length" }

// ErrorMessage implements Rule.
func (r *Length) ErrorMessage() string { return r.Message }

// FormatMessage implements Rule.
func (r *Length) FormatMessage(displayName string) string {
	if r.Max <= 0 {
		return format(r.Message, "%s must have length at least %d", displayName, r.Min)
	}
	return format(r.Message, "%s must have length between %d and %d", displayName, r.Min, r.Max)
}

// Evaluate implements SyncRule.
func (r *Length) Evaluate(value any, vc *og.ValidationContext) (*og.Violation, error) {
	if isNilValue(value) {
		return nil, nil
	}
	if r.Min < 0 || (r.Max > 0 && r.Max < r.Min) {
		return nil, fmt.Errorf("length rule: invalid bounds Min=%d Max=%d", r.Min, r.Max)
	}

	var n int
	if s, ok := value.(string); ok {
		n = utf8.RuneCountInString(s)
	} else {
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
			n = rv.Len()
		default:
			return nil, fmt.Errorf("length rule: type %T has no length", value)
		}
	}

	if n < r.Min || (r.Max > 0 && n > r.Max) {
		return violate(r, vc, value), nil
	}
	return nil, nil
}
