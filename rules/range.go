package rules

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"

	og "github.com/govalid/objectgraph"
)

// Range checks that a numeric value falls within [Min, Max] inclusive.
// Bounds and values may be any integer or float type, a numeric string,
// or a decimal.Decimal; comparison happens in decimal space so mixed
// representations compare exactly.
type Range struct {
	Min any
	Max any

	// Message overrides the default template. Format args: display name,
	// Min, Max.
	Message string
}

// RuleName implements Rule.
func (r *Range) RuleName() string { return "range" }

// ErrorMessage implements Rule.
func (r *Range) ErrorMessage() string { return r.Message }

// FormatMessage implements Rule.
func (r *Range) FormatMessage(displayName string) string {
	return format(r.Message, "%s must be between %v and %v", displayName, r.Min, r.Max)
}

// Evaluate implements SyncRule. Misconfigured bounds and non-numeric
// values are programmer errors, never violations.
func (r *Range) Evaluate(value any, vc *og.ValidationContext) (*og.Violation, error) {
	if isNilValue(value) {
		return nil, nil
	}

	if r.Min == nil || r.Max == nil {
		return nil, fmt.Errorf("range rule: both Min and Max must be set")
	}
	min, ok := toDecimal(r.Min)
	if !ok {
		return nil, fmt.Errorf("range rule: Min bound %v (%T) is not numeric", r.Min, r.Min)
	}
	max, ok := toDecimal(r.Max)
	if !ok {
		return nil, fmt.Errorf("range rule: Max bound %v (%T) is not numeric", r.Max, r.Max)
	}
	if min.GreaterThan(max) {
		return nil, fmt.Errorf("range rule: Min %v is greater than Max %v", r.Min, r.Max)
	}

	d, ok := toDecimal(value)
	if !ok {
		return nil, fmt.Errorf("range rule: value of type %T is not numeric", value)
	}

	if d.LessThan(min) || d.GreaterThan(max) {
		return violate(r, vc, value), nil
	}
	return nil, nil
}

// toDecimal converts any supported numeric representation to a decimal.
// Non-nil pointers are dereferenced, so nullable numeric fields compare
// by their pointed-to value.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case string:
		d, err := decimal.NewFromString(t)
		return d, err == nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return decimal.Decimal{}, false
		}
		return toDecimal(rv.Elem().Interface())
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromUint64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(rv.Float()), true
	default:
		return decimal.Decimal{}, false
	}
}
