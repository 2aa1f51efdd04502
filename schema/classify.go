package schema

import (
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// Validatable reports whether values of type t participate in recursive
// descent. Primitives, strings, channels, and funcs never do; well-known
// scalar-like structs (time.Time, decimal.Decimal) are excluded too.
// Containers classify by their element type; interfaces classify
// optimistically and are re-checked against the runtime type at descent.
// The filter, if non-nil, can veto types the built-in rules would accept.
func Validatable(t reflect.Type, filter func(reflect.Type) bool) bool {
	if t == nil {
		return false
	}
	for {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
			t = t.Elem()
			continue
		}
		break
	}

	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return false
	case reflect.Interface:
		return true
	}

	if t == timeType || t == decimalType {
		return false
	}

	if filter != nil && !filter(t) {
		return false
	}
	return true
}
