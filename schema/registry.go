package schema

import (
	"fmt"
	"reflect"
	"sync"
)

// Definer is implemented by types that declare their own validation
// schema. Lookup instantiates the type and calls ValidationSchema the
// first time the type is seen.
type Definer interface {
	ValidationSchema() *Builder
}

var (
	registered sync.Map // reflect.Type -> *Builder
	bound      sync.Map // reflect.Type -> *Schema
)

// Register associates a builder with prototype's type. Registering a
// type twice, or after its schema has already been bound, is an error.
func Register(prototype any, b *Builder) error {
	t := baseType(reflect.TypeOf(prototype))
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("schema: cannot register non-struct prototype %T", prototype)
	}
	if _, done := bound.Load(t); done {
		return fmt.Errorf("schema: type %s already bound", t)
	}
	if _, dup := registered.LoadOrStore(t, b); dup {
		return fmt.Errorf("schema: type %s already registered", t)
	}
	return nil
}

// MustRegister is Register, panicking on error. Intended for package
// init blocks.
func MustRegister(prototype any, b *Builder) {
	if err := Register(prototype, b); err != nil {
		panic(err)
	}
}

// Lookup returns the bound schema for t, binding it on first use. The
// builder comes from an explicit Register call, from the type's own
// Definer implementation, or defaults to a rule-less schema covering
// every exported field. Concurrent first lookups may bind redundantly;
// the first stored schema wins.
func Lookup(t reflect.Type) (*Schema, error) {
	t = baseType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: no schema for non-struct type %v", t)
	}
	if s, ok := bound.Load(t); ok {
		return s.(*Schema), nil
	}

	b := builderFor(t)
	s, err := b.Bind(t)
	if err != nil {
		return nil, err
	}
	actual, _ := bound.LoadOrStore(t, s)
	return actual.(*Schema), nil
}

func builderFor(t reflect.Type) *Builder {
	if b, ok := registered.Load(t); ok {
		return b.(*Builder)
	}
	if d, ok := reflect.New(t).Interface().(Definer); ok {
		return d.ValidationSchema()
	}
	return New()
}

func baseType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
