// Package schema holds the per-type validation metadata: the rules
// declared at type level and per property, each property's display name
// and declared type, and a getter resolved once at bind time.
//
// Metadata is built lazily on first lookup and cached for the process
// lifetime; types are assumed static, so there is no invalidation.
// Concurrent first lookups for the same type may build redundantly, but
// the first writer wins and the cache is never corrupted.
package schema

import (
	"reflect"

	"github.com/govalid/objectgraph/rules"
)

// Schema is the validation metadata for one struct type.
type Schema struct {
	// Type is the struct type the schema was bound to.
	Type reflect.Type

	// TypeRules are the rules declared on the type itself, evaluated
	// against the instance.
	TypeRules []rules.Rule

	// Properties lists every exported field in declaration order, which
	// is also evaluation order.
	Properties []Property

	byName map[string]int
}

// Property is the metadata for one property of a schema's type.
type Property struct {
	// Name is the Go field name.
	Name string

	// DisplayName is the human-readable name used in failure messages.
	// Defaults to Name.
	DisplayName string

	// Type is the field's declared type.
	Type reflect.Type

	// Rules are the rules declared for this property, in declaration
	// order. A Required rule, if present, is always evaluated first.
	Rules []rules.Rule

	index []int
}

// Value returns the property's current value on owner, which must be the
// dereferenced struct value of the schema's type.
func (p *Property) Value(owner reflect.Value) reflect.Value {
	return owner.FieldByIndex(p.index)
}

// Property returns the named property's metadata, or nil.
func (s *Schema) Property(name string) *Property {
	idx, ok := s.byName[name]
	if !ok {
		return nil
	}
	return &s.Properties[idx]
}
