package schema

import (
	"fmt"
	"reflect"

	"github.com/govalid/objectgraph/rules"
)

// Builder accumulates rule declarations for a type before they are bound
// to its concrete struct shape. Builders are cheap and single-use; the
// bound Schema is what gets cached.
type Builder struct {
	typeRules []rules.Rule
	fields    []fieldSpec
	displays  map[string]string
}

type fieldSpec struct {
	name  string
	rules []rules.Rule
}

// New creates an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Rule declares type-level rules, evaluated against the whole instance.
func (b *Builder) Rule(rs ...rules.Rule) *Builder {
	b.typeRules = append(b.typeRules, rs...)
	return b
}

// Field declares rules for the named field. Multiple calls for the same
// field append in order.
func (b *Builder) Field(name string, rs ...rules.Rule) *Builder {
	b.fields = append(b.fields, fieldSpec{name: name, rules: rs})
	return b
}

// Display sets the human-readable display name for a field.
func (b *Builder) Display(name, display string) *Builder {
	if b.displays == nil {
		b.displays = make(map[string]string)
	}
	b.displays[name] = display
	return b
}

// Bind resolves the builder against a struct type, producing the schema
// with one Property per exported field in declaration order. Declaring
// rules or a display name for a field the type does not have is a
// configuration error.
func (b *Builder) Bind(t reflect.Type) (*Schema, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: cannot bind to non-struct type %s", t)
	}

	s := &Schema{
		Type:      t,
		TypeRules: b.typeRules,
		byName:    make(map[string]int),
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		p := Property{
			Name:        f.Name,
			DisplayName: f.Name,
			Type:        f.Type,
			index:       f.Index,
		}
		if d, ok := b.displays[f.Name]; ok {
			p.DisplayName = d
		}
		s.byName[f.Name] = len(s.Properties)
		s.Properties = append(s.Properties, p)
	}

	for _, fs := range b.fields {
		p := s.Property(fs.name)
		if p == nil {
			return nil, fmt.Errorf("schema: type %s has no exported field %q", t, fs.name)
		}
		p.Rules = append(p.Rules, fs.rules...)
	}
	for name := range b.displays {
		if s.Property(name) == nil {
			return nil, fmt.Errorf("schema: type %s has no exported field %q", t, name)
		}
	}

	return s, nil
}
