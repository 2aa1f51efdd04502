package objectgraph

import (
	"context"
	"errors"
	"iter"
	"reflect"
)

// ErrContextReused is returned when a ValidationContext that already drove
// one top-level walk is handed to a second. Per-invocation state (the
// visited-objects set and the owner chain) lives in the context's items
// bag, so a second use would corrupt cycle detection.
var ErrContextReused = errors.New("objectgraph: validation context has already been used for a walk; create a new context per invocation")

// ValidationContext describes the object (or value) a rule is evaluated
// against. Entry points create the root context; the walker derives child
// contexts per property and element, sharing the items bag and service
// locator.
type ValidationContext struct {
	// ObjectInstance is the object the current member belongs to. For
	// whole-object validation it is the instance under test.
	ObjectInstance any

	// Root is the root object of the walk, available to cross-field rules.
	Root any

	// MemberName is the name of the member being validated, if any.
	MemberName string

	// DisplayName is the human-readable name used in failure messages.
	// When empty, MemberName is used, then the instance's type name.
	DisplayName string

	items    map[any]any
	services func(key any) any
}

// NewValidationContext creates a context for instance. root may be nil, in
// which case instance doubles as the root. items seeds the context's items
// bag and may be nil.
func NewValidationContext(instance any, items map[any]any) *ValidationContext {
	return &ValidationContext{
		ObjectInstance: instance,
		Root:           instance,
		items:          items,
	}
}

// SetServiceLocator installs a service-locator callback that rules can use
// to reach external collaborators (e.g. a datastore for async checks).
func (vc *ValidationContext) SetServiceLocator(fn func(key any) any) {
	vc.services = fn
}

// Service resolves key through the service locator, or returns nil when no
// locator is installed.
func (vc *ValidationContext) Service(key any) any {
	if vc.services == nil {
		return nil
	}
	return vc.services(key)
}

// Item returns the value stored under key in the items bag.
func (vc *ValidationContext) Item(key any) (any, bool) {
	v, ok := vc.items[key]
	return v, ok
}

// SetItem stores a value in the items bag, allocating it on first use.
func (vc *ValidationContext) SetItem(key, value any) {
	if vc.items == nil {
		vc.items = make(map[any]any)
	}
	vc.items[key] = value
}

// Child derives a context for a member of instance, sharing the items bag
// and service locator so per-invocation state stays visible throughout the
// walk.
func (vc *ValidationContext) Child(instance any, member, display string) *ValidationContext {
	return &ValidationContext{
		ObjectInstance: instance,
		Root:           vc.Root,
		MemberName:     member,
		DisplayName:    display,
		items:          vc.items,
		services:       vc.services,
	}
}

// CurrentDisplayName returns DisplayName, falling back to MemberName and
// then to the instance's type name.
func (vc *ValidationContext) CurrentDisplayName() string {
	if vc.DisplayName != "" {
		return vc.DisplayName
	}
	if vc.MemberName != "" {
		return vc.MemberName
	}
	if vc.ObjectInstance != nil {
		t := reflect.TypeOf(vc.ObjectInstance)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		return t.Name()
	}
	return ""
}

// Enumerable is implemented by types that expose their elements for
// positional validation, in addition to (or instead of) being a slice or
// map.
type Enumerable interface {
	Elements() iter.Seq[any]
}

// AsyncEnumerable is the suspending variant of Enumerable. The async walk
// iterates it natively; the sync walk applies the bridge policy.
type AsyncEnumerable interface {
	ElementStream(ctx context.Context) iter.Seq2[any, error]
}
