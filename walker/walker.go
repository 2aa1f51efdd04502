package walker

import (
	"context"
	"fmt"
	"reflect"

	og "github.com/govalid/objectgraph"
	"github.com/govalid/objectgraph/rules"
	"github.com/govalid/objectgraph/schema"
)

// Walker drives one or more graph walks with a fixed configuration.
// A Walker is reusable across walks; the per-invocation state lives in
// each ValidationContext's items bag.
type Walker struct {
	store       *og.Store
	validateAll bool
	bridge      og.BridgePolicy
	typeFilter  func(reflect.Type) bool
	metrics     *og.Metrics
	syncMode    bool
}

// New creates a walker for the asynchronous walk form. A nil store
// selects break-on-first-error: the first domain failure is returned as a
// *og.ValidationError and the rest of the walk is abandoned.
func New(store *og.Store, validateAll bool, opts *og.Options) *Walker {
	if opts == nil {
		opts = og.DefaultOptions()
	}
	return &Walker{
		store:       store,
		validateAll: validateAll,
		bridge:      opts.Bridge,
		typeFilter:  opts.TypeFilter,
		metrics:     opts.Metrics,
	}
}

// NewSync creates a walker for the synchronous walk form. Asynchronous
// rules encountered during the walk are handled per the bridge policy in
// opts.
func NewSync(store *og.Store, validateAll bool, opts *og.Options) *Walker {
	w := New(store, validateAll, opts)
	w.syncMode = true
	return w
}

// stateKey keys the per-invocation walk state in the context items bag.
type stateKey struct{}

// walkState is the per-invocation state: the visited-objects set for
// cycle detection and the root of the owner chain. It is seeded into the
// ValidationContext on the first walk and its presence on a later walk is
// how context reuse is detected.
type walkState struct {
	visited map[og.IdentityKey]struct{}
	root    *og.FieldIdentifier
}

func (w *Walker) begin(vc *og.ValidationContext, root *og.FieldIdentifier) (*walkState, error) {
	if _, ok := vc.Item(stateKey{}); ok {
		return nil, og.ErrContextReused
	}
	s := &walkState{
		visited: make(map[og.IdentityKey]struct{}),
		root:    root,
	}
	vc.SetItem(stateKey{}, s)
	return s, nil
}

// WalkObject validates instance and everything reachable from it.
// vc must be fresh; its DisplayName (or MemberName) names the root in
// rendered paths.
func (w *Walker) WalkObject(ctx context.Context, vc *og.ValidationContext, instance any) error {
	if instance == nil {
		return fmt.Errorf("objectgraph: cannot validate a nil instance")
	}

	rootID := og.TopLevelField(vc.CurrentDisplayName())
	s, err := w.begin(vc, rootID)
	if err != nil {
		return err
	}

	val, inst, ok := box(instance)
	if !ok {
		return fmt.Errorf("objectgraph: cannot validate a nil instance")
	}

	nodeVC := vc.Child(inst, vc.MemberName, vc.DisplayName)
	return w.walkNode(ctx, s, nodeVC, val, inst, rootID)
}

// WalkProperty validates the named property of vc.ObjectInstance against
// the supplied value: required first, then the property's remaining rules,
// then a recursive descent into the value's own subgraph when it is
// non-nil and validatable. The property name comes from vc.MemberName.
func (w *Walker) WalkProperty(ctx context.Context, vc *og.ValidationContext, value any) error {
	if vc.ObjectInstance == nil {
		return fmt.Errorf("objectgraph: property validation requires an object instance")
	}
	if vc.MemberName == "" {
		return fmt.Errorf("objectgraph: property validation requires a member name")
	}

	val, inst, ok := box(vc.ObjectInstance)
	if !ok || val.Kind() != reflect.Struct {
		return fmt.Errorf("objectgraph: property validation requires a struct instance, got %T", vc.ObjectInstance)
	}

	sch, err := schema.Lookup(val.Type())
	if err != nil {
		return err
	}
	p := sch.Property(vc.MemberName)
	if p == nil {
		return fmt.Errorf("objectgraph: type %s has no property %q", val.Type(), vc.MemberName)
	}
	if value != nil {
		vt := reflect.TypeOf(value)
		if !vt.AssignableTo(p.Type) {
			return fmt.Errorf("objectgraph: value of type %s is not assignable to property %s.%s (%s)", vt, val.Type(), p.Name, p.Type)
		}
	}

	fieldID := og.NewFieldID(inst, p.Name, nil)
	s, err := w.begin(vc, fieldID)
	if err != nil {
		return err
	}

	display := vc.DisplayName
	if display == "" {
		display = p.DisplayName
	}
	pvc := vc.Child(inst, p.Name, display)

	// Required runs first and gates both the remaining rules and the
	// descent.
	if req := rules.FindRequired(p.Rules); req != nil {
		v, err := w.evalRule(ctx, req, value, pvc)
		if err != nil {
			return err
		}
		if v != nil {
			return w.record(s, inst, sch, fieldID, nil, *v)
		}
	}

	for _, r := range p.Rules {
		if _, isReq := r.(*rules.Required); isReq {
			continue
		}
		v, err := w.evalRule(ctx, r, value, pvc)
		if err != nil {
			return err
		}
		if v != nil {
			if err := w.record(s, inst, sch, fieldID, nil, *v); err != nil {
				return err
			}
		}
	}

	// Property-only validation still descends into the value's own
	// complex sub-properties.
	if value == nil || !w.validatable(reflect.TypeOf(value)) {
		return nil
	}
	cval, cinst, ok := box(value)
	if !ok {
		return nil
	}
	cvc := vc.Child(cinst, p.Name, display)
	return w.walkNode(ctx, s, cvc, cval, cinst, fieldID)
}

// WalkValue validates a bare value against an explicit rule list. No
// recursive descent takes place. Failures are attributed to a top-level
// identifier named by the context's display name.
func (w *Walker) WalkValue(ctx context.Context, vc *og.ValidationContext, value any, rs []rules.Rule) error {
	rootID := og.TopLevelField(vc.CurrentDisplayName())
	s, err := w.begin(vc, rootID)
	if err != nil {
		return err
	}

	if req := rules.FindRequired(rs); req != nil {
		v, err := w.evalRule(ctx, req, value, vc)
		if err != nil {
			return err
		}
		if v != nil {
			return w.record(s, nil, nil, rootID, nil, *v)
		}
	}

	for _, r := range rs {
		if _, isReq := r.(*rules.Required); isReq {
			continue
		}
		v, err := w.evalRule(ctx, r, value, vc)
		if err != nil {
			return err
		}
		if v != nil {
			if err := w.record(s, nil, nil, rootID, nil, *v); err != nil {
				return err
			}
		}
	}
	return nil
}

// validatable applies the built-in exclusion list and then the caller's
// type filter.
func (w *Walker) validatable(t reflect.Type) bool {
	return schema.Validatable(t, w.typeFilter)
}

// box normalizes an instance for walking: struct values are re-boxed
// behind a pointer so nested fields are addressable and carry reference
// identity; pointers are dereferenced to their struct. ok is false for
// nil instances.
func box(instance any) (val reflect.Value, canonical any, ok bool) {
	rv := reflect.ValueOf(instance)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return reflect.Value{}, nil, false
		}
		if rv.Elem().Kind() == reflect.Struct {
			return rv.Elem(), instance, true
		}
		return rv.Elem(), instance, true
	case reflect.Struct:
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		return p.Elem(), p.Interface(), true
	case reflect.Invalid:
		return reflect.Value{}, nil, false
	default:
		// Maps, slices, and other reference kinds walk as-is.
		return rv, instance, true
	}
}
