package walker

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	og "github.com/govalid/objectgraph"
	"github.com/govalid/objectgraph/rules"
	"github.com/govalid/objectgraph/schema"
	"github.com/govalid/objectgraph/syncwait"
)

// walkNode validates a single node and everything reachable from it.
//
// val is the dereferenced value (an addressable struct, map, or slice);
// instance is its canonical reference form used for identity and rule
// contexts; nodeID identifies the node in the owner chain.
//
// Per node: cycle guard, property rules (required first), type-level
// rules, self-validation hooks, then recursive descent into complex
// properties and enumerable elements. Under break-on-first-error the walk
// aborts at the first property failure, so type-level rules only ever run
// against property-clean objects in that mode; when collecting, they
// always run.
func (w *Walker) walkNode(ctx context.Context, s *walkState, vc *og.ValidationContext, val reflect.Value, instance any, nodeID *og.FieldIdentifier) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Entry guard: each distinct reference is validated at most once per
	// walk. Shared references and cycles short-circuit here.
	if key, ok := og.IdentityOf(instance); ok {
		if _, seen := s.visited[key]; seen {
			return nil
		}
		s.visited[key] = struct{}{}
	}

	var sch *schema.Schema
	if val.Kind() == reflect.Struct {
		var err error
		sch, err = schema.Lookup(val.Type())
		if err != nil {
			return err
		}

		if err := w.propertyPass(ctx, s, vc, val, instance, sch, nodeID); err != nil {
			return err
		}
		if err := w.typePass(ctx, s, vc, instance, sch, nodeID); err != nil {
			return err
		}
	}

	if err := w.selfPass(ctx, s, vc, instance, sch, nodeID); err != nil {
		return err
	}

	if sch != nil {
		if err := w.descendProperties(ctx, s, vc, val, instance, sch, nodeID); err != nil {
			return err
		}
	}

	return w.descendElements(ctx, s, vc, val, instance, nodeID)
}

// propertyPass runs each property's rules in declaration order, required
// first. A required failure short-circuits the property's remaining
// rules. In required-only mode (validateAll=false) only required rules
// run.
func (w *Walker) propertyPass(ctx context.Context, s *walkState, vc *og.ValidationContext, val reflect.Value, instance any, sch *schema.Schema, nodeID *og.FieldIdentifier) error {
	for i := range sch.Properties {
		p := &sch.Properties[i]
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(p.Rules) == 0 {
			continue
		}

		pval := propertyValue(p.Value(val))
		pvc := vc.Child(instance, p.Name, p.DisplayName)
		fieldID := og.NewFieldID(instance, p.Name, nodeID)

		req := rules.FindRequired(p.Rules)
		if req != nil {
			v, err := w.evalRule(ctx, req, pval, pvc)
			if err != nil {
				return err
			}
			if v != nil {
				if err := w.record(s, instance, sch, fieldID, nodeID, *v); err != nil {
					return err
				}
				// Required failure short-circuits this property.
				continue
			}
		}

		if !w.validateAll {
			continue
		}

		for _, r := range p.Rules {
			if rr, ok := r.(*rules.Required); ok && rr == req {
				continue
			}
			v, err := w.evalRule(ctx, r, pval, pvc)
			if err != nil {
				return err
			}
			if v != nil {
				if err := w.record(s, instance, sch, fieldID, nodeID, *v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// typePass runs the rules declared on the object's own type, with the
// instance as the value under test.
func (w *Walker) typePass(ctx context.Context, s *walkState, vc *og.ValidationContext, instance any, sch *schema.Schema, nodeID *og.FieldIdentifier) error {
	if len(sch.TypeRules) == 0 {
		return nil
	}
	tvc := vc.Child(instance, "", vc.CurrentDisplayName())
	for _, r := range sch.TypeRules {
		v, err := w.evalRule(ctx, r, instance, tvc)
		if err != nil {
			return err
		}
		if v != nil {
			if err := w.record(s, instance, sch, nodeID, nodeID, *v); err != nil {
				return err
			}
		}
	}
	return nil
}

// selfPass invokes the object's self-validation hooks, sync then async,
// folding their violations in with the same member attribution as rules.
func (w *Walker) selfPass(ctx context.Context, s *walkState, vc *og.ValidationContext, instance any, sch *schema.Schema, nodeID *og.FieldIdentifier) error {
	tvc := vc.Child(instance, "", vc.CurrentDisplayName())

	if sv, ok := instance.(og.SelfValidating); ok {
		for _, v := range sv.ValidateSelf(tvc) {
			if err := w.record(s, instance, sch, nodeID, nodeID, v); err != nil {
				return err
			}
		}
	}

	if av, ok := instance.(og.AsyncSelfValidating); ok {
		var vs []og.Violation
		var err error
		if w.syncMode {
			switch w.bridge {
			case og.BridgeIgnore:
				return nil
			case og.BridgeTrySync:
				w.metrics.RecordBridge()
				vs, err = syncwait.Await(ctx, func(ctx context.Context) ([]og.Violation, error) {
					return av.ValidateSelfAsync(ctx, tvc)
				})
			default:
				return fmt.Errorf("%w: %T self-validation", og.ErrAsyncRuleRequiresBridge, instance)
			}
		} else {
			vs, err = av.ValidateSelfAsync(ctx, tvc)
		}
		if err != nil {
			return err
		}
		for _, v := range vs {
			if err := w.record(s, instance, sch, nodeID, nodeID, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// descendProperties recursively validates every property whose declared
// type is validatable and whose current value is non-nil.
func (w *Walker) descendProperties(ctx context.Context, s *walkState, vc *og.ValidationContext, val reflect.Value, instance any, sch *schema.Schema, nodeID *og.FieldIdentifier) error {
	for i := range sch.Properties {
		p := &sch.Properties[i]
		if err := ctx.Err(); err != nil {
			return err
		}
		if !w.validatable(p.Type) {
			continue
		}

		cval, cinst, ok := canonicalize(p.Value(val))
		if !ok {
			continue
		}
		// Interface-typed properties classify by the runtime type.
		if p.Type.Kind() == reflect.Interface && !w.validatable(cval.Type()) {
			continue
		}

		fieldID := og.NewFieldID(instance, p.Name, nodeID)
		cvc := vc.Child(cinst, p.Name, p.DisplayName)
		if err := w.walkNode(ctx, s, cvc, cval, cinst, fieldID); err != nil {
			return err
		}
	}
	return nil
}

// descendElements iterates the node's own elements, if it has any, and
// recursively validates each non-nil element whose runtime type is
// validatable. Elements are identified by position; map-shaped nodes are
// validated purely as "iterate values", in sorted-key order so walks stay
// deterministic.
func (w *Walker) descendElements(ctx context.Context, s *walkState, vc *og.ValidationContext, val reflect.Value, instance any, nodeID *og.FieldIdentifier) error {
	if ae, ok := instance.(og.AsyncEnumerable); ok {
		return w.descendAsyncElements(ctx, s, vc, ae, instance, nodeID)
	}

	if en, ok := instance.(og.Enumerable); ok {
		idx := 0
		for e := range en.Elements() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := w.walkElement(ctx, s, vc, e, instance, idx, nodeID); err != nil {
				return err
			}
			idx++
		}
		return nil
	}

	switch val.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < val.Len(); i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			ev := val.Index(i)
			if err := w.walkElementValue(ctx, s, vc, ev, instance, i, nodeID); err != nil {
				return err
			}
		}
	case reflect.Map:
		keys := val.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for i, k := range keys {
			if err := ctx.Err(); err != nil {
				return err
			}
			ev := val.MapIndex(k)
			if err := w.walkElementValue(ctx, s, vc, ev, instance, i, nodeID); err != nil {
				return err
			}
		}
	}
	return nil
}

// descendAsyncElements iterates an asynchronously-enumerable node. The
// async walk suspends at each step; the sync walk applies the bridge
// policy to the whole iteration.
func (w *Walker) descendAsyncElements(ctx context.Context, s *walkState, vc *og.ValidationContext, ae og.AsyncEnumerable, instance any, nodeID *og.FieldIdentifier) error {
	if w.syncMode {
		switch w.bridge {
		case og.BridgeIgnore:
			return nil
		case og.BridgeTrySync:
			w.metrics.RecordBridge()
			elems, err := syncwait.Await(ctx, func(ctx context.Context) ([]any, error) {
				var out []any
				for e, err := range ae.ElementStream(ctx) {
					if err != nil {
						return nil, err
					}
					out = append(out, e)
				}
				return out, nil
			})
			if err != nil {
				return err
			}
			for i, e := range elems {
				if err := w.walkElement(ctx, s, vc, e, instance, i, nodeID); err != nil {
					return err
				}
			}
			return nil
		default:
			return fmt.Errorf("%w: %T iteration", og.ErrAsyncRuleRequiresBridge, instance)
		}
	}

	idx := 0
	for e, err := range ae.ElementStream(ctx) {
		if err != nil {
			return err
		}
		if err := w.walkElement(ctx, s, vc, e, instance, idx, nodeID); err != nil {
			return err
		}
		idx++
	}
	return nil
}

// walkElement validates one element (as an any) at the given position.
func (w *Walker) walkElement(ctx context.Context, s *walkState, vc *og.ValidationContext, elem any, owner any, index int, nodeID *og.FieldIdentifier) error {
	if elem == nil {
		return nil
	}
	return w.walkElementValue(ctx, s, vc, reflect.ValueOf(elem), owner, index, nodeID)
}

// walkElementValue validates one element (as a reflect.Value) at the
// given position, skipping nil and non-validatable elements.
func (w *Walker) walkElementValue(ctx context.Context, s *walkState, vc *og.ValidationContext, ev reflect.Value, owner any, index int, nodeID *og.FieldIdentifier) error {
	if !ev.IsValid() {
		return nil
	}
	cval, cinst, ok := canonicalize(ev)
	if !ok {
		return nil
	}
	if !w.validatable(cval.Type()) {
		return nil
	}

	elemID := og.NewIndexID(owner, index, nodeID)
	evc := vc.Child(cinst, "", "")
	return w.walkNode(ctx, s, evc, cval, cinst, elemID)
}

// propertyValue extracts a property's value as an any, preserving typed
// nils so Required can report them.
func propertyValue(pv reflect.Value) any {
	if !pv.IsValid() {
		return nil
	}
	return pv.Interface()
}

// canonicalize prepares a value for descent: pointers and interfaces are
// unwrapped (ok=false when nil), struct values without an address are
// re-boxed so their fields become addressable, and maps/slices pass
// through with their own reference identity. The canonical instance is
// what identity and rule contexts see.
func canonicalize(v reflect.Value) (val reflect.Value, instance any, ok bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, nil, false
		}
		if v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Struct {
			return v.Elem(), v.Interface(), true
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		if v.CanAddr() {
			return v, v.Addr().Interface(), true
		}
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return p.Elem(), p.Interface(), true
	case reflect.Map, reflect.Slice:
		if v.IsNil() {
			return reflect.Value{}, nil, false
		}
		return v, v.Interface(), true
	case reflect.Invalid:
		return reflect.Value{}, nil, false
	default:
		return v, v.Interface(), true
	}
}
