package walker

import (
	"context"
	"fmt"
	"time"

	og "github.com/govalid/objectgraph"
	"github.com/govalid/objectgraph/rules"
	"github.com/govalid/objectgraph/schema"
	"github.com/govalid/objectgraph/syncwait"
)

// evalRule dispatches one rule evaluation. Synchronous rules run
// directly in both walk forms. Asynchronous rules suspend naturally in
// the async walk; in the sync walk they are subject to the bridge policy:
// Throw surfaces a programmer error, Ignore treats the rule as passing,
// TrySync blocks the calling goroutine until the rule completes.
func (w *Walker) evalRule(ctx context.Context, r rules.Rule, value any, vc *og.ValidationContext) (*og.Violation, error) {
	start := time.Now()
	var v *og.Violation
	var err error

	switch rr := r.(type) {
	case rules.SyncRule:
		v, err = rr.Evaluate(value, vc)
	case rules.AsyncRule:
		if w.syncMode {
			switch w.bridge {
			case og.BridgeIgnore:
				// Skipped; still counted as a passing invocation below.
			case og.BridgeTrySync:
				w.metrics.RecordBridge()
				v, err = syncwait.Await(ctx, func(ctx context.Context) (*og.Violation, error) {
					return rr.EvaluateAsync(ctx, value, vc)
				})
			default:
				return nil, fmt.Errorf("%w: rule %q", og.ErrAsyncRuleRequiresBridge, r.RuleName())
			}
		} else {
			v, err = rr.EvaluateAsync(ctx, value, vc)
		}
	default:
		return nil, fmt.Errorf("objectgraph: rule %q implements neither SyncRule nor AsyncRule", r.RuleName())
	}

	w.metrics.RecordRule(r.RuleName(), time.Since(start), v != nil)
	return v, err
}

// record resolves a violation's member names to field identifiers and
// either appends to the store or, with no store, converts the failure
// into the walk-aborting *og.ValidationError.
func (w *Walker) record(s *walkState, ownerInstance any, ownerSchema *schema.Schema, currentID, parentID *og.FieldIdentifier, v og.Violation) error {
	if w.store == nil {
		return &og.ValidationError{Violation: v}
	}
	for _, id := range w.resolveIDs(ownerInstance, ownerSchema, currentID, parentID, v.MemberNames) {
		w.store.Add(id, v)
	}
	return nil
}

// resolveIDs maps a violation's member names onto field identifiers
// scoped to the current owner object. A member naming a real property of
// the owner gets its own identifier, so a rule evaluated on property A
// can attribute a failure to sibling property B. Unknown members fall
// back to the current identifier rather than being dropped.
func (w *Walker) resolveIDs(ownerInstance any, ownerSchema *schema.Schema, currentID, parentID *og.FieldIdentifier, members []string) []*og.FieldIdentifier {
	if len(members) == 0 {
		return []*og.FieldIdentifier{currentID}
	}

	ids := make([]*og.FieldIdentifier, 0, len(members))
	seen := make(map[og.Key]struct{}, len(members))
	add := func(id *og.FieldIdentifier) {
		key := id.Key()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		ids = append(ids, id)
	}

	for _, m := range members {
		if m == currentID.FieldName() {
			add(currentID)
			continue
		}
		if ownerSchema != nil && ownerSchema.Property(m) != nil {
			add(og.NewFieldID(ownerInstance, m, parentID))
			continue
		}
		add(currentID)
	}
	return ids
}
