// Package engine provides the high-level validation entry points over
// the graph walker: collecting (Try*) and first-failure (Validate*)
// forms of object, property, and value validation, each in an
// asynchronous and a synchronous variant, plus a reusable Validator
// facade with metrics and batch support.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	og "github.com/govalid/objectgraph"
	"github.com/govalid/objectgraph/rules"
	"github.com/govalid/objectgraph/walker"
)

// Validator is a reusable validation facade. It fixes the options once,
// records walk metrics, and bounds batch concurrency.
type Validator struct {
	options *og.Options
	metrics *og.Metrics

	workerPool     chan struct{}
	workerPoolOnce sync.Once
}

// New creates a Validator. Unless WithMetrics supplies a sink, the
// validator records into its own Metrics, available via Metrics().
func New(opts ...og.Option) *Validator {
	options := og.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.Metrics == nil {
		options.Metrics = og.NewMetrics()
	}
	return &Validator{
		options: options,
		metrics: options.Metrics,
	}
}

// Metrics returns the validator's metrics sink.
func (v *Validator) Metrics() *og.Metrics {
	return v.metrics
}

// Options returns the validator's resolved options.
func (v *Validator) Options() *og.Options {
	return v.options
}

// TryValidateObject validates instance and its reachable subgraph,
// collecting failures into results. validateAll=false restricts the
// property pass to required rules. The bool reports whether the walk
// found no domain failures; err reports walk-level problems
// (configuration mistakes, context cancellation, rule infrastructure
// errors), never ordinary rule failures.
func (v *Validator) TryValidateObject(ctx context.Context, vc *og.ValidationContext, instance any, results *og.Store, validateAll bool) (bool, error) {
	return tryWalk(v.options, results, func(w *walker.Walker) error {
		return w.WalkObject(ctx, vc, instance)
	}, walkAsync(results, validateAll, v.options))
}

// ValidateObject validates instance and its reachable subgraph,
// returning a *og.ValidationError for the first domain failure
// encountered, in walk order.
func (v *Validator) ValidateObject(ctx context.Context, vc *og.ValidationContext, instance any, validateAll bool) error {
	return firstWalk(v.options, func(w *walker.Walker) error {
		return w.WalkObject(ctx, vc, instance)
	}, walkAsync(nil, validateAll, v.options))
}

// TryValidateProperty validates value against the rules of the property
// named by vc.MemberName on vc.ObjectInstance, then descends into the
// value's own subgraph.
func (v *Validator) TryValidateProperty(ctx context.Context, vc *og.ValidationContext, value any, results *og.Store) (bool, error) {
	return tryWalk(v.options, results, func(w *walker.Walker) error {
		return w.WalkProperty(ctx, vc, value)
	}, walkAsync(results, true, v.options))
}

// ValidateProperty is the first-failure form of TryValidateProperty.
func (v *Validator) ValidateProperty(ctx context.Context, vc *og.ValidationContext, value any) error {
	return firstWalk(v.options, func(w *walker.Walker) error {
		return w.WalkProperty(ctx, vc, value)
	}, walkAsync(nil, true, v.options))
}

// TryValidateValue validates a bare value against an explicit rule
// list. No recursive descent takes place.
func (v *Validator) TryValidateValue(ctx context.Context, vc *og.ValidationContext, value any, results *og.Store, rs []rules.Rule) (bool, error) {
	return tryWalk(v.options, results, func(w *walker.Walker) error {
		return w.WalkValue(ctx, vc, value, rs)
	}, walkAsync(results, true, v.options))
}

// ValidateValue is the first-failure form of TryValidateValue.
func (v *Validator) ValidateValue(ctx context.Context, vc *og.ValidationContext, value any, rs []rules.Rule) error {
	return firstWalk(v.options, func(w *walker.Walker) error {
		return w.WalkValue(ctx, vc, value, rs)
	}, walkAsync(nil, true, v.options))
}

// TryValidateObjectSync is TryValidateObject without suspension points.
// Asynchronous rules encountered during the walk are subject to the
// validator's bridge policy.
func (v *Validator) TryValidateObjectSync(vc *og.ValidationContext, instance any, results *og.Store, validateAll bool) (bool, error) {
	return tryWalk(v.options, results, func(w *walker.Walker) error {
		return w.WalkObject(context.Background(), vc, instance)
	}, walker.NewSync(results, validateAll, v.options))
}

// ValidateObjectSync is the first-failure synchronous object walk.
func (v *Validator) ValidateObjectSync(vc *og.ValidationContext, instance any, validateAll bool) error {
	return firstWalk(v.options, func(w *walker.Walker) error {
		return w.WalkObject(context.Background(), vc, instance)
	}, walker.NewSync(nil, validateAll, v.options))
}

// TryValidatePropertySync is the synchronous form of TryValidateProperty.
func (v *Validator) TryValidatePropertySync(vc *og.ValidationContext, value any, results *og.Store) (bool, error) {
	return tryWalk(v.options, results, func(w *walker.Walker) error {
		return w.WalkProperty(context.Background(), vc, value)
	}, walker.NewSync(results, true, v.options))
}

// ValidatePropertySync is the first-failure synchronous property walk.
func (v *Validator) ValidatePropertySync(vc *og.ValidationContext, value any) error {
	return firstWalk(v.options, func(w *walker.Walker) error {
		return w.WalkProperty(context.Background(), vc, value)
	}, walker.NewSync(nil, true, v.options))
}

// TryValidateValueSync is the synchronous form of TryValidateValue.
func (v *Validator) TryValidateValueSync(vc *og.ValidationContext, value any, results *og.Store, rs []rules.Rule) (bool, error) {
	return tryWalk(v.options, results, func(w *walker.Walker) error {
		return w.WalkValue(context.Background(), vc, value, rs)
	}, walker.NewSync(results, true, v.options))
}

// ValidateValueSync is the first-failure synchronous value walk.
func (v *Validator) ValidateValueSync(vc *og.ValidationContext, value any, rs []rules.Rule) error {
	return firstWalk(v.options, func(w *walker.Walker) error {
		return w.WalkValue(context.Background(), vc, value, rs)
	}, walker.NewSync(nil, true, v.options))
}

func walkAsync(results *og.Store, validateAll bool, options *og.Options) *walker.Walker {
	return walker.New(results, validateAll, options)
}

// tryWalk runs a collecting walk and folds the outcome into the Try*
// contract: domain failures land in results (or, with a nil store, turn
// the first failure into a clean false), everything else is an error.
func tryWalk(options *og.Options, results *og.Store, walk func(*walker.Walker) error, w *walker.Walker) (bool, error) {
	start := time.Now()
	err := walk(w)
	ok, err := outcome(results, err)
	options.Metrics.RecordWalk(time.Since(start), ok)
	return ok, err
}

// firstWalk runs a break-on-first-error walk; the first domain failure
// comes back as a *og.ValidationError.
func firstWalk(options *og.Options, walk func(*walker.Walker) error, w *walker.Walker) error {
	start := time.Now()
	err := walk(w)
	options.Metrics.RecordWalk(time.Since(start), err == nil)
	return err
}

func outcome(results *og.Store, err error) (bool, error) {
	if err != nil {
		var ve *og.ValidationError
		if errors.As(err, &ve) {
			// Only possible with a nil store: the walk aborted at the
			// first failure, which is exactly what the caller asked for.
			return false, nil
		}
		return false, err
	}
	if results == nil {
		return true, nil
	}
	return results.Valid(), nil
}
