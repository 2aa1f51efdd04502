package engine

import (
	"context"

	og "github.com/govalid/objectgraph"
	"github.com/govalid/objectgraph/rules"
)

// One-shot forms. Each call builds a throwaway Validator from opts; use
// the Validator type directly when validating repeatedly with the same
// configuration.

// TryValidateObject validates instance and its reachable subgraph into
// results. See Validator.TryValidateObject.
func TryValidateObject(ctx context.Context, instance any, vc *og.ValidationContext, results *og.Store, validateAll bool, opts ...og.Option) (bool, error) {
	return New(opts...).TryValidateObject(ctx, vc, instance, results, validateAll)
}

// ValidateObject validates instance, returning the first domain failure
// as a *og.ValidationError.
func ValidateObject(ctx context.Context, instance any, vc *og.ValidationContext, validateAll bool, opts ...og.Option) error {
	return New(opts...).ValidateObject(ctx, vc, instance, validateAll)
}

// TryValidateProperty validates value against the property named by
// vc.MemberName on vc.ObjectInstance.
func TryValidateProperty(ctx context.Context, value any, vc *og.ValidationContext, results *og.Store, opts ...og.Option) (bool, error) {
	return New(opts...).TryValidateProperty(ctx, vc, value, results)
}

// ValidateProperty is the first-failure form of TryValidateProperty.
func ValidateProperty(ctx context.Context, value any, vc *og.ValidationContext, opts ...og.Option) error {
	return New(opts...).ValidateProperty(ctx, vc, value)
}

// TryValidateValue validates a bare value against an explicit rule list.
func TryValidateValue(ctx context.Context, value any, vc *og.ValidationContext, results *og.Store, rs []rules.Rule, opts ...og.Option) (bool, error) {
	return New(opts...).TryValidateValue(ctx, vc, value, results, rs)
}

// ValidateValue is the first-failure form of TryValidateValue.
func ValidateValue(ctx context.Context, value any, vc *og.ValidationContext, rs []rules.Rule, opts ...og.Option) error {
	return New(opts...).ValidateValue(ctx, vc, value, rs)
}

// TryValidateObjectSync is the synchronous one-shot object walk; async
// rules follow the bridge policy from opts.
func TryValidateObjectSync(instance any, vc *og.ValidationContext, results *og.Store, validateAll bool, opts ...og.Option) (bool, error) {
	return New(opts...).TryValidateObjectSync(vc, instance, results, validateAll)
}

// ValidateObjectSync is the synchronous first-failure object walk.
func ValidateObjectSync(instance any, vc *og.ValidationContext, validateAll bool, opts ...og.Option) error {
	return New(opts...).ValidateObjectSync(vc, instance, validateAll)
}

// TryValidatePropertySync is the synchronous one-shot property walk.
func TryValidatePropertySync(value any, vc *og.ValidationContext, results *og.Store, opts ...og.Option) (bool, error) {
	return New(opts...).TryValidatePropertySync(vc, value, results)
}

// ValidatePropertySync is the synchronous first-failure property walk.
func ValidatePropertySync(value any, vc *og.ValidationContext, opts ...og.Option) error {
	return New(opts...).ValidatePropertySync(vc, value)
}

// TryValidateValueSync is the synchronous one-shot value walk.
func TryValidateValueSync(value any, vc *og.ValidationContext, results *og.Store, rs []rules.Rule, opts ...og.Option) (bool, error) {
	return New(opts...).TryValidateValueSync(vc, value, results, rs)
}

// ValidateValueSync is the synchronous first-failure value walk.
func ValidateValueSync(value any, vc *og.ValidationContext, rs []rules.Rule, opts ...og.Option) error {
	return New(opts...).ValidateValueSync(vc, value, rs)
}
