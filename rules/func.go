package rules

import (
	"context"
	"fmt"

	og "github.com/govalid/objectgraph"
)

// Func wraps a custom synchronous validation function as a rule.
type Func struct {
	// Name identifies the rule in violations and metrics.
	Name string

	// Fn performs the check. Returning a *Violation records a domain
	// failure; returning an error signals a programming mistake.
	Fn func(value any, vc *og.ValidationContext) (*og.Violation, error)

	// Message overrides the default template.
	Message string
}

// RuleName implements Rule.
func (r *Func) RuleName() string {
	if r.Name != "" {
		return r.Name
	}
	return "custom"
}

// ErrorMessage implements Rule.
func (r *Func) ErrorMessage() string { return r.Message }

// FormatMessage implements Rule.
func (r *Func) FormatMessage(displayName string) string {
	return format(r.Message, "%s is invalid", displayName)
}

// Evaluate implements SyncRule. A missing function is a programmer error.
func (r *Func) Evaluate(value any, vc *og.ValidationContext) (*og.Violation, error) {
	if r.Fn == nil {
		return nil, fmt.Errorf("custom rule %q: no validation function", r.RuleName())
	}
	return r.Fn(value, vc)
}

// AsyncFunc wraps a custom asynchronous validation function as a rule.
// The function may perform I/O and must honor ctx.
type AsyncFunc struct {
	// Name identifies the rule in violations and metrics.
	Name string

	// Fn performs the check.
	Fn func(ctx context.Context, value any, vc *og.ValidationContext) (*og.Violation, error)

	// Message overrides the default template.
	Message string
}

// RuleName implements Rule.
func (r *AsyncFunc) RuleName() string {
	if r.Name != "" {
		return r.Name
	}
	return "custom-async"
}

// ErrorMessage implements Rule.
func (r *AsyncFunc) ErrorMessage() string { return r.Message }

// FormatMessage implements Rule.
func (r *AsyncFunc) FormatMessage(displayName string) string {
	return format(r.Message, "%s is invalid", displayName)
}

// EvaluateAsync implements AsyncRule.
func (r *AsyncFunc) EvaluateAsync(ctx context.Context, value any, vc *og.ValidationContext) (*og.Violation, error) {
	if r.Fn == nil {
		return nil, fmt.Errorf("custom rule %q: no validation function", r.RuleName())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Fn(ctx, value, vc)
}
