package objectgraph

import (
	"context"
	"strings"
)

// Rule is the minimal contract a validation rule satisfies for provenance
// purposes. The full sync/async evaluation contracts live in the rules
// package; this package only needs to identify the originating rule on a
// Violation.
type Rule interface {
	// RuleName returns a short stable name for the rule, e.g. "required".
	RuleName() string
}

// Violation is a single recorded validation failure.
//
// A Violation is a domain-level outcome, not a Go error: rule evaluation
// returns a *Violation for constraint failures and reserves its error
// return for programming mistakes (malformed rule configuration, type
// mismatches, cancellation).
type Violation struct {
	// Message is the human-readable failure message, already formatted
	// with the field's display name.
	Message string

	// MemberNames lists the members implicated by the failure. It may be
	// empty (the failure applies to the value under test), name the member
	// being validated, or name sibling members for cross-field rules.
	MemberNames []string

	// Rule is the rule that produced the failure, kept so a caller can
	// re-derive a localized message later. May be nil for self-validation
	// results.
	Rule Rule

	// Value is the offending value at the time of evaluation.
	Value any
}

// String returns "message" or "message [member, member]".
func (v Violation) String() string {
	if len(v.MemberNames) == 0 {
		return v.Message
	}
	return v.Message + " [" + strings.Join(v.MemberNames, ", ") + "]"
}

// ValidationError is the error returned by throw-variant entry points when
// a walk is run without a Store: the first domain failure aborts the walk
// and is surfaced as this error. It carries the failing rule and value so
// callers can distinguish it from configuration errors.
type ValidationError struct {
	Violation Violation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Violation.Message
}

// SelfValidating is implemented by types that carry whole-object checks in
// addition to declared rules. The walker invokes it after property-level
// and type-level rules.
type SelfValidating interface {
	ValidateSelf(vc *ValidationContext) []Violation
}

// AsyncSelfValidating is the suspending variant of SelfValidating. In a
// synchronous walk it is subject to the bridge policy like any async rule.
type AsyncSelfValidating interface {
	ValidateSelfAsync(ctx context.Context, vc *ValidationContext) ([]Violation, error)
}
