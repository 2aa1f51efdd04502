// Package rules defines the validation rule contract and the built-in
// rules.
//
// A rule is the unit of a single testable constraint. Rules are either
// synchronous (Evaluate) or asynchronous (EvaluateAsync), never both; the
// walker dispatches on which interface a rule satisfies. Rule evaluation
// separates outcomes strictly: a *Violation is a domain failure destined
// for the result store, while the error return is reserved for programming
// mistakes (malformed configuration, type mismatches) and cancellation.
package rules

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	og "github.com/govalid/objectgraph"
)

// Rule is the common surface of every validation rule.
type Rule interface {
	og.Rule

	// ErrorMessage returns the explicitly configured message template, or
	// "" when the rule falls back to its default template.
	ErrorMessage() string

	// FormatMessage renders the failure message for a field with the
	// given display name, interpolating any rule-specific format args.
	FormatMessage(displayName string) string
}

// SyncRule is a strictly synchronous rule. Evaluate must not block on
// external work.
type SyncRule interface {
	Rule
	Evaluate(value any, vc *og.ValidationContext) (*og.Violation, error)
}

// AsyncRule is a strictly asynchronous rule: it may perform I/O or
// downstream calls and must honor ctx cancellation. Synchronous walks run
// it only through an explicit bridge policy.
type AsyncRule interface {
	Rule
	EvaluateAsync(ctx context.Context, value any, vc *og.ValidationContext) (*og.Violation, error)
}

// FindRequired returns the first Required rule in rs, or nil. The walker
// always evaluates it before any other rule on a property.
func FindRequired(rs []Rule) *Required {
	for _, r := range rs {
		if req, ok := r.(*Required); ok {
			return req
		}
	}
	return nil
}

// format renders custom (when set) or fallback with args. Both are fmt
// templates whose first argument is the field display name; a custom
// message without format verbs is returned verbatim.
func format(custom, fallback string, args ...any) string {
	if custom != "" {
		if !strings.Contains(custom, "%") {
			return custom
		}
		return fmt.Sprintf(custom, args...)
	}
	return fmt.Sprintf(fallback, args...)
}

// violate builds a Violation for r against the context's current member.
func violate(r Rule, vc *og.ValidationContext, value any, members ...string) *og.Violation {
	if len(members) == 0 && vc.MemberName != "" {
		members = []string{vc.MemberName}
	}
	return &og.Violation{
		Message:     r.FormatMessage(vc.CurrentDisplayName()),
		MemberNames: members,
		Rule:        r,
		Value:       value,
	}
}

// isNilValue reports whether v is nil or a nil pointer/map/slice/etc.
// Rules other than Required treat nil as valid so that required-ness is
// reported exactly once.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
