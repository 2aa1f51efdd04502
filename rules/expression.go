package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/govalid/objectgraph/cache"

	og "github.com/govalid/objectgraph"
)

// programCache holds compiled expression programs keyed by source text.
var programCache = cache.New[string, *vm.Program](256)

// Expression evaluates a boolean expr-lang program against the value and
// its surroundings. The environment exposes:
//
//	value  - the value under test
//	object - the owning object instance
//	root   - the walk's root object
//
// Expression rules are typically declared at type level for cross-field
// constraints; Members names the members a failure should be attributed
// to.
type Expression struct {
	Code    string
	Members []string

	// Message overrides the default template.
	Message string
}

// RuleName implements Rule.
func (r *Expression) RuleName() string { return "expression" }

// ErrorMessage implements Rule.
func (r *Expression) ErrorMessage() string { return r.Message }

// FormatMessage implements Rule.
func (r *Expression) FormatMessage(displayName string) string {
	return format(r.Message, "%s is invalid", displayName)
}

// Evaluate implements SyncRule. Compile failures and non-boolean results
// are programmer errors.
func (r *Expression) Evaluate(value any, vc *og.ValidationContext) (*og.Violation, error) {
	if r.Code == "" {
		return nil, fmt.Errorf("expression rule: empty program")
	}

	prog, err := programCache.GetOrCompute(r.Code, func() (*vm.Program, error) {
		return expr.Compile(r.Code, expr.AllowUndefinedVariables())
	})
	if err != nil {
		return nil, fmt.Errorf("expression rule %q: %w", r.Code, err)
	}

	env := map[string]any{
		"value":  value,
		"object": vc.ObjectInstance,
		"root":   vc.Root,
	}
	out, err := expr.Run(prog, env)
	if err != nil {
		return nil, fmt.Errorf("expression rule %q: %w", r.Code, err)
	}

	ok, isBool := out.(bool)
	if !isBool {
		return nil, fmt.Errorf("expression rule %q: result is %T, want bool", r.Code, out)
	}
	if !ok {
		return violate(r, vc, value, r.Members...), nil
	}
	return nil, nil
}
