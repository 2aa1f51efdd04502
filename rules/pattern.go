package rules

import (
	"fmt"
	"regexp"

	"github.com/govalid/objectgraph/cache"

	og "github.com/govalid/objectgraph"
)

// regexCache holds compiled patterns keyed by source text, shared by all
// Pattern rules in the process.
var regexCache = cache.New[string, *regexp.Regexp](256)

// Pattern checks that a string value matches a regular expression.
type Pattern struct {
	Expr string

	// Message overrides the default template. Format args: display name,
	// Expr.
	Message string
}

// RuleName implements Rule.
func (r *Pattern) RuleName() string { return "pattern" }

// ErrorMessage implements Rule.
func (r *Pattern) ErrorMessage() string { return r.Message }

// FormatMessage implements Rule.
func (r *Pattern) FormatMessage(displayName string) string {
	return format(r.Message, "%s must match the pattern %q", displayName, r.Expr)
}

// Evaluate implements SyncRule. A non-string value or an uncompilable
// pattern is a programmer error.
func (r *Pattern) Evaluate(value any, vc *og.ValidationContext) (*og.Violation, error) {
	if isNilValue(value) {
		return nil, nil
	}
	if r.Expr == "" {
		return nil, fmt.Errorf("pattern rule: empty expression")
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("pattern rule: value of type %T is not a string", value)
	}

	re, err := regexCache.GetOrCompute(r.Expr, func() (*regexp.Regexp, error) {
		return regexp.Compile(r.Expr)
	})
	if err != nil {
		return nil, fmt.Errorf("pattern rule: %w", err)
	}

	if !re.MatchString(s) {
		return violate(r, vc, value), nil
	}
	return nil, nil
}
