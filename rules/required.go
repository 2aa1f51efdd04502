package rules

import (
	"strings"

	og "github.com/govalid/objectgraph"
)

// Required fails for nil values and, unless AllowEmptyStrings is set, for
// empty or whitespace-only strings. When present on a property it is
// always evaluated first and short-circuits the property's remaining rules
// on failure.
type Required struct {
	AllowEmptyStrings bool

	// Message overrides the default template. It receives the display
	// name as its first format argument.
	Message string
}

// RuleName implements Rule.
func (r *Required) RuleName() string { return "required" }

// ErrorMessage implements Rule.
func (r *Required) ErrorMessage() string { return r.Message }

// FormatMessage implements Rule.
func (r *Required) FormatMessage(displayName string) string {
	return format(r.Message, "%s is required", displayName)
}

// Evaluate implements SyncRule.
func (r *Required) Evaluate(value any, vc *og.ValidationContext) (*og.Violation, error) {
	if isNilValue(value) {
		return violate(r, vc, value), nil
	}
	if s, ok := value.(string); ok && !r.AllowEmptyStrings && strings.TrimSpace(s) == "" {
		return violate(r, vc, value), nil
	}
	return nil, nil
}
