package rules

import (
	"fmt"

	"github.com/google/uuid"

	og "github.com/govalid/objectgraph"
)

// UUID checks that a string value parses as an RFC 4122 UUID. A
// uuid.UUID value passes as-is.
type UUID struct {
	// Message overrides the default template.
	Message string
}

// RuleName implements Rule.
func (r *UUID) RuleName() string { return "uuid" }

// ErrorMessage implements Rule.
func (r *UUID) ErrorMessage() string { return r.Message }

// FormatMessage implements Rule.
func (r *UUID) FormatMessage(displayName string) string {
	return format(r.Message, "%s must be a valid UUID", displayName)
}

// Evaluate implements SyncRule.
func (r *UUID) Evaluate(value any, vc *og.ValidationContext) (*og.Violation, error) {
	if isNilValue(value) {
		return nil, nil
	}
	switch v := value.(type) {
	case uuid.UUID:
		return nil, nil
	case string:
		if _, err := uuid.Parse(v); err != nil {
			return violate(r, vc, value), nil
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("uuid rule: value of type %T is not a string", value)
	}
}
