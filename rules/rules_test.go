package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	og "github.com/govalid/objectgraph"
)

func testContext(member string) *og.ValidationContext {
	vc := og.NewValidationContext(struct{}{}, nil)
	return vc.Child(vc.ObjectInstance, member, "")
}

func TestRequired(t *testing.T) {
	var nilPtr *int

	tests := []struct {
		name    string
		rule    Required
		value   any
		violate bool
	}{
		{"nil", Required{}, nil, true},
		{"typed nil pointer", Required{}, nilPtr, true},
		{"nil slice", Required{}, []int(nil), true},
		{"empty string", Required{}, "", true},
		{"whitespace string", Required{}, "  \t ", true},
		{"empty string allowed", Required{AllowEmptyStrings: true}, "", false},
		{"zero int passes", Required{}, 0, false},
		{"non-empty string", Required{}, "x", false},
		{"empty non-nil slice", Required{}, []int{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.rule.Evaluate(tt.value, testContext("Field"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (v != nil) != tt.violate {
				t.Errorf("violation = %v, want violate=%v", v, tt.violate)
			}
		})
	}
}

func TestRequiredViolationShape(t *testing.T) {
	r := &Required{}
	v, err := r.Evaluate(nil, testContext("Name"))
	if err != nil {
		t.Fatal(err)
	}
	if v == nil {
		t.Fatal("expected a violation")
	}
	if v.Message != "Name is required" {
		t.Errorf("Message = %q", v.Message)
	}
	if len(v.MemberNames) != 1 || v.MemberNames[0] != "Name" {
		t.Errorf("MemberNames = %v", v.MemberNames)
	}
	if v.Rule != r {
		t.Error("violation should reference its rule")
	}
}

func TestRequiredCustomMessage(t *testing.T) {
	r := &Required{Message: "give me a %s"}
	v, _ := r.Evaluate(nil, testContext("Name"))
	if v == nil || v.Message != "give me a Name" {
		t.Errorf("violation = %v", v)
	}
}

func TestLength(t *testing.T) {
	tests := []struct {
		name    string
		rule    Length
		value   any
		violate bool
		wantErr bool
	}{
		{"string within", Length{Min: 2, Max: 5}, "abc", false, false},
		{"string too short", Length{Min: 2, Max: 5}, "a", true, false},
		{"string too long", Length{Min: 2, Max: 5}, "abcdef", true, false},
		{"runes not bytes", Length{Min: 1, Max: 3}, "日本語", false, false},
		{"unbounded max", Length{Min: 1}, "a very long string indeed", false, false},
		{"slice within", Length{Min: 1, Max: 2}, []int{1, 2}, false, false},
		{"slice too long", Length{Min: 0, Max: 1}, []int{1, 2}, true, false},
		{"map counted", Length{Min: 2, Max: 2}, map[string]int{"a": 1, "b": 2}, false, false},
		{"nil passes", Length{Min: 2}, nil, false, false},
		{"unsupported type", Length{Min: 1}, 42, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.rule.Evaluate(tt.value, testContext("Field"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if (v != nil) != tt.violate {
				t.Errorf("violation = %v, want violate=%v", v, tt.violate)
			}
		})
	}
}

func TestPattern(t *testing.T) {
	tests := []struct {
		name    string
		rule    Pattern
		value   any
		violate bool
		wantErr bool
	}{
		{"match", Pattern{Expr: `^[a-z]+$`}, "abc", false, false},
		{"mismatch", Pattern{Expr: `^[a-z]+$`}, "ABC", true, false},
		{"nil passes", Pattern{Expr: `^[a-z]+$`}, nil, false, false},
		{"non-string value", Pattern{Expr: `^[a-z]+$`}, 7, false, true},
		{"bad pattern", Pattern{Expr: `([`}, "abc", false, true},
		{"empty pattern", Pattern{}, "abc", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.rule.Evaluate(tt.value, testContext("Field"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if (v != nil) != tt.violate {
				t.Errorf("violation = %v, want violate=%v", v, tt.violate)
			}
		})
	}
}

func TestUUIDRule(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		violate bool
		wantErr bool
	}{
		{"valid string", "8c2ae399-6e27-4ba8-bbcb-84f7d38a4a4f", false, false},
		{"invalid string", "not-a-uuid", true, false},
		{"uuid value", uuid.New(), false, false},
		{"nil passes", nil, false, false},
		{"non-string", 12, false, true},
	}

	r := &UUID{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := r.Evaluate(tt.value, testContext("ID"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if (v != nil) != tt.violate {
				t.Errorf("violation = %v, want violate=%v", v, tt.violate)
			}
		})
	}
}

func TestFuncRule(t *testing.T) {
	r := &Func{
		Name: "even",
		Fn: func(value any, vc *og.ValidationContext) (*og.Violation, error) {
			n, ok := value.(int)
			if !ok {
				return nil, errors.New("not an int")
			}
			if n%2 != 0 {
				return &og.Violation{Message: "must be even"}, nil
			}
			return nil, nil
		},
	}

	if v, err := r.Evaluate(4, testContext("N")); err != nil || v != nil {
		t.Errorf("even value: v=%v err=%v", v, err)
	}
	if v, err := r.Evaluate(3, testContext("N")); err != nil || v == nil {
		t.Errorf("odd value: v=%v err=%v", v, err)
	}
	if _, err := r.Evaluate("x", testContext("N")); err == nil {
		t.Error("expected programmer error for non-int")
	}

	broken := &Func{Name: "broken"}
	if _, err := broken.Evaluate(1, testContext("N")); err == nil {
		t.Error("nil Fn should be a programmer error")
	}
}

func TestAsyncFuncRule(t *testing.T) {
	r := &AsyncFunc{
		Name: "remote",
		Fn: func(ctx context.Context, value any, vc *og.ValidationContext) (*og.Violation, error) {
			if value == "taken" {
				return &og.Violation{Message: "already taken"}, nil
			}
			return nil, nil
		},
	}

	if v, err := r.EvaluateAsync(context.Background(), "free", testContext("Name")); err != nil || v != nil {
		t.Errorf("free value: v=%v err=%v", v, err)
	}
	if v, err := r.EvaluateAsync(context.Background(), "taken", testContext("Name")); err != nil || v == nil {
		t.Errorf("taken value: v=%v err=%v", v, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.EvaluateAsync(ctx, "free", testContext("Name")); err == nil {
		t.Error("cancelled context should surface an error")
	}
}

func TestFindRequired(t *testing.T) {
	req := &Required{}
	rs := []Rule{&Length{Min: 1}, req, &Required{AllowEmptyStrings: true}}
	if got := FindRequired(rs); got != req {
		t.Error("FindRequired should return the first Required rule")
	}
	if FindRequired([]Rule{&Length{Min: 1}}) != nil {
		t.Error("FindRequired without a Required rule should return nil")
	}
}
