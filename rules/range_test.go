package rules

import (
	"testing"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func TestRange(t *testing.T) {
	tests := []struct {
		name    string
		rule    Range
		value   any
		violate bool
		wantErr bool
	}{
		{"int within", Range{Min: 0, Max: 120}, 30, false, false},
		{"int at lower bound", Range{Min: 0, Max: 120}, 0, false, false},
		{"int at upper bound", Range{Min: 0, Max: 120}, 120, false, false},
		{"int above", Range{Min: 0, Max: 120}, 150, true, false},
		{"int below", Range{Min: 0, Max: 120}, -1, true, false},
		{"float value", Range{Min: 0, Max: 1}, 0.5, false, false},
		{"string bounds", Range{Min: "0.10", Max: "0.30"}, 0.2, false, false},
		{"numeric string value", Range{Min: 1, Max: 10}, "11", true, false},
		{"decimal value", Range{Min: 1, Max: 10}, decimal.NewFromInt(5), false, false},
		{"exact decimal compare", Range{Min: "0.1", Max: "0.1"}, "0.1", false, false},
		{"pointer value within", Range{Min: 0, Max: 120}, intPtr(30), false, false},
		{"pointer value above", Range{Min: 0, Max: 120}, intPtr(150), true, false},
		{"nil passes", Range{Min: 0, Max: 10}, nil, false, false},
		{"nil pointer passes", Range{Min: 0, Max: 10}, (*int)(nil), false, false},
		{"missing bounds", Range{}, 5, false, true},
		{"non-numeric bound", Range{Min: "abc", Max: 10}, 5, false, true},
		{"inverted bounds", Range{Min: 10, Max: 1}, 5, false, true},
		{"non-numeric value", Range{Min: 0, Max: 10}, "abc", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.rule.Evaluate(tt.value, testContext("Age"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if (v != nil) != tt.violate {
				t.Errorf("violation = %v, want violate=%v", v, tt.violate)
			}
		})
	}
}

func TestRangeMessage(t *testing.T) {
	r := &Range{Min: 0, Max: 120}
	v, err := r.Evaluate(150, testContext("Age"))
	if err != nil {
		t.Fatal(err)
	}
	if v == nil || v.Message != "Age must be between 0 and 120" {
		t.Errorf("violation = %v", v)
	}
}
