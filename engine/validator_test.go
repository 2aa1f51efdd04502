package engine_test

import (
	"context"
	"errors"
	"testing"

	og "github.com/govalid/objectgraph"
	"github.com/govalid/objectgraph/engine"
	"github.com/govalid/objectgraph/rules"
	"github.com/govalid/objectgraph/schema"
)

type item struct {
	SKU string
	Qty int
}

func (item) ValidationSchema() *schema.Builder {
	return schema.New().
		Field("SKU", &rules.Required{}).
		Field("Qty", &rules.Range{Min: 1, Max: 100})
}

func TestTryValidateObject(t *testing.T) {
	v := engine.New()

	bad := &item{Qty: 0}
	store := og.NewStore()
	ok, err := v.TryValidateObject(context.Background(), og.NewValidationContext(bad, nil), bad, store, true)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("invalid object reported valid")
	}
	if store.Total() != 2 {
		t.Errorf("violations = %v, want 2", store.All())
	}

	good := &item{SKU: "A-1", Qty: 5}
	store2 := og.NewStore()
	ok, err = v.TryValidateObject(context.Background(), og.NewValidationContext(good, nil), good, store2, true)
	if err != nil || !ok {
		t.Errorf("valid object: ok=%v err=%v", ok, err)
	}
	if !store2.Valid() {
		t.Errorf("store = %v", store2.All())
	}
}

func TestTryValidateObjectNilStore(t *testing.T) {
	v := engine.New()
	bad := &item{Qty: 0}
	ok, err := v.TryValidateObject(context.Background(), og.NewValidationContext(bad, nil), bad, nil, true)
	if err != nil {
		t.Fatalf("domain failures with a nil store must not surface as errors, got %v", err)
	}
	if ok {
		t.Error("invalid object reported valid")
	}
}

func TestValidateObjectThrows(t *testing.T) {
	v := engine.New()
	bad := &item{Qty: 0}

	err := v.ValidateObject(context.Background(), og.NewValidationContext(bad, nil), bad, true)
	var ve *og.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *og.ValidationError", err)
	}
	if ve.Violation.Message != "SKU is required" {
		t.Errorf("first failure = %q", ve.Violation.Message)
	}

	good := &item{SKU: "A-1", Qty: 5}
	if err := v.ValidateObject(context.Background(), og.NewValidationContext(good, nil), good, true); err != nil {
		t.Errorf("valid object err = %v", err)
	}
}

func TestTryValidateProperty(t *testing.T) {
	v := engine.New()
	inst := &item{}
	vc := og.NewValidationContext(inst, nil)
	vc.MemberName = "Qty"

	store := og.NewStore()
	ok, err := v.TryValidateProperty(context.Background(), vc, 500, store)
	if err != nil {
		t.Fatal(err)
	}
	if ok || store.Total() != 1 {
		t.Errorf("ok=%v store=%v", ok, store.All())
	}
}

func TestTryValidateValue(t *testing.T) {
	v := engine.New()
	vc := og.NewValidationContext(nil, nil)
	vc.DisplayName = "token"

	store := og.NewStore()
	rs := []rules.Rule{&rules.Required{}, &rules.UUID{}}
	ok, err := v.TryValidateValue(context.Background(), vc, "not-a-uuid", store, rs)
	if err != nil {
		t.Fatal(err)
	}
	if ok || store.Total() != 1 {
		t.Errorf("ok=%v store=%v", ok, store.All())
	}
}

func TestProgrammerErrorsSurface(t *testing.T) {
	v := engine.New()
	inst := &item{SKU: "A", Qty: 5}
	vc := og.NewValidationContext(inst, nil)

	ok, err := v.TryValidateObject(context.Background(), vc, inst, og.NewStore(), true)
	if err != nil || !ok {
		t.Fatalf("first walk: ok=%v err=%v", ok, err)
	}

	// Context reuse is a programmer error, not a domain failure.
	ok, err = v.TryValidateObject(context.Background(), vc, inst, og.NewStore(), true)
	if !errors.Is(err, og.ErrContextReused) {
		t.Errorf("err = %v, want ErrContextReused", err)
	}
	if ok {
		t.Error("errored walk must not report valid")
	}
}

type remoteItem struct {
	Code string
}

func (remoteItem) ValidationSchema() *schema.Builder {
	return schema.New().Field("Code", &rules.AsyncFunc{
		Name: "code-check",
		Fn: func(ctx context.Context, value any, vc *og.ValidationContext) (*og.Violation, error) {
			if value == "dup" {
				return &og.Violation{Message: "Code is a duplicate"}, nil
			}
			return nil, nil
		},
	})
}

func TestSyncTwinsApplyBridgePolicy(t *testing.T) {
	bad := &remoteItem{Code: "dup"}

	// Default policy refuses async work on the sync path.
	_, err := engine.New().TryValidateObjectSync(og.NewValidationContext(bad, nil), bad, og.NewStore(), true)
	if !errors.Is(err, og.ErrAsyncRuleRequiresBridge) {
		t.Errorf("err = %v, want ErrAsyncRuleRequiresBridge", err)
	}

	// TrySync drives the rule to completion.
	v := engine.New(og.WithBridgePolicy(og.BridgeTrySync))
	store := og.NewStore()
	ok, err := v.TryValidateObjectSync(og.NewValidationContext(bad, nil), bad, store, true)
	if err != nil {
		t.Fatal(err)
	}
	if ok || store.Total() != 1 {
		t.Errorf("ok=%v store=%v", ok, store.All())
	}

	// Ignore treats the rule as passing.
	v2 := engine.New(og.WithBridgePolicy(og.BridgeIgnore))
	ok, err = v2.TryValidateObjectSync(og.NewValidationContext(bad, nil), bad, og.NewStore(), true)
	if err != nil || !ok {
		t.Errorf("ignore: ok=%v err=%v", ok, err)
	}
}

func TestValidatePropertySync(t *testing.T) {
	v := engine.New()
	inst := &item{}

	vc := og.NewValidationContext(inst, nil)
	vc.MemberName = "Qty"
	err := v.ValidatePropertySync(vc, 500)
	var ve *og.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *og.ValidationError", err)
	}
	if ve.Violation.Message != "Qty must be between 1 and 100" {
		t.Errorf("failure = %q", ve.Violation.Message)
	}

	vc2 := og.NewValidationContext(inst, nil)
	vc2.MemberName = "Qty"
	if err := v.ValidatePropertySync(vc2, 5); err != nil {
		t.Errorf("valid property err = %v", err)
	}

	// One-shot form.
	vc3 := og.NewValidationContext(inst, nil)
	vc3.MemberName = "Qty"
	if err := engine.ValidatePropertySync(500, vc3); !errors.As(err, &ve) {
		t.Errorf("one-shot err = %v, want *og.ValidationError", err)
	}
}

func TestValidateValueSync(t *testing.T) {
	v := engine.New()
	rs := []rules.Rule{&rules.Required{}}

	vc := og.NewValidationContext(nil, nil)
	vc.DisplayName = "token"
	err := v.ValidateValueSync(vc, nil, rs)
	var ve *og.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *og.ValidationError", err)
	}
	if ve.Violation.Message != "token is required" {
		t.Errorf("failure = %q", ve.Violation.Message)
	}

	vc2 := og.NewValidationContext(nil, nil)
	vc2.DisplayName = "token"
	if err := v.ValidateValueSync(vc2, "x", rs); err != nil {
		t.Errorf("valid value err = %v", err)
	}

	// Async rules on the sync path follow the bridge policy.
	asyncRS := []rules.Rule{&rules.AsyncFunc{
		Name: "remote",
		Fn: func(ctx context.Context, value any, vc *og.ValidationContext) (*og.Violation, error) {
			return nil, nil
		},
	}}
	vc3 := og.NewValidationContext(nil, nil)
	if err := v.ValidateValueSync(vc3, "x", asyncRS); !errors.Is(err, og.ErrAsyncRuleRequiresBridge) {
		t.Errorf("err = %v, want ErrAsyncRuleRequiresBridge", err)
	}

	// One-shot form.
	vc4 := og.NewValidationContext(nil, nil)
	vc4.DisplayName = "token"
	if err := engine.ValidateValueSync(nil, vc4, rs); !errors.As(err, &ve) {
		t.Errorf("one-shot err = %v, want *og.ValidationError", err)
	}
}

func TestValidatorMetrics(t *testing.T) {
	v := engine.New()
	good := &item{SKU: "A", Qty: 5}
	bad := &item{Qty: 0}

	v.TryValidateObject(context.Background(), og.NewValidationContext(good, nil), good, og.NewStore(), true)
	v.TryValidateObject(context.Background(), og.NewValidationContext(bad, nil), bad, og.NewStore(), true)

	s := v.Metrics().Stats()
	if s.WalksTotal != 2 {
		t.Errorf("WalksTotal = %d, want 2", s.WalksTotal)
	}
	if s.WalksValid != 1 {
		t.Errorf("WalksValid = %d, want 1", s.WalksValid)
	}
	if s.RulesEvaluated == 0 {
		t.Error("rule evaluations should be recorded")
	}
}

func TestOneShotForms(t *testing.T) {
	bad := &item{Qty: 0}
	store := og.NewStore()
	ok, err := engine.TryValidateObject(context.Background(), bad, og.NewValidationContext(bad, nil), store, true)
	if err != nil {
		t.Fatal(err)
	}
	if ok || store.Valid() {
		t.Errorf("ok=%v store=%v", ok, store.All())
	}

	err = engine.ValidateObject(context.Background(), bad, og.NewValidationContext(bad, nil), true)
	var ve *og.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("err = %v, want *og.ValidationError", err)
	}
}

func TestValidateBatch(t *testing.T) {
	instances := []any{
		&item{SKU: "A", Qty: 5},
		&item{Qty: 0},
		&item{SKU: "C", Qty: 999},
	}

	v := engine.New(og.WithWorkerCount(2))
	results := v.ValidateBatch(context.Background(), instances)

	if len(results) != len(instances) {
		t.Fatalf("results = %d, want %d", len(results), len(instances))
	}
	for i, r := range results {
		if r.Instance != instances[i] {
			t.Errorf("result %d not positionally aligned", i)
		}
		if r.Err != nil {
			t.Errorf("result %d err = %v", i, r.Err)
		}
	}
	if !results[0].Valid || results[0].Store.Total() != 0 {
		t.Errorf("result 0 = %+v", results[0])
	}
	if results[1].Valid || results[1].Store.Total() != 2 {
		t.Errorf("result 1 = %+v", results[1])
	}
	if results[2].Valid || results[2].Store.Total() != 1 {
		t.Errorf("result 2 = %+v", results[2])
	}
}
