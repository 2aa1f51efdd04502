// Package objectgraph provides recursive, rule-driven validation of Go
// object graphs.
//
// A validation walk starts from a root instance and descends through
// properties, nested objects, slices, and maps, applying the rules declared
// for each type and collecting failures into a Store keyed by field
// identity. Reference cycles and shared references are detected per walk,
// so each distinct instance is validated at most once.
//
// # Quick Start
//
//	import (
//	    og "github.com/govalid/objectgraph"
//	    "github.com/govalid/objectgraph/engine"
//	    "github.com/govalid/objectgraph/rules"
//	    "github.com/govalid/objectgraph/schema"
//	)
//
//	schema.MustRegister(Account{}, schema.New().
//	    Field("Name", &rules.Required{}, &rules.Length{Min: 1, Max: 80}).
//	    Field("Age", &rules.Range{Min: 0, Max: 120}))
//
//	store := og.NewStore()
//	vc := og.NewValidationContext(&account, nil)
//	vc.DisplayName = "account"
//	ok, err := engine.TryValidateObject(ctx, &account, vc, store, true)
//
// # Execution Modes
//
// Every operation exists in an asynchronous form (rules may block on I/O,
// cancellation flows through ctx) and a synchronous form. The synchronous
// walk handles asynchronous rules according to a BridgePolicy:
//
//   - BridgeThrow: an async rule in a sync walk is a programming error
//   - BridgeIgnore: async rules are skipped and treated as passing
//   - BridgeTrySync: async rules are driven to completion on the calling
//     goroutine via the syncwait bridge
//
// # Rules
//
// Rules are either synchronous (Evaluate) or asynchronous (EvaluateAsync),
// never both. Built-ins live in the rules package: Required, Range, Length,
// Pattern, UUID, Expression (expr-lang programs), and custom Func/AsyncFunc
// rules. Types may additionally implement SelfValidating for whole-object
// checks.
//
// # Error Model
//
// Domain failures are Violations collected into the Store (or wrapped into
// a single *ValidationError by the throw-variants). Configuration mistakes
// such as reusing a ValidationContext, malformed rule setup, or a
// value/property type mismatch are returned as ordinary errors and are
// never folded into the Store.
package objectgraph
