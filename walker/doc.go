// Package walker implements the recursive graph-walk algorithm at the
// heart of the validation engine.
//
// Given a root instance, the walker validates the instance's type-level
// rules, each property's rules (required first), folds in self-validation
// hooks, and then descends into complex properties and enumerable or
// map-shaped elements, applying the same steps to everything reachable. A
// per-invocation visited set gives cycle safety: each distinct object
// reference is validated at most once per walk, so shared references
// contribute errors only along the first path that reaches them.
//
// The walk exists in an asynchronous form, where rules may suspend and
// cancellation flows through ctx, and a synchronous form, where
// asynchronous rules are subject to the walker's bridge policy. Both
// forms traverse in declaration/iteration order and never fan out, so
// recorded violations are reproducible for a given input.
package walker
