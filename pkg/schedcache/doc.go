// Package schedcache caches the computed Plan a strategy produces for a
// graph — its topological order together with each node's Level, Idx,
// Stream, and whether it carries an event — keyed by a hash of the
// graph's shape and the strategy configuration that produced it.
//
// A Plan is never the driver-opaque NativeGraph a Strategy returns from
// EndCapture; that value is never cached or persisted anywhere in this
// module (spec.md §1 Non-goals, SPEC_FULL.md §4.5). No code in this module
// replays a cached Plan into a capture: on a cache hit the CLI's optimize
// command prints the cached Plan and does not run Optimize at all.
package schedcache
