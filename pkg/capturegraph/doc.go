// Package capturegraph provides an immutable-after-build view over a task
// graph, along with the per-node mutable capture metadata the optimizer
// packages attach during a single Optimize call.
//
// Construction of the user-facing DAG (resolving a workload into nodes and
// edges) happens upstream of this package; Graph only models what the
// optimizer needs to read: a node set with successor/dependent ordering,
// each node's work closure, and a scratch slot for scheduling state.
package capturegraph
