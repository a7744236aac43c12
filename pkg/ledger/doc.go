// Package ledger records the outcome of each Optimize run: which
// strategy ran, over how many nodes and streams, how long it took, the
// resulting Plan, and the error if the run failed. It exists for
// after-the-fact diagnosis (why did a production graph end up with this
// many events, which run regressed) and is distinct from pkg/schedcache:
// the cache exists to skip recomputation, the ledger exists to remember
// history.
package ledger
