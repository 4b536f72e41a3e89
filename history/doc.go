// Package history provides storage for completed intelligence runs, keyed by
// run ID. The in-memory implementation is safe for concurrent access and best
// suited for tests or ephemeral demo servers; durable deployments supply
// their own Store.
package history
