// Package llm implements the provider fallback client: a uniform
// text-generation call over an ordered chain of language-model providers
// with automatic failover, response validation and JSON-shaped structured
// generation.
//
// Fallback is modeled explicitly as an ordered candidate loop with a
// terminal error value (core.ErrAllProvidersFailed), never via exception
// propagation. The only mutable shared state is the per-provider rate-limit
// timestamp, guarded by a mutex so concurrent sub-question execution cannot
// violate the configured interval.
package llm
