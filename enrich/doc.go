// Package enrich implements the quality-gated escalation pipeline that
// resolves a single search query. A primary search always runs; secondary
// (entity extraction), tertiary (professional network) and quaternary (news
// recall) stages engage only when configured and only when the answer
// quality guardrail or the query focus calls for them. Every stage is
// strictly additive: a stage failure is logged and skipped, never fatal.
package enrich
