// Package brain is the shared contextual reasoning library used by all
// specialist agents: domain knowledge tables, a compiled pattern library for
// extracting executives, investments, opportunities and companies from raw
// text, content relevance scoring and stable deduplication.
//
// A single Brain instance is read-only after construction and shared across
// agents, consolidating extraction rules that would otherwise be duplicated
// per agent.
package brain
