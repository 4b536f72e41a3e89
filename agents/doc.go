// Package agents provides the specialist agent implementations: executive,
// investment and gap-analysis intelligence. Each agent owns a narrow
// expertise, builds targeted search queries for its domain, resolves them
// through the enrichment escalation pipeline and extracts findings with the
// shared brain pattern library.
//
// Agents never propagate provider failures: a broken call chain degrades to
// a low-confidence answer carrying a manual-review recommendation.
package agents
