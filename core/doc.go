// Package core provides the foundational domain types, interfaces and error
// taxonomy used by Inquiro. It defines the core abstractions for:
//
//   - Questions and their decomposition into dependent sub-questions
//   - Specialist agents (narrow, domain-scoped answer producers)
//   - Structured answers and their synthesis into a final intelligence object
//   - Pluggable collaborator contracts for search, entity extraction,
//     professional-network lookup and news recall
//
// The package intentionally keeps implementation concerns (scheduling,
// provider SDKs, prompt construction) out of scope, exposing small interfaces
// so higher layers remain decoupled from concrete backends.
package core
