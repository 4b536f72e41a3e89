package core

import "context"

// SpecialistAgent is the capability contract every domain-scoped agent
// implements. Agents are registered once at startup and treated as read-only
// afterwards, so implementations must be safe for concurrent Answer calls.
//
// Answer must not propagate provider failures: an agent that cannot complete
// its call chain returns a StructuredAnswer with confidence <= 0.1 and an
// explicit manual-review recommendation instead of an error. The error
// return is reserved for context cancellation and programmer errors.
type SpecialistAgent interface {
	// Name returns the registry key for this agent.
	Name() string

	// ExpertiseDomains lists the domain keywords this agent specializes in.
	ExpertiseDomains() []string

	// AnswerablePatterns lists question fragments this agent can answer.
	AnswerablePatterns() []string

	// CanAnswer reports whether the question falls inside this agent's
	// expertise (domain or pattern substring match).
	CanAnswer(question string) bool

	// RelevanceScore rates how well the question matches this agent in
	// [0,1]. Used by the router to pick the best of several candidates.
	RelevanceScore(question string) float64

	// Answer resolves one sub-question for the target and returns a
	// structured answer carrying this agent's name.
	Answer(ctx context.Context, question, target string, qctx map[string]any) (StructuredAnswer, error)
}
