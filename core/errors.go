package core

import "errors"

// Error taxonomy. Provider and parse failures never escape the components
// that own a deterministic fallback (decomposer, synthesizer); routing and
// agent failures degrade the run without aborting it. Only ErrNoAgents is
// allowed to surface to the top-level caller.
var (
	// ErrAllProvidersFailed indicates no configured language-model provider
	// produced a valid response for a generation call.
	ErrAllProvidersFailed = errors.New("all llm providers failed")

	// ErrMalformedJSON indicates structured generation output was not valid
	// JSON after brace extraction.
	ErrMalformedJSON = errors.New("malformed json in llm response")

	// ErrNoCapableAgent indicates the router found no agent scoring above
	// zero for a sub-question.
	ErrNoCapableAgent = errors.New("no capable agent for question")

	// ErrNoAgents indicates the engine was asked to answer a question with
	// an empty registry. This is a programmer error and surfaces hard.
	ErrNoAgents = errors.New("no specialist agents registered")
)
