// Package inquiro provides a high-level façade over the question-driven
// intelligence pipeline: decomposition, capability routing, orchestrated
// specialist execution and synthesis. Most applications interact with this
// package by:
//  1. Creating an Engine via New() with a configured LLM fallback client
//  2. Registering one or more specialist agents
//  3. Calling AnswerQuestion with the question and target organization
//
// The façade delegates scheduling to orchestrate.Orchestrator while keeping
// setup ergonomics concise. Defaults are safe for local development; the
// zero-value options use a no-op logger and the continue-on-failure policy.
package inquiro

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inquiro/inquiro/core"
	"github.com/inquiro/inquiro/decompose"
	"github.com/inquiro/inquiro/history"
	"github.com/inquiro/inquiro/llm"
	"github.com/inquiro/inquiro/logging"
	"github.com/inquiro/inquiro/orchestrate"
	"github.com/inquiro/inquiro/route"
	"github.com/inquiro/inquiro/synthesize"
)

// Options configures the Engine.
type Options struct {
	// FailurePolicy controls whether a failed sub-question aborts the run or
	// lets the remainder proceed. Defaults to continue.
	FailurePolicy orchestrate.FailurePolicy

	// History stores completed runs by run ID (defaults to an in-memory
	// store).
	History history.Store

	// Logger receives pipeline diagnostics (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Engine is the high-level façade aggregating the decomposer, registry,
// orchestrator and synthesizer behind a single entry point.
type Engine struct {
	opts         Options
	registry     *route.Registry
	decomposer   *decompose.Decomposer
	orchestrator *orchestrate.Orchestrator
	synthesizer  *synthesize.Synthesizer
	history      history.Store
}

// New creates a new Engine over the given LLM fallback client.
func New(client *llm.Client, optFns ...func(o *Options)) *Engine {
	opts := Options{
		FailurePolicy: orchestrate.FailureContinue,
		History:       history.NewInMemoryStore(),
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	registry := route.NewRegistry(func(o *route.Options) {
		o.Logger = opts.Logger
	})

	return &Engine{
		opts:     opts,
		registry: registry,
		decomposer: decompose.New(client, registry, func(o *decompose.Options) {
			o.Logger = opts.Logger
		}),
		orchestrator: orchestrate.New(registry, func(o *orchestrate.Options) {
			o.FailurePolicy = opts.FailurePolicy
			o.Logger = opts.Logger
		}),
		synthesizer: synthesize.New(client, func(o *synthesize.Options) {
			o.Logger = opts.Logger
		}),
		history: opts.History,
	}
}

// RegisterAgent adds a specialist agent to the routing registry. Agent names
// must be unique; re-registration is rejected.
func (e *Engine) RegisterAgent(agent core.SpecialistAgent) error {
	return e.registry.Register(agent)
}

// Agents returns the registered agent names in registration order.
func (e *Engine) Agents() []string {
	return e.registry.Names()
}

// AnswerQuestion runs the full pipeline for one question: decompose into
// sub-questions, execute them against the registered specialists under the
// plan's strategy, then synthesize every completed answer into one result.
//
// The only hard precondition is at least one registered agent
// (core.ErrNoAgents otherwise). Provider outages, unroutable sub-questions
// and failed branches all degrade to a lower-confidence result rather than
// an error; the processing metadata records what happened.
func (e *Engine) AnswerQuestion(ctx context.Context, q core.Question) (core.SynthesizedIntelligence, error) {
	if e.registry.Len() == 0 {
		return core.SynthesizedIntelligence{}, core.ErrNoAgents
	}

	runID := uuid.NewString()
	start := time.Now()
	e.opts.Logger.Info("processing question", "run_id", runID, "target", q.Target)

	dec, err := e.decomposer.Decompose(ctx, q)
	if err != nil {
		return core.SynthesizedIntelligence{}, err
	}
	e.opts.Logger.Info("question decomposed",
		"run_id", runID,
		"sub_questions", len(dec.SubQuestions),
		"strategy", string(dec.Strategy),
		"type", dec.QuestionType)

	texts := make([]string, len(dec.SubQuestions))
	for i, sq := range dec.SubQuestions {
		texts[i] = sq.Question
	}
	plan := e.registry.Plan(texts)
	e.opts.Logger.Debug("routing plan",
		"run_id", runID,
		"utilization", plan.Utilization,
		"unroutable", len(plan.Unroutable))

	res, err := e.orchestrator.Execute(ctx, dec)
	if err != nil {
		return core.SynthesizedIntelligence{}, err
	}

	result, err := e.synthesizer.Synthesize(ctx, q, res.Answers, dec.QuestionType)
	if err != nil {
		return core.SynthesizedIntelligence{}, err
	}

	result.Metadata.RunID = runID
	result.Metadata.AgentsUsed = res.AgentsUsed
	result.Metadata.Strategy = dec.Strategy
	result.Metadata.SubQuestionCount = len(dec.SubQuestions)
	result.Metadata.AnswerCount = len(res.Answers)
	result.Metadata.Unroutable = res.Unroutable
	result.Metadata.Stalled = res.Stalled
	result.Metadata.Elapsed = time.Since(start)

	if err := e.history.Save(runID, result); err != nil {
		e.opts.Logger.Warn("failed to store run", "run_id", runID, "error", err.Error())
	}

	e.opts.Logger.Info("question answered",
		"run_id", runID,
		"answers", len(res.Answers),
		"confidence", result.Confidence.Overall,
		"elapsed", result.Metadata.Elapsed.String())
	return result, nil
}

// Run returns a previously completed result by run ID.
func (e *Engine) Run(runID string) (core.SynthesizedIntelligence, error) {
	return e.history.Get(runID)
}

// RunIDs lists completed run IDs in completion order.
func (e *Engine) RunIDs() []string {
	return e.history.RunIDs()
}
