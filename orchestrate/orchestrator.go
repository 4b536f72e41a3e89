// Package orchestrate executes a decomposition's sub-questions against the
// agent registry. Each sub-question moves through a small state machine
// (pending, running, completed, failed); scheduling follows the plan's
// strategy and dependency edges. A dependency in any terminal state unblocks
// its dependents, so one failed branch never deadlocks the run.
package orchestrate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inquiro/inquiro/core"
	"github.com/inquiro/inquiro/logging"
	"github.com/inquiro/inquiro/route"
)

// State is a sub-question's position in the execution lifecycle.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Terminal reports whether the state unblocks dependents.
func (s State) Terminal() bool { return s == StateCompleted || s == StateFailed }

// FailurePolicy controls how the orchestrator reacts to a failed
// sub-question.
type FailurePolicy string

const (
	// FailureContinue keeps executing the remaining sub-questions and
	// synthesizes from whatever completed. The default.
	FailureContinue FailurePolicy = "continue"
	// FailureStop aborts scheduling after the first failed sub-question.
	// Already-running siblings finish; nothing new starts.
	FailureStop FailurePolicy = "stop"
)

// Task is the execution record of one sub-question.
type Task struct {
	SubQuestion core.SubQuestion
	State       State
	Agent       string
	Answer      core.StructuredAnswer
	Err         error
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Result is the outcome of executing a full decomposition.
type Result struct {
	// Answers holds completed sub-question answers in plan order.
	Answers []core.StructuredAnswer
	// Tasks holds every sub-question's execution record in plan order.
	Tasks []Task
	// AgentsUsed lists the distinct agents that produced answers, in
	// first-use order.
	AgentsUsed []string
	// Unroutable lists sub-question IDs no registered agent could answer.
	Unroutable []string
	// Stalled is set when unresolved dependencies left sub-questions
	// permanently blocked, which means the plan contained a cycle.
	Stalled bool
	// Stopped is set when the stop failure policy aborted the run early.
	Stopped bool
}

// Options configure an Orchestrator.
type Options struct {
	FailurePolicy FailurePolicy
	Logger        logging.Logger
}

// Orchestrator schedules sub-questions onto registered specialist agents.
type Orchestrator struct {
	registry *route.Registry
	opts     Options
}

// New creates an Orchestrator over the given registry.
func New(registry *route.Registry, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		FailurePolicy: FailureContinue,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{registry: registry, opts: opts}
}

// Execute runs the decomposition to completion under its declared strategy.
// Individual sub-question failures are captured in the result, never
// returned; the error is reserved for context cancellation.
func (o *Orchestrator) Execute(ctx context.Context, dec core.Decomposition) (Result, error) {
	if err := dec.Validate(); err != nil {
		return Result{}, err
	}

	run := newRun(dec, o.opts.Logger)

	strategy := dec.Strategy
	if strategy == core.StrategyParallel && dec.HasDependencies() {
		// A dependency-bearing plan cannot run in one batch.
		strategy = core.StrategyHybrid
	}

	var err error
	switch strategy {
	case core.StrategyParallel:
		err = o.runBatch(ctx, run, 1, run.readyIDs())
	case core.StrategySequential:
		err = o.runSequential(ctx, run)
	default:
		err = o.runHybrid(ctx, run)
	}
	if err != nil {
		return Result{}, err
	}
	return run.result(), nil
}

// runSequential executes one ready sub-question at a time in plan order.
func (o *Orchestrator) runSequential(ctx context.Context, run *run) error {
	for !run.done() {
		ready := run.readyIDs()
		if len(ready) == 0 {
			run.markStalled()
			return nil
		}
		for _, id := range ready {
			if err := o.execute(ctx, run, id); err != nil {
				return err
			}
			if run.shouldStop(o.opts.FailurePolicy) {
				run.markStopped()
				return nil
			}
		}
	}
	return nil
}

// runHybrid repeatedly launches the current ready set as one concurrent
// batch and waits for it before recomputing readiness. The iteration bound
// is the sub-question count: every productive pass completes at least one
// task, so a pass with an empty ready set means a dependency cycle.
func (o *Orchestrator) runHybrid(ctx context.Context, run *run) error {
	batch := 0
	for range run.tasks {
		if run.done() {
			return nil
		}
		ready := run.readyIDs()
		if len(ready) == 0 {
			run.markStalled()
			return nil
		}
		batch++
		if err := o.runBatch(ctx, run, batch, ready); err != nil {
			return err
		}
		if run.shouldStop(o.opts.FailurePolicy) {
			run.markStopped()
			return nil
		}
	}
	if !run.done() {
		run.markStalled()
	}
	return nil
}

// runBatch executes the given sub-questions concurrently, waits for all of
// them and records the batch outcome.
func (o *Orchestrator) runBatch(ctx context.Context, run *run, batch int, ids []string) error {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return o.execute(gctx, run, id)
		})
	}
	err := g.Wait()
	completed, failed := run.batchOutcome(ids)
	logging.LogBatch(o.opts.Logger, batch, len(ids), completed, failed, time.Since(start))
	return err
}

// execute routes and runs a single sub-question, recording the transition
// timestamps and terminal state. Routing misses and agent errors both land
// in the failed state; only context cancellation is returned.
func (o *Orchestrator) execute(ctx context.Context, run *run, id string) error {
	task := run.start(id)
	sq := task.SubQuestion

	agentName, err := o.registry.Route(sq.Question, sq.TargetAgents)
	if err != nil {
		run.finishFailed(id, "", err)
		run.markUnroutable(id)
		o.opts.Logger.Warn("sub-question unroutable", "id", id, "question", sq.Question)
		return nil
	}

	agent, ok := o.registry.Get(agentName)
	if !ok {
		run.finishFailed(id, agentName, fmt.Errorf("agent %q disappeared from registry", agentName))
		return nil
	}

	qctx := run.questionContext()
	answer, err := agent.Answer(ctx, sq.Question, run.target(), qctx)
	if err != nil {
		if ctx.Err() != nil {
			run.finishFailed(id, agentName, ctx.Err())
			return ctx.Err()
		}
		run.finishFailed(id, agentName, err)
		o.opts.Logger.Error("sub-question failed", "id", id, "agent", agentName, "error", err.Error())
		return nil
	}

	run.finishCompleted(id, agentName, answer)
	o.opts.Logger.Info("sub-question completed", "id", id, "agent", agentName, "confidence", answer.Confidence)
	return nil
}

// run is the mutable execution state for one decomposition. All mutation
// happens under the mutex so hybrid batches can record results concurrently.
type run struct {
	mu sync.Mutex

	dec    core.Decomposition
	order  []string
	tasks  map[string]*Task
	logger logging.Logger

	unroutable []string
	stalled    bool
	stopped    bool
}

func newRun(dec core.Decomposition, logger logging.Logger) *run {
	r := &run{
		dec:    dec,
		tasks:  make(map[string]*Task, len(dec.SubQuestions)),
		logger: logger,
	}
	for _, sq := range dec.SubQuestions {
		r.order = append(r.order, sq.ID)
		r.tasks[sq.ID] = &Task{SubQuestion: sq, State: StatePending}
	}
	return r
}

func (r *run) target() string { return r.dec.Question.Target }

func (r *run) questionContext() map[string]any { return r.dec.Question.Context }

// readyIDs returns pending sub-questions whose dependencies have all reached
// a terminal state, in plan order.
func (r *run) readyIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ready []string
	for _, id := range r.order {
		task := r.tasks[id]
		if task.State != StatePending {
			continue
		}
		blocked := false
		for _, dep := range task.SubQuestion.Dependencies {
			if !r.tasks[dep].State.Terminal() {
				blocked = true
				break
			}
		}
		if !blocked {
			ready = append(ready, id)
		}
	}
	return ready
}

func (r *run) done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if !t.State.Terminal() {
			return false
		}
	}
	return true
}

func (r *run) start(id string) *Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	task := r.tasks[id]
	task.State = StateRunning
	task.StartedAt = time.Now()
	return task
}

func (r *run) finishCompleted(id, agent string, answer core.StructuredAnswer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task := r.tasks[id]
	task.State = StateCompleted
	task.Agent = agent
	task.Answer = answer
	task.FinishedAt = time.Now()
}

func (r *run) finishFailed(id, agent string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task := r.tasks[id]
	task.State = StateFailed
	task.Agent = agent
	task.Err = err
	task.FinishedAt = time.Now()
}

// batchOutcome counts terminal states among the given sub-question IDs.
func (r *run) batchOutcome(ids []string) (completed, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		switch r.tasks[id].State {
		case StateCompleted:
			completed++
		case StateFailed:
			failed++
		}
	}
	return completed, failed
}

func (r *run) markUnroutable(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unroutable = append(r.unroutable, id)
}

// markStalled fails every remaining non-terminal sub-question. Reached only
// when the dependency graph contains a cycle.
func (r *run) markStalled() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stalled = true
	now := time.Now()
	for _, id := range r.order {
		task := r.tasks[id]
		if task.State.Terminal() {
			continue
		}
		task.State = StateFailed
		task.Err = fmt.Errorf("unresolvable dependencies: circular reference in execution plan")
		task.FinishedAt = now
	}
	r.logger.Warn("execution stalled on circular dependencies")
}

func (r *run) markStopped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
}

// shouldStop reports whether the stop policy has been triggered by a failed
// task.
func (r *run) shouldStop(policy FailurePolicy) bool {
	if policy != FailureStop {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.State == StateFailed {
			return true
		}
	}
	return false
}

// result snapshots the run into the immutable Result.
func (r *run) result() Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := Result{
		Unroutable: r.unroutable,
		Stalled:    r.stalled,
		Stopped:    r.stopped,
	}
	seen := make(map[string]bool)
	for _, id := range r.order {
		task := r.tasks[id]
		res.Tasks = append(res.Tasks, *task)
		if task.State == StateCompleted {
			res.Answers = append(res.Answers, task.Answer)
			if !seen[task.Agent] {
				seen[task.Agent] = true
				res.AgentsUsed = append(res.AgentsUsed, task.Agent)
			}
		}
	}
	return res
}
