package orchestrate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inquiro/inquiro/core"
	"github.com/inquiro/inquiro/route"
)

// recordingAgent answers everything and records invocation order.
type recordingAgent struct {
	name       string
	confidence float64
	fail       bool
	delay      time.Duration

	mu    sync.Mutex
	calls []string
}

func (a *recordingAgent) Name() string                  { return a.name }
func (a *recordingAgent) ExpertiseDomains() []string    { return nil }
func (a *recordingAgent) AnswerablePatterns() []string  { return nil }
func (a *recordingAgent) CanAnswer(string) bool         { return true }
func (a *recordingAgent) RelevanceScore(string) float64 { return 0.5 }

func (a *recordingAgent) Answer(ctx context.Context, question, target string, _ map[string]any) (core.StructuredAnswer, error) {
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return core.StructuredAnswer{}, ctx.Err()
		}
	}
	a.mu.Lock()
	a.calls = append(a.calls, question)
	a.mu.Unlock()
	if a.fail {
		return core.StructuredAnswer{}, errors.New("agent exploded")
	}
	return core.StructuredAnswer{
		Agent:      a.name,
		Question:   question,
		Target:     target,
		Confidence: a.confidence,
		CreatedAt:  time.Now(),
	}, nil
}

func registryWith(t *testing.T, agents ...core.SpecialistAgent) *route.Registry {
	t.Helper()
	r := route.NewRegistry()
	for _, a := range agents {
		require.NoError(t, r.Register(a))
	}
	return r
}

func chainDecomposition(strategy core.Strategy) core.Decomposition {
	return core.Decomposition{
		Question: core.Question{Text: "main", Target: "Acme Capital"},
		SubQuestions: []core.SubQuestion{
			{ID: "sq_1", Question: "first", TargetAgents: []string{"worker"}},
			{ID: "sq_2", Question: "second", TargetAgents: []string{"worker"}, Dependencies: []string{"sq_1"}},
			{ID: "sq_3", Question: "third", TargetAgents: []string{"worker"}, Dependencies: []string{"sq_2"}},
		},
		Strategy: strategy,
	}
}

func TestOrchestrator_Execute_SequentialChain(t *testing.T) {
	agent := &recordingAgent{name: "worker", confidence: 0.7}
	o := New(registryWith(t, agent))

	res, err := o.Execute(context.Background(), chainDecomposition(core.StrategySequential))

	require.NoError(t, err)
	require.Len(t, res.Answers, 3)
	assert.Equal(t, []string{"first", "second", "third"}, agent.calls,
		"dependency order respected")
	assert.False(t, res.Stalled)

	// Each task finishes before its dependent starts.
	for i := 1; i < len(res.Tasks); i++ {
		assert.False(t, res.Tasks[i].StartedAt.Before(res.Tasks[i-1].FinishedAt))
	}
}

func TestOrchestrator_Execute_HybridChain(t *testing.T) {
	agent := &recordingAgent{name: "worker", confidence: 0.7}
	o := New(registryWith(t, agent))

	res, err := o.Execute(context.Background(), chainDecomposition(core.StrategyHybrid))

	require.NoError(t, err)
	require.Len(t, res.Answers, 3)
	assert.Equal(t, []string{"first", "second", "third"}, agent.calls)
	for _, task := range res.Tasks {
		assert.Equal(t, StateCompleted, task.State)
		assert.False(t, task.StartedAt.IsZero())
		assert.False(t, task.FinishedAt.IsZero())
	}
}

func TestOrchestrator_Execute_ParallelBatch(t *testing.T) {
	agent := &recordingAgent{name: "worker", confidence: 0.7, delay: 20 * time.Millisecond}
	o := New(registryWith(t, agent))

	dec := core.Decomposition{
		Question: core.Question{Target: "Acme"},
		SubQuestions: []core.SubQuestion{
			{ID: "sq_1", Question: "a"},
			{ID: "sq_2", Question: "b"},
			{ID: "sq_3", Question: "c"},
		},
		Strategy: core.StrategyParallel,
	}

	start := time.Now()
	res, err := o.Execute(context.Background(), dec)

	require.NoError(t, err)
	assert.Len(t, res.Answers, 3)
	assert.Less(t, time.Since(start), 60*time.Millisecond,
		"independent sub-questions overlap")
}

func TestOrchestrator_Execute_BatchMetricsLogged(t *testing.T) {
	working := &recordingAgent{name: "working", confidence: 0.7}
	failing := &recordingAgent{name: "failing", fail: true}
	logger := &capturingLogger{}
	o := New(registryWith(t, working, failing), func(o *Options) {
		o.Logger = logger
	})

	dec := core.Decomposition{
		Question: core.Question{Target: "Acme"},
		SubQuestions: []core.SubQuestion{
			{ID: "sq_1", Question: "a", TargetAgents: []string{"working"}},
			{ID: "sq_2", Question: "b", TargetAgents: []string{"failing"}},
		},
		Strategy: core.StrategyParallel,
	}

	_, err := o.Execute(context.Background(), dec)
	require.NoError(t, err)

	record := logger.find("batch completed")
	require.NotNil(t, record, "every batch reports its outcome")
	assert.Equal(t, 1, record["batch"])
	assert.Equal(t, 2, record["size"])
	assert.Equal(t, 1, record["completed"])
	assert.Equal(t, 1, record["failed"])
	assert.Greater(t, record["duration"].(time.Duration), time.Duration(0))
}

func TestOrchestrator_Execute_CircularDependencyStalls(t *testing.T) {
	agent := &recordingAgent{name: "worker", confidence: 0.7}
	o := New(registryWith(t, agent))

	dec := core.Decomposition{
		Question: core.Question{Target: "Acme"},
		SubQuestions: []core.SubQuestion{
			{ID: "sq_1", Question: "a", Dependencies: []string{"sq_2"}},
			{ID: "sq_2", Question: "b", Dependencies: []string{"sq_1"}},
			{ID: "sq_3", Question: "c"},
		},
		Strategy: core.StrategyHybrid,
	}

	res, err := o.Execute(context.Background(), dec)

	require.NoError(t, err, "a cycle terminates the run, it does not hang or error")
	assert.True(t, res.Stalled)
	assert.Len(t, res.Answers, 1, "the independent sub-question still completes")
	assert.Equal(t, StateFailed, res.Tasks[0].State)
	assert.Equal(t, StateFailed, res.Tasks[1].State)
	assert.Equal(t, StateCompleted, res.Tasks[2].State)
}

func TestOrchestrator_Execute_FailedDependencyUnblocksDependent(t *testing.T) {
	failing := &recordingAgent{name: "failing", fail: true}
	working := &recordingAgent{name: "working", confidence: 0.7}
	o := New(registryWith(t, failing, working))

	dec := core.Decomposition{
		Question: core.Question{Target: "Acme"},
		SubQuestions: []core.SubQuestion{
			{ID: "sq_1", Question: "a", TargetAgents: []string{"failing"}},
			{ID: "sq_2", Question: "b", TargetAgents: []string{"working"}, Dependencies: []string{"sq_1"}},
		},
		Strategy: core.StrategyHybrid,
	}

	res, err := o.Execute(context.Background(), dec)

	require.NoError(t, err)
	assert.False(t, res.Stalled)
	assert.Equal(t, StateFailed, res.Tasks[0].State)
	assert.Equal(t, StateCompleted, res.Tasks[1].State,
		"a failed dependency must not deadlock its dependents")
	assert.Len(t, res.Answers, 1)
}

func TestOrchestrator_Execute_StopPolicyAbortsAfterFailure(t *testing.T) {
	failing := &recordingAgent{name: "failing", fail: true}
	working := &recordingAgent{name: "working", confidence: 0.7}
	o := New(registryWith(t, failing, working), func(o *Options) {
		o.FailurePolicy = FailureStop
	})

	dec := core.Decomposition{
		Question: core.Question{Target: "Acme"},
		SubQuestions: []core.SubQuestion{
			{ID: "sq_1", Question: "a", TargetAgents: []string{"failing"}},
			{ID: "sq_2", Question: "b", TargetAgents: []string{"working"}, Dependencies: []string{"sq_1"}},
		},
		Strategy: core.StrategySequential,
	}

	res, err := o.Execute(context.Background(), dec)

	require.NoError(t, err)
	assert.True(t, res.Stopped)
	assert.Empty(t, res.Answers)
	assert.Equal(t, StatePending, res.Tasks[1].State, "nothing new starts after the stop")
}

func TestOrchestrator_Execute_UnroutableRecorded(t *testing.T) {
	r := route.NewRegistry() // no agents can answer
	incapable := &incapableAgent{}
	require.NoError(t, r.Register(incapable))
	o := New(r)

	dec := core.Decomposition{
		Question:     core.Question{Target: "Acme"},
		SubQuestions: []core.SubQuestion{{ID: "sq_1", Question: "a"}},
		Strategy:     core.StrategySequential,
	}

	res, err := o.Execute(context.Background(), dec)

	require.NoError(t, err)
	assert.Equal(t, []string{"sq_1"}, res.Unroutable)
	assert.Equal(t, StateFailed, res.Tasks[0].State)
	assert.Empty(t, res.Answers)
}

func TestOrchestrator_Execute_InvalidDecomposition(t *testing.T) {
	o := New(registryWith(t, &recordingAgent{name: "worker"}))
	_, err := o.Execute(context.Background(), core.Decomposition{})
	assert.Error(t, err)
}

func TestOrchestrator_Execute_ContextCancellation(t *testing.T) {
	agent := &recordingAgent{name: "worker", delay: time.Second}
	o := New(registryWith(t, agent))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := o.Execute(ctx, chainDecomposition(core.StrategySequential))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// capturingLogger records structured log entries for assertions.
type capturingLogger struct {
	mu      sync.Mutex
	entries []map[string]any
}

func (l *capturingLogger) log(msg string, args ...any) {
	entry := map[string]any{"msg": msg}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			entry[key] = args[i+1]
		}
	}
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

func (l *capturingLogger) Debug(msg string, args ...any) { l.log(msg, args...) }
func (l *capturingLogger) Info(msg string, args ...any)  { l.log(msg, args...) }
func (l *capturingLogger) Warn(msg string, args ...any)  { l.log(msg, args...) }
func (l *capturingLogger) Error(msg string, args ...any) { l.log(msg, args...) }

func (l *capturingLogger) find(msg string) map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e["msg"] == msg {
			return e
		}
	}
	return nil
}

type incapableAgent struct{}

func (a *incapableAgent) Name() string                  { return "incapable" }
func (a *incapableAgent) ExpertiseDomains() []string    { return nil }
func (a *incapableAgent) AnswerablePatterns() []string  { return nil }
func (a *incapableAgent) CanAnswer(string) bool         { return false }
func (a *incapableAgent) RelevanceScore(string) float64 { return 0 }
func (a *incapableAgent) Answer(context.Context, string, string, map[string]any) (core.StructuredAnswer, error) {
	return core.StructuredAnswer{}, nil
}
