package core

import "fmt"

// Question is the immutable caller input: a free-text question about a target
// organization plus optional context shared with every downstream component.
type Question struct {
	Text    string         `json:"text"`
	Target  string         `json:"target"`
	Context map[string]any `json:"context,omitempty"`
}

// Priority ranks a sub-question's importance to answering the main question.
type Priority string

// Priority levels assigned by the decomposer.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Strategy selects how the orchestrator schedules a decomposition's
// sub-questions.
type Strategy string

const (
	// StrategySequential processes sub-questions one at a time in
	// dependency order.
	StrategySequential Strategy = "sequential"
	// StrategyParallel launches every sub-question concurrently in a single
	// batch. Only valid when the decomposition declares no dependencies.
	StrategyParallel Strategy = "parallel"
	// StrategyHybrid repeatedly launches the current ready batch
	// concurrently and waits for it before recomputing readiness. This is
	// the general-purpose, dependency-correct mode.
	StrategyHybrid Strategy = "hybrid"
)

// SubQuestion is one specialist-answerable unit of work produced by the
// decomposer. Dependencies reference sibling sub-question IDs that must
// reach a terminal state before this one may run. Read-only after creation.
type SubQuestion struct {
	ID               string   `json:"id"`
	Question         string   `json:"question"`
	TargetAgents     []string `json:"target_agents"`
	Priority         Priority `json:"priority"`
	Dependencies     []string `json:"dependencies"`
	Rationale        string   `json:"rationale"`
	ExpectedCategory string   `json:"expected_data_type"`
}

// Decomposition is the full execution plan for one question: the ordered
// sub-question set, the recommended scheduling strategy and a complexity
// estimate in [0,1]. Created once per question and consumed by the
// orchestrator.
type Decomposition struct {
	Question         Question      `json:"question"`
	SubQuestions     []SubQuestion `json:"sub_questions"`
	Strategy         Strategy      `json:"strategy"`
	Complexity       float64       `json:"complexity"`
	QuestionType     string        `json:"question_type"`
	EstimatedMinutes int           `json:"estimated_time_minutes"`
}

// Validate checks the structural invariants of a decomposition: at least one
// sub-question, unique IDs and no dependency referencing an ID outside the
// decomposition. Cycles are not rejected here; the orchestrator detects them
// at run time as a stall.
func (d Decomposition) Validate() error {
	if len(d.SubQuestions) == 0 {
		return fmt.Errorf("decomposition has no sub-questions")
	}
	ids := make(map[string]bool, len(d.SubQuestions))
	for _, sq := range d.SubQuestions {
		if sq.ID == "" {
			return fmt.Errorf("sub-question with empty id")
		}
		if ids[sq.ID] {
			return fmt.Errorf("duplicate sub-question id %q", sq.ID)
		}
		ids[sq.ID] = true
	}
	for _, sq := range d.SubQuestions {
		for _, dep := range sq.Dependencies {
			if !ids[dep] {
				return fmt.Errorf("sub-question %q depends on unknown id %q", sq.ID, dep)
			}
		}
	}
	return nil
}

// HasDependencies reports whether any sub-question declares a dependency.
// Used to reject the parallel strategy for dependency-bearing plans.
func (d Decomposition) HasDependencies() bool {
	for _, sq := range d.SubQuestions {
		if len(sq.Dependencies) > 0 {
			return true
		}
	}
	return false
}
