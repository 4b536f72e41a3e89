// Package route implements the agent capability registry and router:
// matching each sub-question to the best-fit specialist agent by suggested
// names first, then by weighted expertise/pattern overlap.
package route

import (
	"fmt"
	"sync"

	"github.com/inquiro/inquiro/core"
	"github.com/inquiro/inquiro/logging"
)

// Registry holds registered specialist agents keyed by name. Registration
// order is preserved for deterministic tie-breaking. The registry is
// append-only: agents register once at startup and are never mutated, so
// routing is read-safe under concurrent sub-question execution.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	agents map[string]core.SpecialistAgent
	logger logging.Logger
}

// Options configure the registry.
type Options struct {
	Logger logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(optFns ...func(o *Options)) *Registry {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		agents: make(map[string]core.SpecialistAgent),
		logger: opts.Logger,
	}
}

// Register adds an agent under its name. Re-registering a name is rejected
// to keep the registry append-only.
func (r *Registry) Register(agent core.SpecialistAgent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := agent.Name()
	if name == "" {
		return fmt.Errorf("agent has empty name")
	}
	if _, exists := r.agents[name]; exists {
		return fmt.Errorf("agent %q already registered", name)
	}
	r.agents[name] = agent
	r.order = append(r.order, name)
	r.logger.Info("registered specialist agent", "agent", name, "domains", agent.ExpertiseDomains())
	return nil
}

// Get returns a registered agent by name.
func (r *Registry) Get(name string) (core.SpecialistAgent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[name]
	return agent, ok
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// Names returns agent names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Capabilities returns each agent's expertise keywords in registration
// order, for embedding into decomposition prompts.
func (r *Registry) Capabilities() []AgentCapability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	caps := make([]AgentCapability, 0, len(r.order))
	for _, name := range r.order {
		agent := r.agents[name]
		caps = append(caps, AgentCapability{
			Name:     name,
			Domains:  agent.ExpertiseDomains(),
			Patterns: agent.AnswerablePatterns(),
		})
	}
	return caps
}

// AgentCapability is a registry snapshot entry describing one agent.
type AgentCapability struct {
	Name     string
	Domains  []string
	Patterns []string
}

// Route finds the best agent for a sub-question. Explicitly suggested agent
// names win if any of them can answer; otherwise every registered agent is
// scored by relevance and the highest wins, ties broken by registration
// order. Returns core.ErrNoCapableAgent when no agent scores above zero.
func (r *Registry) Route(question string, suggested []string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range suggested {
		if agent, ok := r.agents[name]; ok && agent.CanAnswer(question) {
			r.logger.Debug("using suggested agent", "agent", name)
			return name, nil
		}
	}

	best := ""
	bestScore := 0.0
	for _, name := range r.order {
		agent := r.agents[name]
		if !agent.CanAnswer(question) {
			continue
		}
		if score := agent.RelevanceScore(question); score > bestScore {
			best = name
			bestScore = score
		}
	}
	if best == "" {
		r.logger.Warn("no capable agent", "question", question)
		return "", fmt.Errorf("%w: %q", core.ErrNoCapableAgent, question)
	}
	r.logger.Debug("routed question", "agent", best, "score", bestScore)
	return best, nil
}

// RoutingPlan summarizes how a batch of questions would route, for
// diagnostics and status reporting.
type RoutingPlan struct {
	Assignments map[string]string // question -> agent
	Utilization map[string]int    // agent -> assigned count
	Unroutable  []string
}

// Plan routes each question without executing anything.
func (r *Registry) Plan(questions []string) RoutingPlan {
	plan := RoutingPlan{
		Assignments: make(map[string]string, len(questions)),
		Utilization: make(map[string]int),
	}
	for _, q := range questions {
		agent, err := r.Route(q, nil)
		if err != nil {
			plan.Unroutable = append(plan.Unroutable, q)
			continue
		}
		plan.Assignments[q] = agent
		plan.Utilization[agent]++
	}
	return plan
}
