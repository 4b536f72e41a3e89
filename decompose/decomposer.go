// Package decompose breaks a complex intelligence question into
// specialist-answerable sub-questions. Decomposition is LLM-driven with the
// registered agent capabilities embedded in the prompt; when the whole
// provider chain fails or returns malformed JSON, a deterministic
// keyword-based fallback produces a usable plan instead.
package decompose

import (
	"context"
	"fmt"
	"strings"

	"github.com/inquiro/inquiro/core"
	"github.com/inquiro/inquiro/llm"
	"github.com/inquiro/inquiro/logging"
	"github.com/inquiro/inquiro/route"
)

// TaskType is the llm.Client task routed to the decomposition model.
const TaskType = "question_decomposition"

// Question type categories assigned by classification.
const (
	TypeExecutiveAnalysis  = "executive_analysis"
	TypeInvestmentResearch = "investment_research"
	TypeGapAnalysis        = "gap_analysis"
	TypeComprehensive      = "comprehensive_analysis"
)

// Options configure a Decomposer.
type Options struct {
	Logger logging.Logger
}

// Decomposer turns questions into execution plans. The capability snapshot
// comes from the live registry at decomposition time, so newly registered
// agents are visible to the prompt without reconstruction.
type Decomposer struct {
	client   *llm.Client
	registry *route.Registry
	opts     Options
}

// New creates a Decomposer over the given LLM client and agent registry.
func New(client *llm.Client, registry *route.Registry, optFns ...func(o *Options)) *Decomposer {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Decomposer{client: client, registry: registry, opts: opts}
}

// Decompose produces the execution plan for a question. It never returns an
// error for LLM unavailability; the keyword fallback guarantees at least one
// sub-question. Only context cancellation propagates.
func (d *Decomposer) Decompose(ctx context.Context, q core.Question) (core.Decomposition, error) {
	if err := ctx.Err(); err != nil {
		return core.Decomposition{}, err
	}

	payload, err := d.client.GenerateJSON(ctx, d.buildPrompt(q), TaskType)
	if err != nil {
		d.opts.Logger.Warn("decomposition falling back to keyword plan", "error", err.Error())
		return d.Fallback(q), nil
	}

	dec := d.parse(q, payload)
	if err := dec.Validate(); err != nil {
		d.opts.Logger.Warn("discarding invalid decomposition", "error", err.Error())
		return d.Fallback(q), nil
	}
	return dec, nil
}

func (d *Decomposer) buildPrompt(q core.Question) string {
	var caps strings.Builder
	for _, c := range d.registry.Capabilities() {
		fmt.Fprintf(&caps, "- %s: %s\n", c.Name, strings.Join(c.Domains, ", "))
	}

	contextStr := "None"
	if len(q.Context) > 0 {
		pairs := make([]string, 0, len(q.Context))
		for k, v := range q.Context {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, v))
		}
		contextStr = strings.Join(pairs, ", ")
	}

	return fmt.Sprintf(`You are an expert business intelligence analyst. Break down this complex question into specific, answerable sub-questions for specialist agents.

QUESTION: %q
TARGET: %q
CONTEXT: %s

Available Specialist Agents and their capabilities:
%s
Analyze the question and break it into sub-questions that:
1. Can be answered by specific specialist agents
2. Build upon each other logically (consider dependencies)
3. Cover all aspects of the original question
4. Are specific and actionable
5. Avoid redundancy between agents

For each sub-question:
- Assign to appropriate specialist agents based on their capabilities
- Set priority (high/medium/low) based on importance to answering the main question
- Identify dependencies (which sub-questions must complete first)
- Classify the expected data type for response formatting

Return as JSON:
{
  "question_analysis": {
    "question_type": "executive_analysis|investment_research|gap_analysis|comprehensive_analysis",
    "complexity_score": 0.0,
    "focus_areas": ["area1", "area2"]
  },
  "sub_questions": [
    {
      "id": "sq_1",
      "question": "specific sub-question text",
      "target_agents": ["AgentName"],
      "priority": "high|medium|low",
      "dependencies": [],
      "rationale": "why this sub-question is needed",
      "expected_data_type": "executive_info|investment_data|gap_analysis|general"
    }
  ],
  "execution_plan": {
    "strategy": "sequential|parallel|hybrid",
    "estimated_time_minutes": 10
  }
}`, q.Text, q.Target, contextStr, caps.String())
}

// parse converts the raw LLM payload into a Decomposition, defaulting every
// missing field and dropping dependencies that reference IDs outside the
// plan. Dangling dependencies are an LLM artifact, not a reason to discard
// an otherwise usable plan.
func (d *Decomposer) parse(q core.Question, payload map[string]any) core.Decomposition {
	dec := core.Decomposition{
		Question:         q,
		Strategy:         core.StrategySequential,
		Complexity:       0.5,
		QuestionType:     "general_analysis",
		EstimatedMinutes: 10,
	}

	rawSubs, _ := payload["sub_questions"].([]any)
	ids := make(map[string]bool, len(rawSubs))
	for i, raw := range rawSubs {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		sq := core.SubQuestion{
			ID:               stringField(m, "id", fmt.Sprintf("sq_%d", i+1)),
			Question:         stringField(m, "question", ""),
			TargetAgents:     stringList(m["target_agents"]),
			Priority:         core.Priority(stringField(m, "priority", string(core.PriorityMedium))),
			Dependencies:     stringList(m["dependencies"]),
			Rationale:        stringField(m, "rationale", ""),
			ExpectedCategory: stringField(m, "expected_data_type", "general"),
		}
		if sq.Question == "" || ids[sq.ID] {
			continue
		}
		ids[sq.ID] = true
		dec.SubQuestions = append(dec.SubQuestions, sq)
	}

	for i, sq := range dec.SubQuestions {
		kept := sq.Dependencies[:0:0]
		for _, dep := range sq.Dependencies {
			if dep != sq.ID && ids[dep] {
				kept = append(kept, dep)
			}
		}
		dec.SubQuestions[i].Dependencies = kept
	}

	if plan, ok := payload["execution_plan"].(map[string]any); ok {
		if s := stringField(plan, "strategy", ""); s != "" {
			dec.Strategy = core.Strategy(s)
		}
		if mins, ok := plan["estimated_time_minutes"].(float64); ok && mins > 0 {
			dec.EstimatedMinutes = int(mins)
		}
	}
	if analysis, ok := payload["question_analysis"].(map[string]any); ok {
		if qt := stringField(analysis, "question_type", ""); qt != "" {
			dec.QuestionType = qt
		}
		if score, ok := analysis["complexity_score"].(float64); ok {
			dec.Complexity = core.ClampConfidence(score)
		}
	}

	// A plan that declares dependencies cannot run fully parallel.
	if dec.Strategy == core.StrategyParallel && dec.HasDependencies() {
		dec.Strategy = core.StrategyHybrid
	}
	return dec
}

// Keyword families behind the deterministic fallback plan.
var (
	executiveKeywords  = []string{"decision maker", "executive", "leadership", "who"}
	investmentKeywords = []string{"investment", "portfolio", "invested", "funding"}
	gapKeywords        = []string{"gap", "opportunity", "missing", "what are"}
)

// Fallback builds a keyword-driven plan when the LLM path is unavailable.
// Each matched keyword family contributes one independent sub-question; a
// question matching nothing gets a single general sub-question targeting the
// executive and investment agents. The result is always parallel-safe.
func (d *Decomposer) Fallback(q core.Question) core.Decomposition {
	lower := strings.ToLower(q.Text)
	var subs []core.SubQuestion

	if containsAny(lower, executiveKeywords) {
		subs = append(subs, core.SubQuestion{
			ID:               "sq_fallback_1",
			Question:         fmt.Sprintf("Who are the key decision makers at %s?", q.Target),
			TargetAgents:     []string{"ExecutiveIntelligenceAgent"},
			Priority:         core.PriorityHigh,
			Rationale:        "Fallback executive identification",
			ExpectedCategory: "executive_info",
		})
	}
	if containsAny(lower, investmentKeywords) {
		subs = append(subs, core.SubQuestion{
			ID:               "sq_fallback_2",
			Question:         fmt.Sprintf("What are the recent investments by %s?", q.Target),
			TargetAgents:     []string{"InvestmentIntelligenceAgent"},
			Priority:         core.PriorityHigh,
			Rationale:        "Fallback investment analysis",
			ExpectedCategory: "investment_data",
		})
	}
	if containsAny(lower, gapKeywords) {
		subs = append(subs, core.SubQuestion{
			ID:               "sq_fallback_3",
			Question:         fmt.Sprintf("What strategic gaps or opportunities exist for %s?", q.Target),
			TargetAgents:     []string{"GapAnalysisAgent"},
			Priority:         core.PriorityMedium,
			Rationale:        "Fallback gap analysis",
			ExpectedCategory: "gap_analysis",
		})
	}
	if len(subs) == 0 {
		subs = append(subs, core.SubQuestion{
			ID:               "sq_fallback_general",
			Question:         fmt.Sprintf("Provide general business intelligence on %s", q.Target),
			TargetAgents:     []string{"ExecutiveIntelligenceAgent", "InvestmentIntelligenceAgent"},
			Priority:         core.PriorityMedium,
			Rationale:        "Fallback general analysis",
			ExpectedCategory: "general",
		})
	}

	return core.Decomposition{
		Question:         q,
		SubQuestions:     subs,
		Strategy:         core.StrategyParallel,
		Complexity:       EstimateComplexity(q.Text),
		QuestionType:     ClassifyQuestionType(q.Text),
		EstimatedMinutes: 10,
	}
}

// ClassifyQuestionType buckets a question into its dominant category by
// keyword precedence: executive, then investment, then gap, then
// comprehensive.
func ClassifyQuestionType(question string) string {
	lower := strings.ToLower(question)
	switch {
	case containsAny(lower, executiveKeywords):
		return TypeExecutiveAnalysis
	case containsAny(lower, investmentKeywords):
		return TypeInvestmentResearch
	case containsAny(lower, []string{"gap", "opportunity", "missing", "compare"}):
		return TypeGapAnalysis
	default:
		return TypeComprehensive
	}
}

// EstimateComplexity scores a question in [0.3,1.0] from structural signals:
// comma-separated parts, comparative phrasing, time ranges and multiple
// company mentions.
func EstimateComplexity(question string) float64 {
	lower := strings.ToLower(question)
	complexity := 0.3

	if len(strings.Split(question, ",")) > 2 {
		complexity += 0.3
	}
	if containsAny(lower, []string{"compare", "vs", "versus", "between"}) {
		complexity += 0.4
	}
	if containsAny(lower, []string{"recent", "past", "last", "since"}) {
		complexity += 0.2
	}

	companyMentions := 0
	for _, indicator := range []string{"capital", "management", "ventures", "partners", "group"} {
		if strings.Contains(lower, indicator) {
			companyMentions++
		}
	}
	if companyMentions > 1 {
		complexity += 0.3
	}

	if complexity > 1 {
		complexity = 1
	}
	return complexity
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func stringField(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
