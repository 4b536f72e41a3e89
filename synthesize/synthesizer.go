// Package synthesize merges specialist agent answers into one coherent,
// prioritized intelligence result. Synthesis is LLM-driven with
// question-type-specific emphasis; when the provider chain fails it degrades
// to a deterministic rule-based merge, and an empty answer set produces a
// fixed zero-confidence result without any provider call.
package synthesize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/inquiro/inquiro/core"
	"github.com/inquiro/inquiro/llm"
	"github.com/inquiro/inquiro/logging"
)

// TaskType is the llm.Client task routed to the synthesis model.
const TaskType = "synthesis"

// Synthesis method labels recorded in processing metadata.
const (
	MethodLLM      = "llm_powered"
	MethodFallback = "fallback_rules"
	MethodEmpty    = "empty_response"
)

// Options configure a Synthesizer.
type Options struct {
	Logger logging.Logger
}

// Synthesizer combines structured agent answers into the final result.
type Synthesizer struct {
	client *llm.Client
	opts   Options
}

// New creates a Synthesizer over the given LLM client.
func New(client *llm.Client, optFns ...func(o *Options)) *Synthesizer {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Synthesizer{client: client, opts: opts}
}

// Synthesize merges the agent answers into a SynthesizedIntelligence. It
// never returns an error for LLM unavailability; only context cancellation
// propagates. An empty answer slice yields the deterministic empty result.
func (s *Synthesizer) Synthesize(ctx context.Context, question core.Question, answers []core.StructuredAnswer, questionType string) (core.SynthesizedIntelligence, error) {
	if err := ctx.Err(); err != nil {
		return core.SynthesizedIntelligence{}, err
	}
	if len(answers) == 0 {
		return s.emptyResult(question), nil
	}

	payload, err := s.client.GenerateJSON(ctx, s.buildPrompt(question, answers, questionType), TaskType)
	if err != nil {
		s.opts.Logger.Warn("synthesis falling back to rule-based merge", "error", err.Error())
		return s.Fallback(question, answers), nil
	}
	return s.parse(question, answers, payload), nil
}

func (s *Synthesizer) buildPrompt(q core.Question, answers []core.StructuredAnswer, questionType string) string {
	return fmt.Sprintf(`You are an expert business intelligence analyst synthesizing research from multiple specialist agents to answer a specific business question.

ORIGINAL QUESTION: %q
TARGET: %q
QUESTION TYPE: %s

SPECIALIST AGENT RESPONSES:
%s
%s
Synthesize this intelligence into a comprehensive, actionable response that:

1. DIRECTLY ANSWERS the original question with specific, concrete details
2. PROVIDES EXECUTIVE SUMMARY (2-3 sentences) of the most important findings
3. IDENTIFIES KEY INSIGHTS that weren't obvious from individual agent responses
4. RECOMMENDS SPECIFIC NEXT STEPS with priorities, timelines and rationale
5. SUGGESTS FOLLOW-UP QUESTIONS for deeper investigation
6. ASSESSES CONFIDENCE LEVELS with clear reasoning

Focus on specific names, numbers and dates, cross-references between agent findings, and clear prioritization of recommendations.

Return as structured JSON:
{
  "executive_summary": "2-3 sentence summary for executive consumption",
  "key_insights": ["strategic insight 1", "strategic insight 2"],
  "actionable_intelligence": {
    "primary_findings": {},
    "supporting_data": {}
  },
  "prioritized_recommendations": [
    {
      "action": "specific action to take",
      "priority": "high|medium|low",
      "timeline": "immediate|1-2 weeks|1 month",
      "rationale": "why this action and this priority",
      "resources_needed": "what is required to execute",
      "expected_outcome": "what success looks like",
      "risk_level": "low|medium|high"
    }
  ],
  "follow_up_questions": ["follow-up question 1", "follow-up question 2"],
  "confidence_assessment": {
    "overall_confidence": 0.0,
    "data_completeness": 0.0,
    "source_reliability": 0.0,
    "limitations": ["limitation 1"],
    "improvement_recommendations": ["improvement 1"]
  }
}`, q.Text, q.Target, questionType, formatAnswers(answers), typeInstructions(questionType))
}

// typeInstructions tailors the synthesis emphasis to the question category.
func typeInstructions(questionType string) string {
	switch questionType {
	case "executive_analysis":
		return `
For executive analysis questions, prioritize:
- Specific names and titles of decision makers
- Decision-making authority and processes
- Best methods for engagement
`
	case "investment_research":
		return `
For investment research questions, prioritize:
- Specific investment amounts, dates and companies
- Investment patterns and themes
- Investment criteria and recent trends
`
	case "gap_analysis":
		return `
For gap analysis questions, prioritize:
- Specific gaps with quantified opportunities
- Strategic recommendations with clear rationale
- Risk factors and mitigation strategies
`
	default:
		return `
For comprehensive analysis questions, balance:
- Executive findings with investment insights
- Strategic opportunities with tactical recommendations
- Quantitative data with qualitative insights
`
	}
}

func formatAnswers(answers []core.StructuredAnswer) string {
	var b strings.Builder
	for _, a := range answers {
		data, _ := json.Marshal(a.Data)
		sources := a.Sources
		truncated := ""
		if len(sources) > 3 {
			sources = sources[:3]
			truncated = "..."
		}
		fmt.Fprintf(&b, `
AGENT: %s
QUESTION: %s
CONFIDENCE: %.2f
DATA: %s
SOURCES: %s%s
RECOMMENDATIONS: %s
`, a.Agent, a.Question, a.Confidence, data, strings.Join(sources, ", "), truncated, strings.Join(a.Recommendations, "; "))
	}
	return b.String()
}

func (s *Synthesizer) parse(q core.Question, answers []core.StructuredAnswer, payload map[string]any) core.SynthesizedIntelligence {
	result := core.SynthesizedIntelligence{
		OriginalQuestion:       q.Text,
		Target:                 q.Target,
		ExecutiveSummary:       stringField(payload, "executive_summary"),
		KeyInsights:            stringList(payload["key_insights"]),
		ActionableIntelligence: mapField(payload, "actionable_intelligence"),
		Recommendations:        parseRecommendations(payload["prioritized_recommendations"]),
		FollowUpQuestions:      stringList(payload["follow_up_questions"]),
		Confidence:             parseConfidence(payload["confidence_assessment"], answers),
		Sources:                mergeSources(answers),
		Metadata: core.ProcessingMetadata{
			AgentsUsed:      agentNames(answers),
			AnswerCount:     len(answers),
			SynthesisMethod: MethodLLM,
		},
		GeneratedAt: time.Now(),
	}
	if result.ExecutiveSummary == "" {
		result.ExecutiveSummary = fmt.Sprintf("Analysis of %s based on %d specialist agent responses.", q.Target, len(answers))
	}
	if len(result.KeyInsights) == 0 {
		result.KeyInsights = defaultInsights(answers)
	}
	return result
}

// Fallback is the rule-based merge used when LLM synthesis is unavailable.
// Overall confidence is the average of the input answer confidences, so the
// result always sits within the min/max bounds of its inputs.
func (s *Synthesizer) Fallback(q core.Question, answers []core.StructuredAnswer) core.SynthesizedIntelligence {
	intelligence := make(map[string]any, len(answers))
	for _, a := range answers {
		intelligence[a.Agent] = a.Data
	}

	return core.SynthesizedIntelligence{
		OriginalQuestion:       q.Text,
		Target:                 q.Target,
		ExecutiveSummary:       fmt.Sprintf("Analysis of %s based on %d specialist agent responses.", q.Target, len(answers)),
		KeyInsights:            defaultInsights(answers),
		ActionableIntelligence: intelligence,
		Recommendations: []core.Recommendation{{
			Action:          "Review detailed agent responses for specific insights",
			Priority:        "high",
			Timeline:        "immediate",
			Rationale:       "Rule-based synthesis requires manual review",
			ResourcesNeeded: "human analysis",
			ExpectedOutcome: "better understanding of findings",
			RiskLevel:       "low",
		}},
		FollowUpQuestions: []string{"What specific aspect would you like to explore further?"},
		Confidence: core.ConfidenceAssessment{
			Overall:      averageConfidence(answers),
			Completeness: 0.7,
			Reliability:  0.6,
			Limitations:  []string{"Rule-based synthesis used", "Manual review recommended"},
			Improvements: []string{"Use LLM synthesis for better results"},
		},
		Sources: mergeSources(answers),
		Metadata: core.ProcessingMetadata{
			AgentsUsed:      agentNames(answers),
			AnswerCount:     len(answers),
			SynthesisMethod: MethodFallback,
		},
		GeneratedAt: time.Now(),
	}
}

// emptyResult is the deterministic zero-confidence result for a run that
// produced no agent answers at all.
func (s *Synthesizer) emptyResult(q core.Question) core.SynthesizedIntelligence {
	return core.SynthesizedIntelligence{
		OriginalQuestion:       q.Text,
		Target:                 q.Target,
		ExecutiveSummary:       fmt.Sprintf("No intelligence data available for %s.", q.Target),
		KeyInsights:            []string{"No data available from specialist agents"},
		ActionableIntelligence: map[string]any{},
		Recommendations: []core.Recommendation{{
			Action:          "Configure and run specialist agents",
			Priority:        "high",
			Timeline:        "immediate",
			Rationale:       "No agent responses available for synthesis",
			ResourcesNeeded: "agent configuration and execution",
			ExpectedOutcome: "actionable intelligence data",
			RiskLevel:       "low",
		}},
		FollowUpQuestions: []string{"What specific information would you like to gather about this organization?"},
		Confidence: core.ConfidenceAssessment{
			Limitations:  []string{"No agent responses available"},
			Improvements: []string{"Run specialist agents first"},
		},
		Sources: []string{},
		Metadata: core.ProcessingMetadata{
			AgentsUsed:      []string{},
			SynthesisMethod: MethodEmpty,
		},
		GeneratedAt: time.Now(),
	}
}

// parseConfidence extracts the LLM's self-assessment, clamping every score
// and falling back to the input-answer average when the block is missing.
func parseConfidence(v any, answers []core.StructuredAnswer) core.ConfidenceAssessment {
	m, ok := v.(map[string]any)
	if !ok {
		return core.ConfidenceAssessment{
			Overall:      averageConfidence(answers),
			Completeness: 0.5,
			Reliability:  0.5,
			Limitations:  []string{"Confidence assessment missing from synthesis"},
		}
	}
	return core.ConfidenceAssessment{
		Overall:      clampField(m, "overall_confidence"),
		Completeness: clampField(m, "data_completeness"),
		Reliability:  clampField(m, "source_reliability"),
		Limitations:  stringList(m["limitations"]),
		Improvements: stringList(m["improvement_recommendations"]),
	}
}

func parseRecommendations(v any) []core.Recommendation {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	recs := make([]core.Recommendation, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec := core.Recommendation{
			Action:          stringField(m, "action"),
			Priority:        stringField(m, "priority"),
			Timeline:        stringField(m, "timeline"),
			Rationale:       stringField(m, "rationale"),
			ResourcesNeeded: stringField(m, "resources_needed"),
			ExpectedOutcome: stringField(m, "expected_outcome"),
			RiskLevel:       stringField(m, "risk_level"),
		}
		if rec.Action == "" {
			continue
		}
		if rec.Priority == "" {
			rec.Priority = "medium"
		}
		recs = append(recs, rec)
	}
	return recs
}

func averageConfidence(answers []core.StructuredAnswer) float64 {
	if len(answers) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range answers {
		sum += a.Confidence
	}
	return core.ClampConfidence(sum / float64(len(answers)))
}

// mergeSources returns the unique source URLs across all answers in
// first-seen order.
func mergeSources(answers []core.StructuredAnswer) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, a := range answers {
		for _, u := range a.Sources {
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}

func agentNames(answers []core.StructuredAnswer) []string {
	names := make([]string, 0, len(answers))
	for _, a := range answers {
		names = append(names, a.Agent)
	}
	return names
}

func defaultInsights(answers []core.StructuredAnswer) []string {
	return []string{
		fmt.Sprintf("Data collected from %d sources", len(mergeSources(answers))),
		fmt.Sprintf("Analysis involved %d specialist agents", len(answers)),
	}
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func mapField(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

func clampField(m map[string]any, key string) float64 {
	v, _ := m[key].(float64)
	return core.ClampConfidence(v)
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
