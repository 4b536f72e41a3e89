package core

import "time"

// Recommendation is one prioritized next step in a synthesized result.
type Recommendation struct {
	Action          string `json:"action"`
	Priority        string `json:"priority"`
	Timeline        string `json:"timeline"`
	Rationale       string `json:"rationale"`
	ResourcesNeeded string `json:"resources_needed,omitempty"`
	ExpectedOutcome string `json:"expected_outcome,omitempty"`
	RiskLevel       string `json:"risk_level,omitempty"`
}

// ConfidenceAssessment summarizes how much the synthesized result can be
// trusted. All scores are in [0,1].
type ConfidenceAssessment struct {
	Overall      float64  `json:"overall_confidence"`
	Completeness float64  `json:"data_completeness"`
	Reliability  float64  `json:"source_reliability"`
	Limitations  []string `json:"limitations,omitempty"`
	Improvements []string `json:"improvement_recommendations,omitempty"`
}

// ProcessingMetadata records how a run unfolded, for diagnostics. Stalled is
// set when the orchestrator detected a circular dependency and returned
// early with partial answers.
type ProcessingMetadata struct {
	RunID            string        `json:"run_id,omitempty"`
	AgentsUsed       []string      `json:"agents_used"`
	Strategy         Strategy      `json:"execution_strategy,omitempty"`
	SubQuestionCount int           `json:"sub_questions_count,omitempty"`
	AnswerCount      int           `json:"answer_count,omitempty"`
	Unroutable       []string      `json:"unroutable,omitempty"`
	Stalled          bool          `json:"stalled,omitempty"`
	Elapsed          time.Duration `json:"processing_time,omitempty"`
	SynthesisMethod  string        `json:"synthesis_method"`
}

// SynthesizedIntelligence is the terminal artifact returned to the caller:
// all sub-answers merged into one prioritized, confidence-scored result.
// It is never mutated after synthesis.
type SynthesizedIntelligence struct {
	OriginalQuestion       string               `json:"original_question"`
	Target                 string               `json:"target"`
	ExecutiveSummary       string               `json:"executive_summary"`
	KeyInsights            []string             `json:"key_insights"`
	ActionableIntelligence map[string]any       `json:"actionable_intelligence"`
	Recommendations        []Recommendation     `json:"recommendations"`
	FollowUpQuestions      []string             `json:"follow_up_questions"`
	Confidence             ConfidenceAssessment `json:"confidence_assessment"`
	Sources                []string             `json:"data_sources"`
	Metadata               ProcessingMetadata   `json:"processing_metadata"`
	GeneratedAt            time.Time            `json:"generated_at"`
}
