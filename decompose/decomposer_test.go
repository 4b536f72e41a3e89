package decompose

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/inquiro/inquiro/core"
	"github.com/inquiro/inquiro/llm"
	"github.com/inquiro/inquiro/route"
)

// MockProvider returns a canned completion.
type MockProvider struct{ mock.Mock }

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (llm.Response, error) {
	args := m.Called(ctx, prompt, opts)
	return args.Get(0).(llm.Response), args.Error(1)
}

type routedAgent struct {
	name    string
	domains []string
}

func (a *routedAgent) Name() string                  { return a.name }
func (a *routedAgent) ExpertiseDomains() []string    { return a.domains }
func (a *routedAgent) AnswerablePatterns() []string  { return nil }
func (a *routedAgent) CanAnswer(string) bool         { return true }
func (a *routedAgent) RelevanceScore(string) float64 { return 0.5 }
func (a *routedAgent) Answer(context.Context, string, string, map[string]any) (core.StructuredAnswer, error) {
	return core.StructuredAnswer{Agent: a.name}, nil
}

func testRegistry(t *testing.T) *route.Registry {
	t.Helper()
	r := route.NewRegistry()
	require.NoError(t, r.Register(&routedAgent{name: "ExecutiveIntelligenceAgent", domains: []string{"decision makers"}}))
	require.NoError(t, r.Register(&routedAgent{name: "InvestmentIntelligenceAgent", domains: []string{"investments"}}))
	return r
}

func TestDecomposer_Decompose_ParsesLLMPlan(t *testing.T) {
	p := &MockProvider{}
	p.On("Name").Return("gemini")
	p.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(llm.Response{
		Provider: "gemini",
		Content: `{
			"question_analysis": {"question_type": "comprehensive_analysis", "complexity_score": 0.7},
			"sub_questions": [
				{"id": "sq_1", "question": "Who are the decision makers at Acme Capital?", "target_agents": ["ExecutiveIntelligenceAgent"], "priority": "high", "dependencies": [], "expected_data_type": "executive_info"},
				{"id": "sq_2", "question": "What did Acme Capital invest in?", "target_agents": ["InvestmentIntelligenceAgent"], "priority": "high", "dependencies": ["sq_1", "sq_missing"], "expected_data_type": "investment_data"}
			],
			"execution_plan": {"strategy": "hybrid", "estimated_time_minutes": 15}
		}`,
	}, nil)

	d := New(llm.New([]llm.Provider{p}), testRegistry(t))
	dec, err := d.Decompose(context.Background(), core.Question{Text: "find decision makers and investments", Target: "Acme Capital"})

	require.NoError(t, err)
	require.Len(t, dec.SubQuestions, 2)
	assert.Equal(t, core.StrategyHybrid, dec.Strategy)
	assert.Equal(t, "comprehensive_analysis", dec.QuestionType)
	assert.InDelta(t, 0.7, dec.Complexity, 1e-9)
	assert.Equal(t, 15, dec.EstimatedMinutes)
	assert.Equal(t, []string{"sq_1"}, dec.SubQuestions[1].Dependencies,
		"dependencies on unknown ids are dropped")
	assert.NoError(t, dec.Validate())
}

func TestDecomposer_Decompose_PromptIncludesCapabilities(t *testing.T) {
	p := &MockProvider{}
	p.On("Name").Return("gemini")
	p.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "ExecutiveIntelligenceAgent") &&
			strings.Contains(prompt, "decision makers")
	}), mock.Anything).Return(llm.Response{
		Content: `{"sub_questions": [{"id": "sq_1", "question": "Who leads Acme?"}]}`,
	}, nil)

	d := New(llm.New([]llm.Provider{p}), testRegistry(t))
	_, err := d.Decompose(context.Background(), core.Question{Text: "who leads", Target: "Acme"})
	require.NoError(t, err)
	p.AssertExpectations(t)
}

func TestDecomposer_Decompose_FallsBackWhenChainExhausted(t *testing.T) {
	// Empty provider chain: every LLM call fails immediately.
	d := New(llm.New(nil), testRegistry(t))

	dec, err := d.Decompose(context.Background(), core.Question{
		Text:   "Who are the decision makers and what are their recent investments?",
		Target: "Acme Capital",
	})

	require.NoError(t, err)
	require.NotEmpty(t, dec.SubQuestions, "fallback always yields a plan")
	assert.Equal(t, core.StrategyParallel, dec.Strategy)
	assert.NoError(t, dec.Validate())
}

func TestDecomposer_Fallback_KeywordFamilies(t *testing.T) {
	d := New(llm.New(nil), testRegistry(t))

	tests := []struct {
		name       string
		question   string
		wantAgents []string
	}{
		{
			name:       "executive keywords",
			question:   "Who is the leadership team?",
			wantAgents: []string{"ExecutiveIntelligenceAgent"},
		},
		{
			name:       "investment keywords",
			question:   "Show me their portfolio and funding history",
			wantAgents: []string{"InvestmentIntelligenceAgent"},
		},
		{
			name:       "gap keywords",
			question:   "Identify the missing segments in their coverage",
			wantAgents: []string{"GapAnalysisAgent"},
		},
		{
			name:       "no match falls back to general",
			question:   "Tell me about this firm",
			wantAgents: []string{"ExecutiveIntelligenceAgent", "InvestmentIntelligenceAgent"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := d.Fallback(core.Question{Text: tt.question, Target: "Acme"})
			require.NotEmpty(t, dec.SubQuestions)
			assert.Equal(t, tt.wantAgents, dec.SubQuestions[0].TargetAgents)
			assert.NoError(t, dec.Validate())
		})
	}
}

func TestDecomposer_Fallback_MultipleFamilies(t *testing.T) {
	d := New(llm.New(nil), testRegistry(t))
	dec := d.Fallback(core.Question{
		Text:   "Who are the decision makers, what investments did they make, and what gaps remain?",
		Target: "Acme",
	})
	assert.Len(t, dec.SubQuestions, 3, "each matched family contributes one sub-question")
	assert.False(t, dec.HasDependencies())
}

func TestClassifyQuestionType(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"Who are the executives?", TypeExecutiveAnalysis},
		{"What funding did they raise?", TypeInvestmentResearch},
		{"Compare their coverage gaps", TypeGapAnalysis},
		{"Tell me about the firm", TypeComprehensive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyQuestionType(tt.question), tt.question)
	}
}

func TestEstimateComplexity(t *testing.T) {
	simple := EstimateComplexity("Tell me about Acme")
	complexQ := EstimateComplexity("Compare Acme Capital vs Beta Partners, recent deals, leadership, and gaps")

	assert.InDelta(t, 0.3, simple, 1e-9)
	assert.Greater(t, complexQ, simple)
	assert.LessOrEqual(t, complexQ, 1.0)
}
