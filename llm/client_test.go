package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/inquiro/inquiro/core"
)

// MockProvider for testing fallback behavior
type MockProvider struct{ mock.Mock }

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) Generate(ctx context.Context, prompt string, opts GenerateOptions) (Response, error) {
	args := m.Called(ctx, prompt, opts)
	return args.Get(0).(Response), args.Error(1)
}

func newMockProvider(name string) *MockProvider {
	p := &MockProvider{}
	p.On("Name").Return(name)
	return p
}

func TestClient_Generate_FirstProviderWins(t *testing.T) {
	first := newMockProvider("gemini")
	first.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(Response{Content: "a perfectly valid completion", Provider: "gemini"}, nil)
	second := newMockProvider("openai")

	client := New([]Provider{first, second})
	resp, err := client.Generate(context.Background(), "prompt", "synthesis")

	require.NoError(t, err)
	assert.Equal(t, "gemini", resp.Provider)
	second.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestClient_Generate_FallsBackOnError(t *testing.T) {
	first := newMockProvider("gemini")
	first.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(Response{}, errors.New("quota exceeded"))
	second := newMockProvider("openai")
	second.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(Response{Content: "fallback provider answered this one", Provider: "openai"}, nil)

	client := New([]Provider{first, second})
	resp, err := client.Generate(context.Background(), "prompt", "synthesis")

	require.NoError(t, err)
	assert.Equal(t, "openai", resp.Provider)
}

func TestClient_Generate_RejectsShortErrorResponses(t *testing.T) {
	first := newMockProvider("gemini")
	first.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(Response{Content: "Sorry, I cannot help with that.", Provider: "gemini"}, nil)
	second := newMockProvider("openai")
	second.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(Response{Content: "a long and useful completion with real content", Provider: "openai"}, nil)

	client := New([]Provider{first, second})
	resp, err := client.Generate(context.Background(), "prompt", "synthesis")

	require.NoError(t, err)
	assert.Equal(t, "openai", resp.Provider)
}

func TestClient_Generate_AllProvidersFailed(t *testing.T) {
	first := newMockProvider("gemini")
	first.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(Response{}, errors.New("unavailable"))

	client := New([]Provider{first})
	_, err := client.Generate(context.Background(), "prompt", "synthesis")

	assert.ErrorIs(t, err, core.ErrAllProvidersFailed)
}

func TestClient_Generate_EmptyChain(t *testing.T) {
	client := New(nil)
	_, err := client.Generate(context.Background(), "prompt", "synthesis")
	assert.ErrorIs(t, err, core.ErrAllProvidersFailed)
}

func TestClient_Generate_TaskTypeSelectsModel(t *testing.T) {
	p := newMockProvider("openai")
	p.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(func(opts GenerateOptions) bool {
		return opts.Model == "gpt-4o"
	})).Return(Response{Content: "completion long enough to validate fine"}, nil)

	client := New([]Provider{p}, func(o *Options) {
		o.Models = map[string]string{"synthesis": "gpt-4o"}
	})
	_, err := client.Generate(context.Background(), "prompt", "synthesis")
	require.NoError(t, err)
	p.AssertExpectations(t)
}

func TestClient_Generate_RateLimitSpacesCalls(t *testing.T) {
	p := newMockProvider("gemini")
	p.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(Response{Content: "completion long enough to validate fine"}, nil)

	client := New([]Provider{p}, func(o *Options) {
		o.RateLimitInterval = 50 * time.Millisecond
	})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Generate(context.Background(), "prompt", "synthesis")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestClient_GenerateJSON_ParsesWrappedObject(t *testing.T) {
	p := newMockProvider("gemini")
	p.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(Response{Content: "Here is the result:\n```json\n{\"strategy\": \"hybrid\", \"count\": 3}\n```"}, nil)

	client := New([]Provider{p})
	payload, err := client.GenerateJSON(context.Background(), "prompt", "question_decomposition")

	require.NoError(t, err)
	assert.Equal(t, "hybrid", payload["strategy"])
	assert.Equal(t, float64(3), payload["count"])
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantKey string
		wantErr bool
	}{
		{name: "bare object", text: `{"a": 1}`, wantKey: "a"},
		{name: "prose wrapped", text: `Sure! {"a": 1} hope that helps`, wantKey: "a"},
		{name: "no braces", text: "no json here at all", wantErr: true},
		{name: "unbalanced", text: `{"a": `, wantErr: true},
		{name: "empty", text: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ExtractJSON(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrMalformedJSON)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, payload, tt.wantKey)
		})
	}
}
