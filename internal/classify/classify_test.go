package classify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ziadkadry99/city-intake/internal/department"
	"github.com/ziadkadry99/city-intake/internal/llm"
)

type fakeProvider struct {
	answer string
	err    error
	delay  time.Duration
	calls  []llm.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls = append(f.calls, req)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.answer}, nil
}

func TestKeywordsPriority(t *testing.T) {
	tests := []struct {
		text string
		want department.Department
		ok   bool
	}{
		{"There is a pothole on my street", department.Traffic, true},
		{"there is garbage overflowing", department.Waste, true},
		{"The street light is out", department.Energy, true},
		{"the lamp in the square is out", department.Energy, true},
		{"garbage blocking the road", department.Traffic, true},
		{"BINS ARE FULL", department.Waste, true},
		{"near railway station", department.None, false},
		{"", department.None, false},
	}
	for _, tt := range tests {
		got, ok := Keywords(tt.text)
		assert.Equal(t, tt.want, got, tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
	}
}

func TestClassifyWithoutProviderDefaultsToTraffic(t *testing.T) {
	c := New(nil, "", 0, nil)
	assert.Equal(t, department.Traffic, c.Classify(context.Background(), "something odd happened"))
	assert.Equal(t, department.Waste, c.Classify(context.Background(), "litter everywhere"))
}

func TestClassifyKeywordsSkipModel(t *testing.T) {
	p := &fakeProvider{answer: "energy_dept"}
	c := New(p, "gpt-3.5-turbo", time.Second, zap.NewNop())

	assert.Equal(t, department.Waste, c.Classify(context.Background(), "the trash was not picked up"))
	assert.Empty(t, p.calls)
}

func TestClassifyUsesModelAnswer(t *testing.T) {
	tests := []struct {
		answer string
		want   department.Department
	}{
		{"waste_dept", department.Waste},
		{"  Energy_Dept\n", department.Energy},
		{"traffic_dept", department.Traffic},
		{"I am not sure", department.Traffic},
	}
	for _, tt := range tests {
		p := &fakeProvider{answer: tt.answer}
		c := New(p, "gpt-3.5-turbo", time.Second, zap.NewNop())
		assert.Equal(t, tt.want, c.Classify(context.Background(), "a strange noise at night"), tt.answer)

		require.Len(t, p.calls, 1)
		req := p.calls[0]
		assert.Equal(t, "gpt-3.5-turbo", req.Model)
		assert.Zero(t, req.Temperature)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
		assert.Contains(t, req.Messages[0].Content, "traffic_dept, waste_dept, or energy_dept")
		assert.Equal(t, "a strange noise at night", req.Messages[1].Content)
	}
}

func TestClassifyModelFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := &fakeProvider{err: errors.New("quota exceeded")}
	c := New(p, "", time.Second, zap.New(core))

	assert.Equal(t, department.Traffic, c.Classify(context.Background(), "something odd happened"))
	assert.Equal(t, 1, logs.FilterMessageSnippet("model classification failed").Len())
}

func TestClassifyModelTimeout(t *testing.T) {
	p := &fakeProvider{answer: "waste_dept", delay: time.Second}
	c := New(p, "", 20*time.Millisecond, zap.NewNop())

	start := time.Now()
	assert.Equal(t, department.Traffic, c.Classify(context.Background(), "something odd happened"))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestIsGreeting(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"hi", true},
		{"Hello", true},
		{"  hey there  ", true},
		{"good morning", true},
		{"hi how are you", true},
		{"what's up", true},
		{"thanks", true},
		{"hi, garbage is overflowing", false},
		{"hello the traffic light is broken", false},
		{"hi 123", false},
		{"7", false},
		{"there is garbage overflowing", false},
		{"somebody dumped a sofa outside my building", false},
		{"こんにちは", true},
		{"привет всем", true},
		{"hola amigo", true},
		{"ça déborde près de la gare", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsGreeting(tt.text), tt.text)
	}
}
