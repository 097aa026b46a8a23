package mock

import (
	"context"

	"github.com/crenna/ragpipe/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, returns Reply verbatim.
	GenerateFunc func(ctx context.Context, prompt string) (*ai.Generation, error)

	// Reply is the canned reply returned when GenerateFunc is nil.
	Reply string

	callCount int
	prompts   []string
}

// NewMockGenerator creates a mock generator returning the given canned reply.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator(reply string) *MockGenerator {
	return &MockGenerator{Reply: reply}
}

// Generate records the prompt and returns the configured reply.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (*ai.Generation, error) {
	m.callCount++
	m.prompts = append(m.prompts, prompt)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	return &ai.Generation{Text: m.Reply, Model: "mock"}, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Prompts returns every prompt Generate received, in call order.
func (m *MockGenerator) Prompts() []string {
	return m.prompts
}

// Reset clears recorded calls and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.prompts = nil
	m.GenerateFunc = nil
}
