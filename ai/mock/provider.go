package mock

import "github.com/crenna/ragpipe/ai"

// MockProvider is a test double for ai.Provider aggregating the mock services.
type MockProvider struct {
	embedder  *MockEmbedder
	generator *MockGenerator
	judge     *MockJudge
}

var _ ai.Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider wired with default mock services.
//
// Returns ai.Provider since it is the primary entry point; use the
// GetMock* accessors for test assertions on the concrete types.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		generator: NewMockGenerator("mock reply"),
		judge:     NewMockJudge(1.0),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the mock generation service.
func (p *MockProvider) Generator() ai.Generator {
	return p.generator
}

// Judge returns the mock judge service.
func (p *MockProvider) Judge() ai.Judge {
	return p.judge
}

// GetMockEmbedder returns the concrete mock embedder for assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockGenerator returns the concrete mock generator for assertions.
func (p *MockProvider) GetMockGenerator() *MockGenerator {
	return p.generator
}

// GetMockJudge returns the concrete mock judge for assertions.
func (p *MockProvider) GetMockJudge() *MockJudge {
	return p.judge
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}
