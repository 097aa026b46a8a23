package mock

import "context"

// MockJudge is a test double for ai.Judge.
// It allows custom behavior injection via function fields.
type MockJudge struct {
	// ScoreRelevanceFunc is called by ScoreRelevance if set.
	// If nil, returns Score.
	ScoreRelevanceFunc func(ctx context.Context, question, answer string, contexts []string) (float64, error)

	// Score is the canned relevance returned when ScoreRelevanceFunc is nil.
	Score float64

	callCount int
}

// NewMockJudge creates a mock judge returning the given canned score.
// Note: Returns concrete type to allow test assertions.
func NewMockJudge(score float64) *MockJudge {
	return &MockJudge{Score: score}
}

// ScoreRelevance returns the configured relevance score.
func (m *MockJudge) ScoreRelevance(ctx context.Context, question, answer string, contexts []string) (float64, error) {
	m.callCount++

	if m.ScoreRelevanceFunc != nil {
		return m.ScoreRelevanceFunc(ctx, question, answer, contexts)
	}

	return m.Score, nil
}

// CallCount returns the number of times ScoreRelevance was called.
func (m *MockJudge) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockJudge) Reset() {
	m.callCount = 0
	m.ScoreRelevanceFunc = nil
}
