package mock

import (
	"context"
	"strings"

	"github.com/poiesic/docrag/ai"
)

// MockClassifier is a test double for ai.SentimentClassifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, uses default keyword heuristic.
	ClassifyFunc func(ctx context.Context, text string) (ai.Sentiment, error)

	callCount int
}

// NewMockClassifier creates a mock classifier with default keyword heuristic.
// Note: Returns concrete type to allow test assertions.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify returns a sentiment based on a simple keyword heuristic.
// Default behavior: texts containing obviously positive words are positive,
// obviously negative words negative, everything else neutral.
func (m *MockClassifier) Classify(ctx context.Context, text string) (ai.Sentiment, error) {
	m.callCount++

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text)
	}

	lower := strings.ToLower(text)
	for _, w := range []string{"love", "great", "excellent", "wonderful"} {
		if strings.Contains(lower, w) {
			return ai.Sentiment{Label: "positive", Confidence: 0.95}, nil
		}
	}
	for _, w := range []string{"hate", "terrible", "awful", "worst"} {
		if strings.Contains(lower, w) {
			return ai.Sentiment{Label: "negative", Confidence: 0.95}, nil
		}
	}
	return ai.Sentiment{Label: "neutral", Confidence: 0.5}, nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockClassifier) Reset() {
	m.callCount = 0
	m.ClassifyFunc = nil
}
