package mock

import (
	"context"
	"strings"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default canned behavior.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	callCount  int
	lastPrompt string
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a canned completion derived from the prompt.
// Default behavior: echoes the first line of the prompt in a fixed template.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.lastPrompt = prompt

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	firstLine, _, _ := strings.Cut(strings.TrimSpace(prompt), "\n")
	return "Mock answer to: " + firstLine, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastPrompt returns the prompt passed to the most recent Generate call.
func (m *MockGenerator) LastPrompt() string {
	return m.lastPrompt
}

// Reset clears the call count, recorded prompt and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.lastPrompt = ""
	m.GenerateFunc = nil
}
