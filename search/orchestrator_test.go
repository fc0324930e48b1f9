package search

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/docrag/ai/mock"
	"github.com/poiesic/docrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testChunkRepository implements storage.ChunkRepository for testing.
type testChunkRepository struct {
	matches   []core.ChunkMatch
	err       error
	lastLimit int
}

func (r *testChunkRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) error {
	return nil
}

func (r *testChunkRepository) NearestChunks(ctx context.Context, vector []float32, limit int) ([]core.ChunkMatch, error) {
	r.lastLimit = limit
	if r.err != nil {
		return nil, r.err
	}
	if len(r.matches) > limit {
		return r.matches[:limit], nil
	}
	return r.matches, nil
}

func (r *testChunkRepository) CountChunks(ctx context.Context, docID core.ID) (int, error) {
	return len(r.matches), nil
}

func (r *testChunkRepository) Close() error { return nil }

func setupOrchestrator(t *testing.T, chunks *testChunkRepository) (*Orchestrator, *mock.MockGenerator) {
	t.Helper()
	generator := mock.NewMockGenerator()
	provider := mock.NewMockProviderWithServices(
		mock.NewMockEmbedder(), generator, mock.NewMockClassifier())

	o, err := NewOrchestrator(chunks, provider)
	require.NoError(t, err)
	return o, generator
}

func TestOrchestrator_AskReturnsAnswerWithSources(t *testing.T) {
	chunks := &testChunkRepository{
		matches: []core.ChunkMatch{
			{Filename: "q3.pdf", Text: "Revenue grew 12% in Q3.", Distance: 0.38},
			{Filename: "old.pdf", Text: "Unrelated filler text.", Distance: 0.70},
		},
	}
	o, generator := setupOrchestrator(t, chunks)
	generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "  Revenue grew 12% in the third quarter.\n", nil
	}

	answer, err := o.Ask(context.Background(), "How did revenue develop?", 3)
	require.NoError(t, err)

	// The answer is trimmed and only the match above the threshold becomes
	// a source: similarity 0.62 vs 0.30.
	assert.Equal(t, "Revenue grew 12% in the third quarter.", answer.Text)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "q3.pdf", answer.Sources[0].Filename)
	assert.Equal(t, "Revenue grew 12% in Q3.", answer.Sources[0].Content)
	assert.InDelta(t, 0.62, answer.Sources[0].SimilarityScore, 1e-6)

	// The prompt carried the surviving context and the question.
	assert.Contains(t, generator.LastPrompt(), "Revenue grew 12% in Q3.")
	assert.Contains(t, generator.LastPrompt(), "How did revenue develop?")
	assert.NotContains(t, generator.LastPrompt(), "Unrelated filler text.")
}

func TestOrchestrator_ThresholdIsExclusive(t *testing.T) {
	// Similarity exactly 0.4 is not enough; it must strictly exceed the
	// threshold.
	chunks := &testChunkRepository{
		matches: []core.ChunkMatch{
			{Filename: "a.pdf", Text: "at the threshold", Distance: 0.6},
			{Filename: "b.pdf", Text: "just above the threshold", Distance: 0.59},
		},
	}
	o, _ := setupOrchestrator(t, chunks)

	answer, err := o.Ask(context.Background(), "anything", 5)
	require.NoError(t, err)

	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "b.pdf", answer.Sources[0].Filename)
}

func TestOrchestrator_NoMatchesShortCircuits(t *testing.T) {
	chunks := &testChunkRepository{
		matches: []core.ChunkMatch{
			{Filename: "far.pdf", Text: "distant chunk", Distance: 0.95},
		},
	}
	o, generator := setupOrchestrator(t, chunks)

	answer, err := o.Ask(context.Background(), "anything relevant?", 3)
	require.NoError(t, err)

	assert.Equal(t, NoAnswerText, answer.Text)
	assert.Empty(t, answer.Sources)
	// The generator was never consulted
	assert.Equal(t, 0, generator.CallCount())
}

func TestOrchestrator_EmptyStoreShortCircuits(t *testing.T) {
	o, generator := setupOrchestrator(t, &testChunkRepository{})

	answer, err := o.Ask(context.Background(), "anything?", 3)
	require.NoError(t, err)

	assert.Equal(t, NoAnswerText, answer.Text)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, 0, generator.CallCount())
}

func TestOrchestrator_TopKClamping(t *testing.T) {
	tests := []struct {
		name string
		topK int
		want int
	}{
		{name: "zero uses default", topK: 0, want: DefaultTopK},
		{name: "negative raised to min", topK: -5, want: MinTopK},
		{name: "above max capped", topK: 99, want: MaxTopK},
		{name: "in range untouched", topK: 7, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := &testChunkRepository{}
			o, _ := setupOrchestrator(t, chunks)

			_, err := o.Ask(context.Background(), "query", tt.topK)
			require.NoError(t, err)
			assert.Equal(t, tt.want, chunks.lastLimit)
		})
	}
}

func TestOrchestrator_SimilarityRounded(t *testing.T) {
	chunks := &testChunkRepository{
		matches: []core.ChunkMatch{
			{Filename: "r.pdf", Text: "rounded", Distance: 0.123456},
		},
	}
	o, _ := setupOrchestrator(t, chunks)

	answer, err := o.Ask(context.Background(), "query", 1)
	require.NoError(t, err)

	require.Len(t, answer.Sources, 1)
	assert.InDelta(t, 0.8765, answer.Sources[0].SimilarityScore, 1e-9)
}

func TestOrchestrator_EmptyQueryRejected(t *testing.T) {
	o, _ := setupOrchestrator(t, &testChunkRepository{})

	_, err := o.Ask(context.Background(), "   ", 3)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestOrchestrator_FailuresWrapped(t *testing.T) {
	t.Run("embedding failure", func(t *testing.T) {
		chunks := &testChunkRepository{}
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("embedder down")
		}
		provider := mock.NewMockProviderWithServices(
			embedder, mock.NewMockGenerator(), mock.NewMockClassifier())
		o, err := NewOrchestrator(chunks, provider)
		require.NoError(t, err)

		_, err = o.Ask(context.Background(), "query", 3)
		assert.ErrorIs(t, err, ErrSearchFailed)
	})

	t.Run("retrieval failure", func(t *testing.T) {
		chunks := &testChunkRepository{err: errors.New("store down")}
		o, _ := setupOrchestrator(t, chunks)

		_, err := o.Ask(context.Background(), "query", 3)
		assert.ErrorIs(t, err, ErrSearchFailed)
	})

	t.Run("generation failure", func(t *testing.T) {
		chunks := &testChunkRepository{
			matches: []core.ChunkMatch{
				{Filename: "a.pdf", Text: "close enough", Distance: 0.1},
			},
		}
		o, generator := setupOrchestrator(t, chunks)
		generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("ollama down")
		}

		_, err := o.Ask(context.Background(), "query", 3)
		assert.ErrorIs(t, err, ErrSearchFailed)
	})
}
