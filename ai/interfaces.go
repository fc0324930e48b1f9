package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a completion for a prompt. Generation is synchronous;
// the full response is returned at once, never streamed.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate produces a text completion for the given prompt.
	// Returns an error if generation fails.
	Generate(ctx context.Context, prompt string) (string, error)
}

// SentimentClassifier classifies the emotional tone of a piece of text.
// Implementations must be thread-safe for concurrent use.
type SentimentClassifier interface {
	// Classify returns the sentiment of the text with a confidence score.
	// The label is one of the raw labels in SentimentLabels.
	Classify(ctx context.Context, text string) (Sentiment, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder, Generator and
// SentimentClassifier instances, ensuring they share configuration and
// resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the text generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// SentimentClassifier returns the sentiment classification service.
	// The returned SentimentClassifier is safe for concurrent use.
	SentimentClassifier() SentimentClassifier

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
