// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"log/slog"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/ai/ollama"
)

// Provider implements ai.Provider. Embeddings and sentiment classification go
// through the OpenAI-compatible API; answer generation goes through the
// native Ollama API.
type Provider struct {
	config     *ai.Config
	embedder   *Embedder
	generator  ai.Generator
	classifier *SentimentClassifier
	logger     *slog.Logger
}

// NewProvider creates a new AI provider.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create embedder (using internal constructor for concrete type)
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	generator, err := ollama.NewGenerator(config)
	if err != nil {
		return nil, err
	}

	// Create sentiment classifier (using internal constructor for concrete type)
	classifier, err := newSentimentClassifier(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:     config,
		embedder:   embedder,
		generator:  generator,
		classifier: classifier,
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the text generation service.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// SentimentClassifier returns the sentiment classification service.
func (p *Provider) SentimentClassifier() ai.SentimentClassifier {
	return p.classifier
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing AI provider")
	return nil
}
