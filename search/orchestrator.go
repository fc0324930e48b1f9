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


package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// Retrieval policy. Matches whose similarity (1 - cosine distance) does not
// strictly exceed the threshold are discarded; a request may ask for between
// MinTopK and MaxTopK chunks and gets DefaultTopK when unspecified.
const (
	SimilarityThreshold = 0.4
	DefaultTopK         = 3
	MinTopK             = 1
	MaxTopK             = 10
)

// Orchestrator runs the retrieval and generation flow: embed the query, find
// the nearest stored chunks, filter by similarity, and have the generator
// answer from the surviving context.
type Orchestrator struct {
	chunks       storage.ChunkRepository
	embedder     ai.Embedder
	generator    ai.Generator
	modelTimeout time.Duration
	logger       *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithModelTimeout bounds each embedding and generation call. Default is 120s.
func WithModelTimeout(d time.Duration) Option {
	return func(o *Orchestrator) error {
		if d <= 0 {
			return fmt.Errorf("model timeout must be positive, got %s", d)
		}
		o.modelTimeout = d
		return nil
	}
}

// NewOrchestrator creates a new search orchestrator.
func NewOrchestrator(
	chunks storage.ChunkRepository,
	provider ai.Provider,
	opts ...Option,
) (*Orchestrator, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	o := &Orchestrator{
		chunks:       chunks,
		embedder:     provider.Embedder(),
		generator:    provider.Generator(),
		modelTimeout: 120 * time.Second,
		logger:       slog.Default().With("component", "search-orchestrator"),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Ask answers a question from the ingested documents. topK bounds how many
// chunks are retrieved; zero means DefaultTopK and out-of-range values are
// clamped to [MinTopK, MaxTopK]. When no chunk clears the similarity
// threshold the fixed NoAnswerText is returned with no sources and the
// generator is not called.
func (o *Orchestrator) Ask(ctx context.Context, query string, topK int) (*core.Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	topK = clampTopK(topK)

	embedCtx, cancel := context.WithTimeout(ctx, o.modelTimeout)
	vector, err := o.embedder.EmbedText(embedCtx, query)
	cancel()
	if err != nil {
		o.logger.Error("error embedding query", "err", err)
		return nil, fmt.Errorf("%w: embedding query: %w", ErrSearchFailed, err)
	}

	matches, err := o.chunks.NearestChunks(ctx, vector, topK)
	if err != nil {
		o.logger.Error("error querying chunks", "err", err)
		return nil, fmt.Errorf("%w: retrieving chunks: %w", ErrSearchFailed, err)
	}

	// Keep matches strictly above the threshold, in retrieval order.
	sources := make([]core.Source, 0, len(matches))
	contexts := make([]string, 0, len(matches))
	for _, match := range matches {
		similarity := match.Similarity()
		if similarity > SimilarityThreshold {
			sources = append(sources, core.Source{
				Filename:        match.Filename,
				Content:         match.Text,
				SimilarityScore: round4(float64(similarity)),
			})
			contexts = append(contexts, match.Text)
		}
	}

	if len(contexts) == 0 {
		o.logger.Info("no chunks above similarity threshold", "query_length", len(query))
		return &core.Answer{Text: NoAnswerText, Sources: []core.Source{}}, nil
	}

	prompt := buildAnswerPrompt(contexts, query)

	genCtx, cancel := context.WithTimeout(ctx, o.modelTimeout)
	answer, err := o.generator.Generate(genCtx, prompt)
	cancel()
	if err != nil {
		o.logger.Error("error generating answer", "err", err)
		return nil, fmt.Errorf("%w: generating answer: %w", ErrSearchFailed, err)
	}

	o.logger.Info("answered query",
		"sources", len(sources),
		"answer_length", len(answer))
	return &core.Answer{
		Text:    strings.TrimSpace(answer),
		Sources: sources,
	}, nil
}

// clampTopK applies the default and bounds to a requested chunk count.
func clampTopK(topK int) int {
	switch {
	case topK == 0:
		return DefaultTopK
	case topK < MinTopK:
		return MinTopK
	case topK > MaxTopK:
		return MaxTopK
	}
	return topK
}

// round4 rounds to 4 decimal places for presentation.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
