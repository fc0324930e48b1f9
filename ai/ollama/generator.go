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


// Package ollama provides answer generation using the native Ollama API.
//
// Generation is synchronous: the full completion is requested in one call and
// returned at once, never streamed.
package ollama

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/docrag/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Generator implements ai.Generator using an Ollama server.
type Generator struct {
	client *ollama.LLM
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by the provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := ollama.New(
		ollama.WithServerURL(config.GeneratorHost),
		ollama.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "ollama-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate produces a completion for the prompt. The response is trimmed of
// surrounding whitespace.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating completion", "prompt_length", len(prompt))

	response, err := llms.GenerateFromSinglePrompt(ctx, g.client, prompt,
		llms.WithTemperature(0.1))
	if err != nil {
		g.logger.Error("failed to generate completion", "err", err)
		return "", err
	}

	return strings.TrimSpace(response), nil
}
