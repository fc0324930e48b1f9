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


// Package ai provides abstractions for the AI services used in docrag.
//
// This package defines interfaces for text embeddings, answer generation and
// sentiment classification. It follows the dependency inversion principle,
// allowing the ingestion pipeline and search orchestrator to depend on
// abstractions rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Generator: Produces a completion for a prompt (no streaming)
//   - SentimentClassifier: Classifies the emotional tone of text
//   - Provider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes three implementation sub-packages:
//
//   - ai/openai: Embeddings and sentiment classification via
//     OpenAI-compatible APIs
//   - ai/ollama: Answer generation via the native Ollama API
//   - ai/mock: Test doubles for unit testing without external services
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder,
// ollama.NewGenerator) return INTERFACE types to enforce abstraction and
// prevent accidental coupling to concrete implementations.
//
//	provider, err := openai.NewProvider(config)  // returns ai.Provider
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewMockGenerator,
// mock.NewMockClassifier) return CONCRETE types to enable test assertions and
// behavior injection via the mock's public fields and methods.
//
//	mockEmbed := mock.NewMockEmbedder()  // returns *mock.MockEmbedder
//	mockEmbed.EmbedTextFunc = ...        // needs concrete type
//	count := mockEmbed.CallCount()       // test assertion
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "quarterly revenue")
//	answer, err := provider.Generator().Generate(ctx, prompt)
package ai
