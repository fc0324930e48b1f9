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


// Package docrag wires the document store, blob store, job queue and AI
// provider into one System and hands out the ingestion, search and sentiment
// components built on top of them.
package docrag

import (
	"log/slog"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/ai/openai"
	"github.com/poiesic/docrag/ingestion"
	"github.com/poiesic/docrag/search"
	"github.com/poiesic/docrag/sentiment"
	"github.com/poiesic/docrag/storage"
	"github.com/poiesic/docrag/storage/badger"
	"github.com/poiesic/docrag/storage/blob"
)

// System bundles the storage backends and AI provider behind one lifecycle.
type System struct {
	backend      *badger.Backend
	documentRepo *badger.DocumentRepository
	chunkRepo    *badger.ChunkRepository
	queue        *badger.JobQueue
	submits      *badger.SubmitStore
	blobs        *blob.Dir
	provider     ai.Provider
	aiConfig     *ai.Config
	logger       *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the AI service configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider, bypassing the OpenAI
// provider construction. Intended for tests.
func WithProvider(provider ai.Provider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps the metadata store in memory. Intended for tests.
func WithInMemoryStorage() SystemOption {
	return func(o *systemOptions) {
		o.inMemory = true
	}
}

// NewSystem opens the stores under dbPath and blobDir and builds the AI
// provider. Call Close when done.
func NewSystem(dbPath, blobDir string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(dbPath, options.inMemory)
	if err != nil {
		return nil, err
	}

	documentRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		documentRepo.Close()
		backend.Close()
		return nil, err
	}

	queue, err := badger.NewJobQueue(backend)
	if err != nil {
		chunkRepo.Close()
		documentRepo.Close()
		backend.Close()
		return nil, err
	}

	blobs, err := blob.NewDir(blobDir)
	if err != nil {
		queue.Close()
		chunkRepo.Close()
		documentRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			queue.Close()
			chunkRepo.Close()
			documentRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &System{
		backend:      backend,
		documentRepo: documentRepo,
		chunkRepo:    chunkRepo,
		queue:        queue,
		submits:      badger.NewSubmitStore(backend, documentRepo, queue),
		blobs:        blobs,
		provider:     provider,
		aiConfig:     options.aiConfig,
		logger:       slog.Default(),
	}, nil
}

// Close releases the AI provider, repositories and backend in order.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.queue.Close(); err != nil {
		s.logger.Error("error closing job queue", "err", err)
		return err
	}
	if err := s.chunkRepo.Close(); err != nil {
		s.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := s.documentRepo.Close(); err != nil {
		s.logger.Error("error closing document repository", "err", err)
		return err
	}

	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (s *System) DocumentRepository() storage.DocumentRepository {
	return s.documentRepo
}

func (s *System) ChunkRepository() storage.ChunkRepository {
	return s.chunkRepo
}

func (s *System) JobQueue() storage.JobQueue {
	return s.queue
}

func (s *System) BlobStore() storage.BlobStore {
	return s.blobs
}

// NewCoordinator builds the upload coordinator over the system's stores.
func (s *System) NewCoordinator() (*ingestion.Coordinator, error) {
	return ingestion.NewCoordinator(s.submits, s.blobs)
}

// NewWorkers builds count ingestion worker loops over the system's stores.
func (s *System) NewWorkers(count int, opts ...ingestion.WorkerOption) (*ingestion.Workers, error) {
	opts = append([]ingestion.WorkerOption{
		ingestion.WithModelTimeout(s.aiConfig.Timeout),
	}, opts...)
	worker, err := ingestion.NewWorker(
		s.queue, s.documentRepo, s.chunkRepo, s.blobs, s.provider.Embedder(), opts...)
	if err != nil {
		return nil, err
	}
	return ingestion.NewWorkers(worker, count)
}

// NewOrchestrator builds the search orchestrator over the system's stores.
func (s *System) NewOrchestrator(opts ...search.Option) (*search.Orchestrator, error) {
	opts = append([]search.Option{
		search.WithModelTimeout(s.aiConfig.Timeout),
	}, opts...)
	return search.NewOrchestrator(s.chunkRepo, s.provider, opts...)
}

// NewAnalyzer builds the sentiment analyzer on the system's classifier.
func (s *System) NewAnalyzer() (*sentiment.Analyzer, error) {
	return sentiment.NewAnalyzer(s.provider.SentimentClassifier(), s.aiConfig.ClassifierModel)
}
