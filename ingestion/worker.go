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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// Worker consumes ingestion jobs from the queue and runs each document
// through the processing pipeline: fetch blob, extract text, chunk, embed,
// persist chunks. Documents move pending -> processing -> completed, or
// -> failed when any stage errors. A failed job never stops the loop.
type Worker struct {
	queue     storage.JobQueue
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
	blobs     storage.BlobStore
	embedder  ai.Embedder

	chunkSize    int
	chunkOverlap int
	minChunkLen  int
	modelTimeout time.Duration
	logger       *slog.Logger
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker) error

// WithChunking overrides the chunking parameters.
func WithChunking(window, overlap, minLength int) WorkerOption {
	return func(w *Worker) error {
		if window <= 0 {
			return fmt.Errorf("chunk window must be positive, got %d", window)
		}
		if overlap < 0 || overlap >= window {
			return fmt.Errorf("chunk overlap must be in [0, window), got %d", overlap)
		}
		w.chunkSize = window
		w.chunkOverlap = overlap
		w.minChunkLen = minLength
		return nil
	}
}

// WithModelTimeout bounds each embedding call. Default is 60s.
func WithModelTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) error {
		if d <= 0 {
			return fmt.Errorf("model timeout must be positive, got %s", d)
		}
		w.modelTimeout = d
		return nil
	}
}

// WithWorkerLogger sets a custom logger.
// Default is slog.Default().
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWorker creates an ingestion worker.
func NewWorker(
	queue storage.JobQueue,
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	blobs storage.BlobStore,
	embedder ai.Embedder,
	opts ...WorkerOption,
) (*Worker, error) {
	if queue == nil {
		return nil, ErrQueueRequired
	}
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if blobs == nil {
		return nil, ErrBlobStoreRequired
	}
	if embedder == nil {
		return nil, ErrAIProviderRequired
	}

	w := &Worker{
		queue:        queue,
		documents:    documents,
		chunks:       chunks,
		blobs:        blobs,
		embedder:     embedder,
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		minChunkLen:  DefaultMinChunkLen,
		modelTimeout: 60 * time.Second,
		logger:       slog.Default().With("component", "ingestion-worker"),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// dequeueRetryDelay paces the loop when Dequeue keeps failing, so a broken
// queue backend does not spin the worker hot.
const dequeueRetryDelay = 250 * time.Millisecond

// Run consumes jobs until ctx is cancelled. Job failures mark the document
// failed and the loop continues; only cancellation ends it.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("ingestion worker started")
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.logger.Info("ingestion worker stopped")
				return
			}
			w.logger.Error("failed to dequeue job", "err", err)
			select {
			case <-ctx.Done():
				w.logger.Info("ingestion worker stopped")
				return
			case <-time.After(dequeueRetryDelay):
			}
			continue
		}

		if err := w.processJob(ctx, job); err != nil {
			w.logger.Error("document processing failed",
				"doc_id", job.DocId,
				"filename", job.Filename,
				"err", err)
			w.markFailed(ctx, job.DocId)
			continue
		}
		w.logger.Info("document processed",
			"doc_id", job.DocId,
			"filename", job.Filename)
	}
}

// processJob runs one document through the pipeline. Errors are tagged with
// the failing stage so callers can distinguish extraction, model, blob and
// persistence causes.
func (w *Worker) processJob(ctx context.Context, job *core.IngestionJob) error {
	if err := w.documents.SetDocumentStatus(ctx, job.DocId, core.StatusProcessing); err != nil {
		return fmt.Errorf("%w: marking document processing: %w", ErrPersistence, err)
	}

	data, err := w.blobs.Get(ctx, job.StorageKey)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBlobStorage, err)
	}

	text, err := ExtractText(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	pieces := Chunk(text, w.chunkSize, w.chunkOverlap, w.minChunkLen)
	if len(pieces) == 0 {
		// Nothing embeddable; the document is still fully processed.
		w.logger.Warn("document produced no chunks", "doc_id", job.DocId)
		return w.markCompleted(ctx, job.DocId)
	}

	embedCtx, cancel := context.WithTimeout(ctx, w.modelTimeout)
	vectors, err := w.embedder.EmbedTexts(embedCtx, pieces)
	cancel()
	if err != nil {
		return fmt.Errorf("%w: embedding %d chunks: %w", ErrModel, len(pieces), err)
	}
	if len(vectors) != len(pieces) {
		return fmt.Errorf("%w: embedder returned %d vectors for %d chunks",
			ErrModel, len(vectors), len(pieces))
	}

	chunks := make([]*core.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = &core.Chunk{
			DocumentId: job.DocId,
			Text:       piece,
			Vector:     vectors[i],
		}
	}
	if err := w.chunks.AddChunks(ctx, chunks...); err != nil {
		return fmt.Errorf("%w: storing chunks: %w", ErrPersistence, err)
	}

	return w.markCompleted(ctx, job.DocId)
}

func (w *Worker) markCompleted(ctx context.Context, id core.ID) error {
	if err := w.documents.SetDocumentStatus(ctx, id, core.StatusCompleted); err != nil {
		return fmt.Errorf("%w: marking document completed: %w", ErrPersistence, err)
	}
	return nil
}

// markFailed records the terminal failed state. A failure here is logged but
// not propagated; the worker loop must keep running either way.
func (w *Worker) markFailed(ctx context.Context, id core.ID) {
	if err := w.documents.SetDocumentStatus(ctx, id, core.StatusFailed); err != nil {
		w.logger.Error("failed to mark document failed", "doc_id", id, "err", err)
	}
}
