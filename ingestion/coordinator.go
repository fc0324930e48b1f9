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
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// Coordinator accepts document uploads. Submit writes the raw bytes to blob
// storage, then records the pending document and its ingestion job in a
// single durable operation, so a visible document always has a queued job.
type Coordinator struct {
	submits storage.SubmitStore
	blobs   storage.BlobStore
	logger  *slog.Logger
}

// NewCoordinator creates an upload coordinator.
func NewCoordinator(submits storage.SubmitStore, blobs storage.BlobStore) (*Coordinator, error) {
	if submits == nil {
		return nil, ErrSubmitStoreRequired
	}
	if blobs == nil {
		return nil, ErrBlobStoreRequired
	}
	return &Coordinator{
		submits: submits,
		blobs:   blobs,
		logger:  slog.Default().With("component", "ingestion-coordinator"),
	}, nil
}

// Submit stores an uploaded document and schedules it for ingestion.
// Each call creates a fresh document; resubmitting the same file yields a new
// independent document and job. Returns the recorded document.
func (c *Coordinator) Submit(ctx context.Context, filename string, data []byte) (*core.Document, error) {
	if filename == "" {
		return nil, core.ErrEmptyFilename
	}

	// UUID prefix keeps keys collision-free across identical filenames.
	key := uuid.New().String() + "_" + filename

	if err := c.blobs.Put(ctx, key, data); err != nil {
		return nil, fmt.Errorf("%w: storing upload: %w", ErrBlobStorage, err)
	}

	doc, job, err := c.submits.SubmitDocument(ctx, &core.Document{
		Filename:   filename,
		StorageKey: key,
	})
	if err != nil {
		// The blob is orphaned if the metadata write failed; remove it
		// best-effort.
		if delErr := c.blobs.Delete(ctx, key); delErr != nil {
			c.logger.Error("failed to delete orphaned blob", "key", key, "err", delErr)
		}
		return nil, fmt.Errorf("%w: recording document: %w", ErrPersistence, err)
	}

	c.logger.Info("document submitted",
		"doc_id", doc.Id,
		"filename", filename,
		"bytes", len(data),
		"job_doc_id", job.DocId)
	return doc, nil
}
