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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Filename must not be empty
//   - StorageKey must not be empty
//   - Status must be one of the known statuses
//
// NOT validated:
//   - ID (0 is valid before the database sequence assigns one)
//   - UploadedAt (set by the repository on insert)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFilename)
	}

	if doc.StorageKey == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyStorageKey)
	}

	if !doc.Status.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidDocument, ErrInvalidStatus, doc.Status)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - DocumentId must reference a document
//   - Text must not be empty
//
// NOT validated:
//   - Vector (dimension is a property of the embedding model, not the domain)
//   - ID (0 is valid before the content hash is assigned)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.DocumentId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrMissingDocumentId)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	return nil
}

// ValidateIngestionJob validates an IngestionJob according to domain rules.
//
// Validation rules:
//   - DocId must reference a document
//   - StorageKey must not be empty
//   - Filename must not be empty
func ValidateIngestionJob(job *IngestionJob) error {
	if job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}

	if job.DocId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrMissingDocumentId)
	}

	if job.StorageKey == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptyStorageKey)
	}

	if job.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptyFilename)
	}

	return nil
}
