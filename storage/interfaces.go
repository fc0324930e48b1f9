package storage

import (
	"context"

	"github.com/poiesic/docrag/core"
)

// DocumentRepository provides operations for managing document metadata.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// AddDocument inserts a new document with StatusPending.
	// Generates a new ID from sequence and sets UploadedAt.
	// Returns the document with ID and timestamp populated.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// ListDocuments retrieves up to limit documents ordered by upload time
	// descending (newest first). A limit <= 0 returns all documents.
	ListDocuments(ctx context.Context, limit int) ([]*core.Document, error)

	// SetDocumentStatus transitions a document to a new status.
	// Returns ErrNotFound if the document doesn't exist and
	// ErrInvalidTransition if the transition violates the state machine
	// (pending -> processing -> {completed, failed}, no re-entry).
	SetDocumentStatus(ctx context.Context, id core.ID, status core.DocumentStatus) error

	// Close releases resources held by the repository.
	Close() error
}

// ChunkRepository stores document chunks with their embedding vectors and
// supports nearest-neighbor queries.
// Implementations must be thread-safe and support concurrent access.
type ChunkRepository interface {
	// AddChunks appends chunks to storage. Chunks are immutable once written.
	// IDs are derived from content if not already set.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) error

	// NearestChunks returns up to limit chunks ordered by ascending cosine
	// distance to the query vector, each joined with the owning document's
	// filename. No similarity threshold is applied here; filtering is the
	// caller's policy.
	NearestChunks(ctx context.Context, vector []float32, limit int) ([]core.ChunkMatch, error)

	// CountChunks returns the number of stored chunks for a document.
	CountChunks(ctx context.Context, docID core.ID) (int, error)

	// Close releases resources held by the repository.
	Close() error
}

// JobQueue is a durable FIFO channel of ingestion jobs.
// Multiple consumers may dequeue concurrently; each job is delivered to
// exactly one consumer.
type JobQueue interface {
	// Enqueue appends a job to the tail of the queue.
	Enqueue(ctx context.Context, job *core.IngestionJob) error

	// Dequeue removes and returns the job at the head of the queue.
	// It blocks until a job is available or ctx is cancelled, in which case
	// it returns ctx.Err().
	Dequeue(ctx context.Context) (*core.IngestionJob, error)

	// Len returns the number of jobs currently in the queue.
	Len(ctx context.Context) (int, error)

	// Close releases resources held by the queue.
	Close() error
}

// SubmitStore atomically records a pending document and enqueues its
// ingestion job. Implementations guarantee the two writes commit together,
// so no document is ever stuck pending without a job and no job ever
// references an unrecorded document.
type SubmitStore interface {
	// SubmitDocument inserts doc with StatusPending and enqueues the
	// corresponding IngestionJob in one durable operation. Returns the
	// document with its assigned ID and the enqueued job.
	SubmitDocument(ctx context.Context, doc *core.Document) (*core.Document, *core.IngestionJob, error)
}

// BlobStore stores raw uploaded document bytes by storage key.
type BlobStore interface {
	// Put writes data under key. Keys are unique per upload; overwrites are
	// not expected.
	Put(ctx context.Context, key string, data []byte) error

	// Get reads the data stored under key.
	// Returns ErrNotFound if no blob exists for the key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob stored under key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error
}
