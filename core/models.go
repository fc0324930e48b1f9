package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Document IDs come from a database sequence; chunk IDs are content-based.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentStatus tracks a document through the ingestion state machine.
type DocumentStatus string

const (
	// StatusPending means the document is uploaded but not yet picked up by a worker.
	StatusPending DocumentStatus = "pending"
	// StatusProcessing means a worker is currently extracting and embedding the document.
	StatusProcessing DocumentStatus = "processing"
	// StatusCompleted is terminal: all chunks were embedded and persisted.
	StatusCompleted DocumentStatus = "completed"
	// StatusFailed is terminal: processing failed and no further chunks will be written.
	StatusFailed DocumentStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal state.
func (s DocumentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether the transition s -> to is legal.
// Transitions are monotonic: pending -> processing -> {completed, failed}.
// Terminal states admit no further transitions.
func (s DocumentStatus) CanTransition(to DocumentStatus) bool {
	switch s {
	case StatusPending:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed
	}
	return false
}

// Document is an uploaded file tracked by the ingestion subsystem.
// It is created with StatusPending at upload time and mutated only by the
// ingestion worker. Documents are never deleted.
type Document struct {
	Id         ID
	Filename   string
	StorageKey string // Key of the raw bytes in the blob store; unique per upload.
	Status     DocumentStatus
	UploadedAt time.Time
}

// Chunk is a contiguous slice of a document's extracted text together with
// its embedding vector. Chunks are written in bulk during one successful
// processing pass and are immutable thereafter.
type Chunk struct {
	Id         ID
	DocumentId ID
	Text       string
	Vector     []float32
}

// IngestionJob is the ephemeral queue message that drives document processing.
// It exists only inside the job queue; each dequeue delivers it to exactly one
// worker.
type IngestionJob struct {
	DocId      ID
	StorageKey string
	Filename   string
}

// ChunkMatch is a nearest-neighbor query result: a chunk joined with its
// owning document's filename, at the given cosine distance from the query
// vector. Never persisted.
type ChunkMatch struct {
	Filename string
	Text     string
	Distance float32
}

// Similarity converts the match's cosine distance to a similarity score.
func (m ChunkMatch) Similarity() float32 {
	return 1 - m.Distance
}

// Source is a retrieved chunk returned to the caller alongside a generated
// answer. SimilarityScore is rounded to 4 decimal places.
type Source struct {
	Filename        string  `json:"filename"`
	Content         string  `json:"content"`
	SimilarityScore float64 `json:"similarity_score"`
}

// Answer is the result of one retrieval-and-generation pass.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []Source `json:"sources"`
}
