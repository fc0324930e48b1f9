package ingestion

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrQueueRequired is returned when a job queue is not provided.
	ErrQueueRequired = errors.New("job queue required")

	// ErrBlobStoreRequired is returned when a blob store is not provided.
	ErrBlobStoreRequired = errors.New("blob store required")

	// ErrSubmitStoreRequired is returned when a submit store is not provided.
	ErrSubmitStoreRequired = errors.New("submit store required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrWorkerRequired is returned when a worker is not provided.
	ErrWorkerRequired = errors.New("worker required")

	// ErrNoText is returned when a document yields no usable text.
	ErrNoText = errors.New("document contains no extractable text")

	// ErrExtraction tags failures in the text extraction stage.
	ErrExtraction = errors.New("text extraction failed")

	// ErrModel tags failures in embedding or model calls.
	ErrModel = errors.New("model call failed")

	// ErrPersistence tags failures writing to the metadata or chunk stores.
	ErrPersistence = errors.New("persistence failed")

	// ErrBlobStorage tags failures reading or writing document blobs.
	ErrBlobStorage = errors.New("blob storage failed")
)
