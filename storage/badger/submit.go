package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// SubmitStore couples the document repository and the job queue so that the
// metadata insert and the job enqueue commit in a single transaction. A
// document can therefore never be recorded without its job, nor a job without
// its document.
type SubmitStore struct {
	backend *Backend
	docs    *DocumentRepository
	queue   *JobQueue
}

var _ storage.SubmitStore = (*SubmitStore)(nil)

// NewSubmitStore creates a SubmitStore over repositories sharing one backend.
func NewSubmitStore(backend *Backend, docs *DocumentRepository, queue *JobQueue) *SubmitStore {
	return &SubmitStore{
		backend: backend,
		docs:    docs,
		queue:   queue,
	}
}

// SubmitDocument records doc with StatusPending and enqueues its ingestion
// job atomically. Returns the document with its assigned ID and the enqueued
// job.
func (s *SubmitStore) SubmitDocument(ctx context.Context, doc *core.Document) (*core.Document, *core.IngestionJob, error) {
	var job *core.IngestionJob
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if err := s.docs.addDocumentTx(tx, doc); err != nil {
			return err
		}
		job = &core.IngestionJob{
			DocId:      doc.Id,
			StorageKey: doc.StorageKey,
			Filename:   doc.Filename,
		}
		if err := s.queue.enqueueTx(tx, job); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, nil, err
	}

	s.queue.wake()
	return doc, job, nil
}
