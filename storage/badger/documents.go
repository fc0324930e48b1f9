package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	idSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}

	return &DocumentRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *DocumentRepository) Close() error {
	return r.idSeq.Release()
}

// AddDocument inserts a new document with StatusPending.
func (r *DocumentRepository) AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	if doc.Status == "" {
		doc.Status = core.StatusPending
	}
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		doc.Id = core.ID(nextID)

		if doc.UploadedAt.IsZero() {
			doc.UploadedAt = time.Now().UTC()
		}

		key := makeDocumentKey(doc.Id)
		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}

		dateKey := makeDocumentDateKey(doc.UploadedAt.UnixMicro(), doc.Id)
		if err := tx.Set(dateKey, storage.MarshalID(doc.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return doc, err
}

// addDocumentTx inserts a document inside an existing transaction. Used by the
// queue-coupled submit path so the document row and its job commit together.
func (r *DocumentRepository) addDocumentTx(tx *badger.Txn, doc *core.Document) error {
	if doc.Status == "" {
		doc.Status = core.StatusPending
	}
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	nextID, err := r.idSeq.Next()
	if err != nil {
		return err
	}
	if nextID == 0 {
		nextID, err = r.idSeq.Next()
		if err != nil {
			return err
		}
	}
	doc.Id = core.ID(nextID)

	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	if err := tx.Set(makeDocumentKey(doc.Id), storage.MarshalDocument(doc)); err != nil {
		return err
	}
	return tx.Set(makeDocumentDateKey(doc.UploadedAt.UnixMicro(), doc.Id), storage.MarshalID(doc.Id))
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListDocuments retrieves up to limit documents, newest first.
func (r *DocumentRepository) ListDocuments(ctx context.Context, limit int) ([]*core.Document, error) {
	var results []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the last possible date-index key, then walk backwards.
		prefix := []byte(documentDatePrefix + ":")
		startKey := makeDocumentDateKey(time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC).UnixMicro(), core.ID(^uint64(0)))

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var docID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				docID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			doc, err := readDocument(tx, docID)
			if err != nil {
				return err
			}
			if doc != nil {
				results = append(results, doc)
			}
		}
		return nil
	}, false)

	return results, err
}

// SetDocumentStatus transitions a document to a new status, enforcing the
// monotonic state machine.
func (r *DocumentRepository) SetDocumentStatus(ctx context.Context, id core.ID, status core.DocumentStatus) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		doc, err := readDocument(tx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		if !doc.Status.CanTransition(status) {
			return storage.ErrInvalidTransition
		}

		doc.Status = status
		if err := tx.Set(makeDocumentKey(id), storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readDocument reads a document inside a transaction.
// Returns (nil, nil) when the key does not exist.
func readDocument(tx *badger.Txn, id core.ID) (*core.Document, error) {
	item, err := tx.Get(makeDocumentKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}
