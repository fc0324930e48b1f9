package badger

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// queuePollInterval bounds how long a blocked consumer waits before
// re-checking the queue. In-process producers wake consumers immediately via
// the notify channel; the poll covers jobs enqueued by other processes
// sharing the database.
const queuePollInterval = 100 * time.Millisecond

// JobQueue implements storage.JobQueue as a durable FIFO over BadgerDB.
// Entries are keyed by a monotonic sequence number in big-endian encoding, so
// iteration order is insertion order. Dequeue reads and deletes the head
// entry in a single transaction; a conflict between concurrent consumers
// means another consumer won that job, and the loser retries on the next
// entry. This is the sole delivery guarantee: each job reaches exactly one
// consumer.
type JobQueue struct {
	backend *Backend
	seq     *badger.Sequence
	notify  chan struct{}
}

var _ storage.JobQueue = (*JobQueue)(nil)

// NewJobQueue creates a new JobQueue.
func NewJobQueue(backend *Backend) (*JobQueue, error) {
	seq, err := backend.GetSequence(queueSeq)
	if err != nil {
		return nil, err
	}

	return &JobQueue{
		backend: backend,
		seq:     seq,
		notify:  make(chan struct{}, 1),
	}, nil
}

// Close releases the queue sequence.
func (q *JobQueue) Close() error {
	return q.seq.Release()
}

// Enqueue appends a job to the tail of the queue.
func (q *JobQueue) Enqueue(ctx context.Context, job *core.IngestionJob) error {
	if err := core.ValidateIngestionJob(job); err != nil {
		return err
	}

	err := q.backend.WithTx(func(tx *badger.Txn) error {
		if err := q.enqueueTx(tx, job); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	q.wake()
	return nil
}

// enqueueTx appends a job inside an existing transaction. The caller commits.
func (q *JobQueue) enqueueTx(tx *badger.Txn, job *core.IngestionJob) error {
	next, err := q.seq.Next()
	if err != nil {
		return err
	}
	return tx.Set(makeQueueKey(next), storage.MarshalIngestionJob(job))
}

// Dequeue removes and returns the job at the head of the queue, blocking
// until one is available or ctx is cancelled.
func (q *JobQueue) Dequeue(ctx context.Context) (*core.IngestionJob, error) {
	ticker := time.NewTicker(queuePollInterval)
	defer ticker.Stop()

	for {
		job, err := q.tryDequeue()
		if err == nil {
			return job, nil
		}
		if !errors.Is(err, storage.ErrQueueEmpty) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.notify:
		case <-ticker.C:
		}
	}
}

// tryDequeue pops the head entry, or returns ErrQueueEmpty.
// Transaction conflicts (another consumer popped the same entry first) are
// retried against the new head.
func (q *JobQueue) tryDequeue() (*core.IngestionJob, error) {
	for {
		var job *core.IngestionJob
		err := q.backend.WithTx(func(tx *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(queuePrefix + ":")
			iter := tx.NewIterator(opts)

			iter.Rewind()
			if !iter.Valid() {
				iter.Close()
				return storage.ErrQueueEmpty
			}

			item := iter.Item()
			key := bytes.Clone(item.Key())
			err := item.Value(func(val []byte) error {
				var err error
				job, err = storage.UnmarshalIngestionJob(val)
				return err
			})
			iter.Close()
			if err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
			return tx.Commit()
		}, true)

		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return job, nil
	}
}

// Len returns the number of jobs currently in the queue.
func (q *JobQueue) Len(ctx context.Context) (int, error) {
	count := 0
	err := q.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(queuePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// wake nudges one blocked in-process consumer.
func (q *JobQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
