package badger

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	idSeq, err := backend.GetSequence(chunkIDSeq)
	if err != nil {
		return nil, err
	}

	return &ChunkRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ChunkRepository) Close() error {
	return r.idSeq.Release()
}

// AddChunks appends chunks to storage. Chunks with Id 0 get a content-based ID
// derived from owning document, batch position and text.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for i, chunk := range chunks {
			if err := core.ValidateChunk(chunk); err != nil {
				return err
			}
			if chunk.Id == 0 {
				chunk.Id = core.IDFromContent(fmt.Sprintf("%d:%d:%s", chunk.DocumentId, i, chunk.Text))
			}

			if err := tx.Set(makeChunkKey(chunk.Id), storage.MarshalChunk(chunk)); err != nil {
				return err
			}
			if err := tx.Set(makeChunkDocKey(chunk.DocumentId, chunk.Id), storage.MarshalID(chunk.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// NearestChunks scans all stored chunks and returns up to limit matches
// ordered by ascending cosine distance to the query vector, each joined with
// its owning document's filename. No threshold filtering happens here.
func (r *ChunkRepository) NearestChunks(ctx context.Context, vector []float32, limit int) ([]core.ChunkMatch, error) {
	type scored struct {
		chunk    *core.Chunk
		distance float32
	}
	var hits []scored

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()

			// Skip index keys and the sequence key
			if bytes.Equal(key, []byte(chunkIDSeq)) ||
				bytes.HasPrefix(key, []byte(chunkDocPrefix)) {
				continue
			}

			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Vector) == 0 {
				continue
			}

			hits = append(hits, scored{chunk: chunk, distance: cosineDistance(vector, chunk.Vector)})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by distance ascending (most similar first)
	slices.SortFunc(hits, func(a, b scored) int {
		if a.distance < b.distance {
			return -1
		}
		if a.distance > b.distance {
			return 1
		}
		return 0
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	// Join each chunk with its owning document's filename.
	filenames := make(map[core.ID]string)
	matches := make([]core.ChunkMatch, 0, len(hits))
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for _, hit := range hits {
			name, ok := filenames[hit.chunk.DocumentId]
			if !ok {
				doc, err := readDocument(tx, hit.chunk.DocumentId)
				if err != nil {
					return err
				}
				if doc == nil {
					return storage.ErrNotFound
				}
				name = doc.Filename
				filenames[hit.chunk.DocumentId] = name
			}
			matches = append(matches, core.ChunkMatch{
				Filename: name,
				Text:     hit.chunk.Text,
				Distance: hit.distance,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return matches, nil
}

// CountChunks returns the number of stored chunks for a document.
func (r *ChunkRepository) CountChunks(ctx context.Context, docID core.ID) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialChunkDocKey(docID)
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// cosineDistance computes 1 - cosine similarity of two vectors.
// Mismatched dimensions compare over the shorter prefix; a zero vector is at
// maximal distance.
func cosineDistance(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}
