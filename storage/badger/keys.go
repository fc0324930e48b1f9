package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/docrag/core"
)

// Key prefixes for different data types
const (
	documentPrefix     = "docrec"
	documentDatePrefix = "docrecd"
	documentIDSeq      = "docrecseq"
	chunkPrefix        = "chkrec"
	chunkDocPrefix     = "chkrecd"
	chunkIDSeq         = "chkrecseq"
	queuePrefix        = "ingjob"
	queueSeq           = "ingjobseq"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// makeDocumentDateKey generates a composite key for the upload-date index.
// Format: prefix:unixMicro:id, both BigEndian so lexicographic order matches
// chronological order.
func makeDocumentDateKey(unixMicro int64, id core.ID) []byte {
	prefix := []byte(documentDatePrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(unixMicro))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkPrefix, id))
}

// makeChunkDocKey generates a composite key for the chunk-by-document index.
// Format: prefix:documentID:chunkID
func makeChunkDocKey(docID, chunkID core.ID) []byte {
	prefix := []byte(chunkDocPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkID))
	return buf
}

// makePartialChunkDocKey generates a partial key for per-document chunk scans.
func makePartialChunkDocKey(docID core.ID) []byte {
	prefix := []byte(chunkDocPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}

// makeQueueKey generates a key for a queue entry by sequence number.
// BigEndian so the iterator visits entries in FIFO order.
func makeQueueKey(seq uint64) []byte {
	prefix := []byte(queuePrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
