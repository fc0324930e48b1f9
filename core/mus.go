package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted domain types. These are hand-written over
// the mus-go primitive serializers; the wire layout is a plain field-by-field
// concatenation in declaration order. Timestamps are stored as Unix
// microseconds.
var (
	IDMUS           = idMUS{}
	StatusMUS       = statusMUS{}
	DocumentMUS     = documentMUS{}
	ChunkMUS        = chunkMUS{}
	IngestionJobMUS = ingestionJobMUS{}

	vectorMUS = ord.NewSliceSer[float32](raw.Float32)
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

type statusMUS struct{}

func (statusMUS) Marshal(s DocumentStatus, bs []byte) int {
	return ord.String.Marshal(string(s), bs)
}

func (statusMUS) Unmarshal(bs []byte) (DocumentStatus, int, error) {
	v, n, err := ord.String.Unmarshal(bs)
	return DocumentStatus(v), n, err
}

func (statusMUS) Size(s DocumentStatus) int {
	return ord.String.Size(string(s))
}

type documentMUS struct{}

func (documentMUS) Marshal(d Document, bs []byte) int {
	n := IDMUS.Marshal(d.Id, bs)
	n += ord.String.Marshal(d.Filename, bs[n:])
	n += ord.String.Marshal(d.StorageKey, bs[n:])
	n += StatusMUS.Marshal(d.Status, bs[n:])
	n += marshalTime(d.UploadedAt, bs[n:])
	return n
}

func (documentMUS) Unmarshal(bs []byte) (d Document, n int, err error) {
	var m int
	if d.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if d.Filename, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.StorageKey, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.Status, m, err = StatusMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.UploadedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	return d, n, nil
}

func (documentMUS) Size(d Document) int {
	return IDMUS.Size(d.Id) +
		ord.String.Size(d.Filename) +
		ord.String.Size(d.StorageKey) +
		StatusMUS.Size(d.Status) +
		sizeTime(d.UploadedAt)
}

type chunkMUS struct{}

func (chunkMUS) Marshal(c Chunk, bs []byte) int {
	n := IDMUS.Marshal(c.Id, bs)
	n += IDMUS.Marshal(c.DocumentId, bs[n:])
	n += ord.String.Marshal(c.Text, bs[n:])
	n += vectorMUS.Marshal(c.Vector, bs[n:])
	return n
}

func (chunkMUS) Unmarshal(bs []byte) (c Chunk, n int, err error) {
	var m int
	if c.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if c.DocumentId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.Text, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.Vector, m, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	return c, n, nil
}

func (chunkMUS) Size(c Chunk) int {
	return IDMUS.Size(c.Id) +
		IDMUS.Size(c.DocumentId) +
		ord.String.Size(c.Text) +
		vectorMUS.Size(c.Vector)
}

type ingestionJobMUS struct{}

func (ingestionJobMUS) Marshal(j IngestionJob, bs []byte) int {
	n := IDMUS.Marshal(j.DocId, bs)
	n += ord.String.Marshal(j.StorageKey, bs[n:])
	n += ord.String.Marshal(j.Filename, bs[n:])
	return n
}

func (ingestionJobMUS) Unmarshal(bs []byte) (j IngestionJob, n int, err error) {
	var m int
	if j.DocId, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if j.StorageKey, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return j, n + m, err
	}
	n += m
	if j.Filename, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return j, n + m, err
	}
	n += m
	return j, n, nil
}

func (ingestionJobMUS) Size(j IngestionJob) int {
	return IDMUS.Size(j.DocId) +
		ord.String.Size(j.StorageKey) +
		ord.String.Size(j.Filename)
}

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}
