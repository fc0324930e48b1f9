package storage

import (
	"testing"
	"time"

	"github.com/poiesic/docrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("some chunk text")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	doc := &core.Document{
		Id:         core.ID(7),
		Filename:   "report.pdf",
		StorageKey: "3f2a9c_report.pdf",
		Status:     core.StatusProcessing,
		UploadedAt: now,
	}

	data := MarshalDocument(doc)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
}

func TestMarshalUnmarshalChunk(t *testing.T) {
	chunk := &core.Chunk{
		Id:         core.IDFromContent("7:0:Revenue increased 20% year over year."),
		DocumentId: core.ID(7),
		Text:       "Revenue increased 20% year over year.",
		Vector:     []float32{0.1, -0.25, 0.5, 0.0},
	}

	data := MarshalChunk(chunk)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalChunk(data)
	require.NoError(t, err)
	assert.Equal(t, chunk, decoded)
}

func TestMarshalUnmarshalIngestionJob(t *testing.T) {
	job := &core.IngestionJob{
		DocId:      core.ID(12),
		StorageKey: "9d8e7f_notes.txt",
		Filename:   "notes.txt",
	}

	data := MarshalIngestionJob(job)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalIngestionJob(data)
	require.NoError(t, err)
	assert.Equal(t, job, decoded)
}
