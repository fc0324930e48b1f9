package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStores(t *testing.T) *MemoryStores {
	t.Helper()
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(stores.Close)
	return stores
}

func TestDocumentRepository_AddAndGet(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	doc := &core.Document{
		Filename:   "report.pdf",
		StorageKey: "abc123_report.pdf",
	}
	added, err := stores.Documents.AddDocument(ctx, doc)
	require.NoError(t, err)
	require.NotZero(t, added.Id)
	assert.Equal(t, core.StatusPending, added.Status)
	assert.False(t, added.UploadedAt.IsZero())

	got, err := stores.Documents.GetDocument(ctx, added.Id)
	require.NoError(t, err)
	assert.Equal(t, added.Filename, got.Filename)
	assert.Equal(t, added.StorageKey, got.StorageKey)
	assert.Equal(t, core.StatusPending, got.Status)
}

func TestDocumentRepository_GetMissing(t *testing.T) {
	stores := setupStores(t)

	_, err := stores.Documents.GetDocument(context.Background(), core.ID(999))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentRepository_ListNewestFirst(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-1 * time.Hour)
	names := []string{"first.pdf", "second.pdf", "third.pdf"}
	for i, name := range names {
		_, err := stores.Documents.AddDocument(ctx, &core.Document{
			Filename:   name,
			StorageKey: name + "_key",
			UploadedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	docs, err := stores.Documents.ListDocuments(ctx, 0)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "third.pdf", docs[0].Filename)
	assert.Equal(t, "second.pdf", docs[1].Filename)
	assert.Equal(t, "first.pdf", docs[2].Filename)

	limited, err := stores.Documents.ListDocuments(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "third.pdf", limited[0].Filename)
}

func TestDocumentRepository_StatusTransitions(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	doc, err := stores.Documents.AddDocument(ctx, &core.Document{
		Filename:   "doc.pdf",
		StorageKey: "k_doc.pdf",
	})
	require.NoError(t, err)

	// pending -> processing -> completed
	require.NoError(t, stores.Documents.SetDocumentStatus(ctx, doc.Id, core.StatusProcessing))
	require.NoError(t, stores.Documents.SetDocumentStatus(ctx, doc.Id, core.StatusCompleted))

	got, err := stores.Documents.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, got.Status)

	// completed is terminal: no transition out
	err = stores.Documents.SetDocumentStatus(ctx, doc.Id, core.StatusFailed)
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)
	err = stores.Documents.SetDocumentStatus(ctx, doc.Id, core.StatusPending)
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)
}

func TestDocumentRepository_NoSkippingProcessing(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	doc, err := stores.Documents.AddDocument(ctx, &core.Document{
		Filename:   "doc.pdf",
		StorageKey: "k2_doc.pdf",
	})
	require.NoError(t, err)

	err = stores.Documents.SetDocumentStatus(ctx, doc.Id, core.StatusCompleted)
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)

	err = stores.Documents.SetDocumentStatus(ctx, doc.Id, core.StatusFailed)
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)

	// Still pending after the rejected transitions
	got, err := stores.Documents.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusPending, got.Status)
}

func TestDocumentRepository_SetStatusMissing(t *testing.T) {
	stores := setupStores(t)

	err := stores.Documents.SetDocumentStatus(context.Background(), core.ID(404), core.StatusProcessing)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
