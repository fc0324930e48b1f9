package docrag

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/docrag/ai/mock"
	"github.com/poiesic/docrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSystem(t *testing.T) {
	t.Run("create new system", func(t *testing.T) {
		tmp := t.TempDir()
		sys, err := NewSystem(filepath.Join(tmp, "db"), filepath.Join(tmp, "blobs"))
		require.NoError(t, err)
		require.NotNil(t, sys)
		defer sys.Close()

		// Verify components are initialized
		assert.NotNil(t, sys.DocumentRepository())
		assert.NotNil(t, sys.ChunkRepository())
		assert.NotNil(t, sys.JobQueue())
		assert.NotNil(t, sys.BlobStore())
		assert.NotNil(t, sys.backend)
	})

	t.Run("error with invalid db path", func(t *testing.T) {
		tmp := t.TempDir()
		notADir := filepath.Join(tmp, "not_a_dir")
		require.NoError(t, os.WriteFile(notADir, []byte("test"), 0644))

		sys, err := NewSystem(notADir, filepath.Join(tmp, "blobs"))
		assert.Error(t, err)
		assert.Nil(t, sys)
	})
}

func TestSystem_Close(t *testing.T) {
	tmp := t.TempDir()
	sys, err := NewSystem(filepath.Join(tmp, "db"), filepath.Join(tmp, "blobs"))
	require.NoError(t, err)

	assert.NoError(t, sys.Close())
}

func TestSystem_FactoryMethods(t *testing.T) {
	tmp := t.TempDir()
	sys, err := NewSystem(filepath.Join(tmp, "db"), filepath.Join(tmp, "blobs"),
		WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer sys.Close()

	t.Run("can create coordinator", func(t *testing.T) {
		coordinator, err := sys.NewCoordinator()
		require.NoError(t, err)
		require.NotNil(t, coordinator)
	})

	t.Run("can create workers", func(t *testing.T) {
		workers, err := sys.NewWorkers(2)
		require.NoError(t, err)
		require.NotNil(t, workers)

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, workers.Start(ctx))
		cancel()
		workers.Release()
	})

	t.Run("can create orchestrator", func(t *testing.T) {
		orchestrator, err := sys.NewOrchestrator()
		require.NoError(t, err)
		require.NotNil(t, orchestrator)
	})

	t.Run("can create analyzer", func(t *testing.T) {
		analyzer, err := sys.NewAnalyzer()
		require.NoError(t, err)
		require.NotNil(t, analyzer)
	})
}

func TestSystem_UploadToAnswerFlow(t *testing.T) {
	tmp := t.TempDir()
	sys, err := NewSystem("", filepath.Join(tmp, "blobs"),
		WithInMemoryStorage(),
		WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer sys.Close()

	coordinator, err := sys.NewCoordinator()
	require.NoError(t, err)
	workers, err := sys.NewWorkers(1)
	require.NoError(t, err)
	orchestrator, err := sys.NewOrchestrator()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, workers.Start(ctx))
	defer func() {
		cancel()
		workers.Release()
	}()

	text := strings.Repeat("The acquisition closed in June and lifted annual revenue. ", 20)
	doc, err := coordinator.Submit(context.Background(), "deal.txt", []byte(text))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, err := sys.DocumentRepository().GetDocument(context.Background(), doc.Id)
		return err == nil && got.Status == core.StatusCompleted
	}, 5*time.Second, 20*time.Millisecond)

	// The mock embedder is deterministic, so querying with a stored chunk's
	// exact text retrieves it at distance zero.
	count, err := sys.ChunkRepository().CountChunks(context.Background(), doc.Id)
	require.NoError(t, err)
	require.Greater(t, count, 0)

	answer, err := orchestrator.Ask(context.Background(), text[:500], 3)
	require.NoError(t, err)
	assert.NotEmpty(t, answer.Text)
	require.NotEmpty(t, answer.Sources)
	assert.Equal(t, "deal.txt", answer.Sources[0].Filename)
	assert.Greater(t, answer.Sources[0].SimilarityScore, 0.4)
}
