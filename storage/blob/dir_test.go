package blob

import (
	"context"
	"testing"

	"github.com/poiesic/docrag/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_PutGetDelete(t *testing.T) {
	d, err := NewDir(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, d.Put(ctx, "abc_report.pdf", []byte("payload")))

	data, err := d.Get(ctx, "abc_report.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, d.Delete(ctx, "abc_report.pdf"))

	_, err = d.Get(ctx, "abc_report.pdf")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDir_GetMissing(t *testing.T) {
	d, err := NewDir(t.TempDir())
	require.NoError(t, err)

	_, err = d.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDir_DeleteMissingIsNoError(t *testing.T) {
	d, err := NewDir(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, d.Delete(context.Background(), "nope"))
}

func TestDir_List(t *testing.T) {
	d, err := NewDir(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	keys, err := d.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, d.Put(ctx, "b.txt", []byte("b")))
	require.NoError(t, d.Put(ctx, "a.txt", []byte("a")))

	keys, err = d.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, keys)
}

func TestDir_RejectsUnsafeKeys(t *testing.T) {
	d, err := NewDir(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "a/b", `a\b`, "../escape"} {
		assert.Errorf(t, d.Put(ctx, key, []byte("x")), "key %q accepted", key)
	}
}
