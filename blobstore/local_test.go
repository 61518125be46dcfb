package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	data := []byte("Platform API version database\x00 payload")
	require.NoError(t, store.Put(ctx, "android/34/api.kb", data))
	require.NoError(t, store.Put(ctx, "android/33/api.kb", []byte("older")))

	blob, err := store.Open(ctx, "android/34/api.kb")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 8)
	n, err := blob.ReadAt(ctx, buf, 9)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "API vers", string(buf))

	n, err = blob.ReadAt(ctx, make([]byte, 100), int64(len(data)-3))
	assert.Equal(t, 3, n)
	assert.ErrorIs(t, err, io.EOF)
	require.NoError(t, blob.Close())

	got, err := ReadAll(ctx, store, "android/34/api.kb")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "android/")
	require.NoError(t, err)
	assert.Equal(t, []string{"android/33/api.kb", "android/34/api.kb"}, names)

	require.NoError(t, store.Delete(ctx, "android/33/api.kb"))
	require.NoError(t, store.Delete(ctx, "android/33/api.kb"))
	_, err = store.Open(ctx, "android/33/api.kb")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ReadAll(ctx, store, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	testStore(t, NewLocalStore(dir))

	_, err := os.Stat(filepath.Join(dir, "android", "34", "api.kb"))
	assert.NoError(t, err)
}

func TestLocalStoreListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStorePutCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "x", data))
	data[0] = 'z'

	got, err := ReadAll(ctx, store, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
