package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeConformance exercises the Store contract against any
// implementation.
func storeConformance(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Open(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	data := []byte("hello blob world")
	require.NoError(t, store.Put(ctx, "a/one.bin", data))
	require.NoError(t, store.Put(ctx, "a/two.bin", []byte("second")))
	require.NoError(t, store.Put(ctx, "b/three.bin", []byte("third")))

	blob, err := store.Open(ctx, "a/one.bin")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, len(data))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, data, buf[:n])

	// Partial read from an offset
	part := make([]byte, 4)
	n, err = blob.ReadAt(ctx, part, 6)
	require.NoError(t, err)
	assert.Equal(t, "blob", string(part[:n]))
	require.NoError(t, blob.Close())

	// Overwrite replaces content
	require.NoError(t, store.Put(ctx, "a/one.bin", []byte("replaced")))
	got, err := ReadAll(ctx, store, "a/one.bin")
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(got))

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/one.bin", "a/two.bin"}, names)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, store.Delete(ctx, "a/one.bin"))
	_, err = store.Open(ctx, "a/one.bin")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing blob is not an error
	require.NoError(t, store.Delete(ctx, "a/one.bin"))
}

func TestMemoryStore(t *testing.T) {
	storeConformance(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	storeConformance(t, store)
}

func TestRateLimitedStore(t *testing.T) {
	storeConformance(t, NewRateLimited(NewMemoryStore(), 1<<20))
}

func TestRateLimitedStore_Unlimited(t *testing.T) {
	storeConformance(t, NewRateLimited(NewMemoryStore(), 0))
}

func TestRateLimitedStore_CanceledContext(t *testing.T) {
	store := NewRateLimited(NewMemoryStore(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Put(ctx, "big.bin", make([]byte, 1024))
	require.Error(t, err)
}

func TestMemoryStore_OpenReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	original := []byte("immutable")
	require.NoError(t, store.Put(ctx, "x", original))

	blob, err := store.Open(ctx, "x")
	require.NoError(t, err)
	defer blob.Close()

	// Mutating the caller's slice must not affect stored content.
	original[0] = 'X'

	got, err := ReadAll(ctx, store, "x")
	require.NoError(t, err)
	assert.Equal(t, "immutable", string(got))
}
