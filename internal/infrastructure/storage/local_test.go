package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRoundTrip(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store, err := NewLocal(base, nil)
	require.NoError(t, err)

	ctx := context.Background()
	payload := []byte("%PDF-1.4 resume")

	require.NoError(t, store.Put(ctx, "resumes/7/abc.pdf", bytes.NewReader(payload), int64(len(payload)), "application/pdf"))

	_, err = os.Stat(filepath.Join(base, "resumes", "7", "abc.pdf"))
	require.NoError(t, err)

	reader, err := store.Open(ctx, "resumes/7/abc.pdf")
	require.NoError(t, err)
	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	assert.Equal(t, payload, got)

	require.NoError(t, store.Delete(ctx, "resumes/7/abc.pdf"))
	_, err = store.Open(ctx, "resumes/7/abc.pdf")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))

	require.NoError(t, store.Delete(ctx, "resumes/7/abc.pdf"), "deleting a missing object is allowed")
}

func TestLocalPutOverwrites(t *testing.T) {
	t.Parallel()

	store, err := NewLocal(t.TempDir(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a.txt", bytes.NewReader([]byte("first")), 5, "text/plain"))
	require.NoError(t, store.Put(ctx, "a.txt", bytes.NewReader([]byte("second")), 6, "text/plain"))

	reader, err := store.Open(ctx, "a.txt")
	require.NoError(t, err)
	defer reader.Close()
	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestLocalPutRejectsShortBody(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store, err := NewLocal(base, nil)
	require.NoError(t, err)

	err = store.Put(context.Background(), "short.txt", bytes.NewReader([]byte("abc")), 10, "text/plain")
	require.Error(t, err)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial uploads must be cleaned up")
}

func TestLocalRejectsTraversal(t *testing.T) {
	t.Parallel()

	store, err := NewLocal(t.TempDir(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	err = store.Put(ctx, "../escape.txt", bytes.NewReader([]byte("x")), 1, "text/plain")
	assert.True(t, eris.Is(err, ErrInvalidKey))

	_, err = store.Open(ctx, "/etc/passwd")
	assert.True(t, eris.Is(err, ErrInvalidKey))

	err = store.Delete(ctx, "a/../../b")
	assert.True(t, eris.Is(err, ErrInvalidKey))
}

func TestLocalPutHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	store, err := NewLocal(t.TempDir(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = store.Put(ctx, "a.txt", bytes.NewReader([]byte("x")), 1, "text/plain")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLocalRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := NewLocal(" ", nil)
	require.Error(t, err)
}
