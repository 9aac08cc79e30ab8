package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"eventhub/events-service/internal/app/events/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/events/images")
	require.NoError(t, err)

	ctx := context.Background()

	path, err := store.Save(ctx, "event-abc.png", "image/png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "/events/images/event-abc.png", path)
	assert.FileExists(t, filepath.Join(dir, "event-abc.png"))

	obj, err := store.Open(ctx, "event-abc.png")
	require.NoError(t, err)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	obj.Body.Close()
	assert.Equal(t, pngHeader, body)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, int64(len(pngHeader)), obj.Size)

	require.NoError(t, store.Delete(ctx, path))
	assert.NoFileExists(t, filepath.Join(dir, "event-abc.png"))

	assert.ErrorIs(t, store.Delete(ctx, path), infrastructure.ErrImageNotFound)
}

func TestLocalStorage_OpenMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/events/images")
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "event-missing.png")
	assert.ErrorIs(t, err, infrastructure.ErrImageNotFound)

	_, err = store.Open(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, infrastructure.ErrImageNotFound)
}

func TestLocalStorage_SaveFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/events/images")
	require.NoError(t, err)

	img, err := PrepareImage("big.png", 1, 16, bytes.NewReader(append(append([]byte{}, pngHeader...), make([]byte, 64)...)))
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "event-big.png", img.ContentType, img.Content)
	assert.ErrorIs(t, err, infrastructure.ErrImageTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
