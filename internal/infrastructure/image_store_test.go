package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskImageStoreSaveAndRelease(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskImageStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Save(ctx, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "images/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	onDisk := filepath.Join(dir, filepath.Base(ref))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Release(ctx, ref))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Release(ctx, ref), "releasing twice is harmless")
}

func TestDiskImageStoreRejectsUnsupportedType(t *testing.T) {
	store, err := NewDiskImageStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "image/gif", strings.NewReader("gif"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestDiskImageStoreRejectsForeignReferences(t *testing.T) {
	store, err := NewDiskImageStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, ref := range []string{"../etc/passwd", "images/../../secret", "other/a.png", "images/", ""} {
		assert.Error(t, store.Release(ctx, ref), ref)
	}
}
