package assets

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelhub/internal/logger"
)

func newTestDisk(t *testing.T, maxBytes int64) *DiskStorage {
	t.Helper()

	d, err := NewDiskStorage(t.TempDir(), maxBytes, logger.Nop())
	require.NoError(t, err)
	return d
}

func TestDiskStorage_StoreAndOpen(t *testing.T) {
	d := newTestDisk(t, 1024)
	ctx := context.Background()

	content := "glTF binary bytes"
	locator, err := d.Store(ctx, strings.NewReader(content), "engine.glb", int64(len(content)))
	require.NoError(t, err)
	assert.Contains(t, locator, "model-")
	assert.True(t, strings.HasSuffix(locator, ".glb"), "locator %q should keep the extension", locator)

	f, err := d.Open(ctx, locator)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestDiskStorage_RejectsUnsupportedExtension(t *testing.T) {
	d := newTestDisk(t, 1024)

	for _, filename := range []string{"model.exe", "model.obj", "model", "model.glb.exe"} {
		_, err := d.Store(context.Background(), strings.NewReader("x"), filename, 1)
		assert.ErrorIs(t, err, ErrUnsupportedFileType, "filename %q", filename)
	}
}

func TestDiskStorage_AcceptsAllModelFormats(t *testing.T) {
	d := newTestDisk(t, 1024)

	for _, filename := range []string{"a.glb", "b.gltf", "c.usdz", "D.GLB"} {
		_, err := d.Store(context.Background(), strings.NewReader("x"), filename, 1)
		assert.NoError(t, err, "filename %q", filename)
	}
}

func TestDiskStorage_RejectsOversizedDeclaredLength(t *testing.T) {
	d := newTestDisk(t, 10)

	_, err := d.Store(context.Background(), strings.NewReader("x"), "a.glb", 11)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestDiskStorage_RejectsOversizedActualBody(t *testing.T) {
	d := newTestDisk(t, 10)

	// declared size fits, real body does not
	_, err := d.Store(context.Background(), strings.NewReader(strings.Repeat("x", 20)), "a.glb", 5)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestDiskStorage_Release(t *testing.T) {
	d := newTestDisk(t, 1024)
	ctx := context.Background()

	locator, err := d.Store(ctx, strings.NewReader("bytes"), "a.glb", 5)
	require.NoError(t, err)

	require.NoError(t, d.Release(ctx, locator))

	_, err = d.Open(ctx, locator)
	assert.ErrorIs(t, err, ErrAssetNotFound)

	// releasing again is a no-op
	assert.NoError(t, d.Release(ctx, locator))
}

func TestDiskStorage_ExternalLocatorsPassThrough(t *testing.T) {
	d := newTestDisk(t, 1024)
	ctx := context.Background()

	external := "https://cdn.example.com/models/engine.glb"
	assert.NoError(t, d.Release(ctx, external))

	_, err := d.Open(ctx, external)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestDiskStorage_LocatorCannotEscapeUploadDir(t *testing.T) {
	d := newTestDisk(t, 1024)

	_, err := d.Open(context.Background(), d.dir+"/../secret.txt")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestIsExternal(t *testing.T) {
	assert.True(t, IsExternal("https://example.com/a.glb"))
	assert.False(t, IsExternal("uploads/model-1.glb"))
	assert.False(t, IsExternal("http://example.com/a.glb"))
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "glb", FileType("engine.glb"))
	assert.Equal(t, "usdz", FileType("Engine.USDZ"))
	assert.Equal(t, "", FileType("engine.zip"))
	assert.Equal(t, "", FileType("engine"))
}
