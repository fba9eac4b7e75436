// Package assets stores and serves the binary model files referenced by
// model records. The database never holds file bytes, only opaque locator
// strings produced here; locators prefixed with "https://" point at external
// hosting and pass through every operation untouched.
package assets

import (
	"context"
	"errors"
	"io"
	"strings"
)

// Allowed model file extensions, dot included.
var allowedExtensions = map[string]string{
	".glb":  "model/gltf-binary",
	".gltf": "model/gltf+json",
	".usdz": "model/vnd.usdz+zip",
}

const externalPrefix = "https://"

var (
	// ErrUnsupportedFileType is returned when the uploaded file's extension
	// is not one of .glb, .gltf, .usdz.
	ErrUnsupportedFileType = errors.New("unsupported model file type")

	// ErrFileTooLarge is returned when an upload exceeds the configured
	// size cap.
	ErrFileTooLarge = errors.New("model file exceeds maximum upload size")

	// ErrAssetNotFound is returned when a locator does not resolve to a
	// stored asset.
	ErrAssetNotFound = errors.New("asset was not found")
)

// Storage persists uploaded model binaries and resolves their locators.
type Storage interface {
	// Store saves the upload and returns its locator. filename is the
	// client-supplied name, used only for its extension; size is the
	// declared length in bytes.
	Store(ctx context.Context, r io.Reader, filename string, size int64) (string, error)

	// Open returns the asset bytes behind a locator previously returned by
	// Store. External locators are not openable and yield [ErrAssetNotFound].
	Open(ctx context.Context, locator string) (io.ReadCloser, error)

	// Release deletes the asset behind the locator. External locators are
	// left alone.
	Release(ctx context.Context, locator string) error
}

// IsExternal reports whether the locator references externally hosted
// content that is served verbatim and never managed by a [Storage].
func IsExternal(locator string) bool {
	return strings.HasPrefix(locator, externalPrefix)
}

// FileType returns the extension of filename without the dot, lower-cased,
// or "" when the extension is not an allowed model format.
func FileType(filename string) string {
	ext := strings.ToLower(extensionOf(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

// ContentType returns the MIME type for an allowed model file extension.
func ContentType(filename string) string {
	return allowedExtensions[strings.ToLower(extensionOf(filename))]
}

func extensionOf(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[i:]
	}
	return ""
}
