package assets

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modelhub/internal/logger"
)

// DiskStorage is the local filesystem implementation of [Storage]. Files are
// written under a single upload directory with generated names; the locator
// is the slash-separated relative path ("uploads/model-....glb"), which the
// HTTP layer also serves as a URL path.
type DiskStorage struct {
	dir      string
	maxBytes int64
	logger   *logger.Logger
}

var _ Storage = (*DiskStorage)(nil)

// NewDiskStorage creates the upload directory if needed and returns a
// [Storage] writing into it. maxBytes caps a single upload.
func NewDiskStorage(dir string, maxBytes int64, log *logger.Logger) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Err(err).Str("func", "NewDiskStorage").Msg("error creating upload directory")
		return nil, fmt.Errorf("error creating upload directory: %w", err)
	}

	return &DiskStorage{
		dir:      dir,
		maxBytes: maxBytes,
		logger:   log,
	}, nil
}

// Store implements [Storage]. The declared size is checked up front and the
// copy is capped as well, so a client lying about Content-Length cannot
// exceed the limit.
func (d *DiskStorage) Store(ctx context.Context, r io.Reader, filename string, size int64) (string, error) {
	log := logger.FromContext(ctx)

	fileType := FileType(filename)
	if fileType == "" {
		return "", ErrUnsupportedFileType
	}
	if size > d.maxBytes {
		return "", ErrFileTooLarge
	}

	name := generateName(fileType)
	path := filepath.Join(d.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		log.Err(err).Str("func", "*DiskStorage.Store").Msg("error creating asset file")
		return "", fmt.Errorf("error creating asset file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, d.maxBytes+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		log.Err(err).Str("func", "*DiskStorage.Store").Msg("error writing asset file")
		return "", fmt.Errorf("error writing asset file: %w", err)
	}
	if written > d.maxBytes {
		os.Remove(path)
		return "", ErrFileTooLarge
	}

	return d.dir + "/" + name, nil
}

// Open implements [Storage].
func (d *DiskStorage) Open(_ context.Context, locator string) (io.ReadCloser, error) {
	path, err := d.localPath(locator)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error opening asset file: %w", err)
	}
	return f, nil
}

// Release implements [Storage]. A locator whose file is already gone is not
// an error.
func (d *DiskStorage) Release(ctx context.Context, locator string) error {
	if IsExternal(locator) {
		return nil
	}

	path, err := d.localPath(locator)
	if err != nil {
		return err
	}

	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.FromContext(ctx).Err(err).Str("func", "*DiskStorage.Release").Msg("error removing asset file")
		return fmt.Errorf("error removing asset file: %w", err)
	}
	return nil
}

// localPath validates the locator and maps it back to a filesystem path.
// Locators must stay inside the upload directory.
func (d *DiskStorage) localPath(locator string) (string, error) {
	if IsExternal(locator) {
		return "", ErrAssetNotFound
	}

	rel, ok := strings.CutPrefix(locator, d.dir+"/")
	if !ok || rel != filepath.Base(rel) {
		return "", ErrAssetNotFound
	}
	return filepath.Join(d.dir, rel), nil
}

// generateName builds a collision-resistant file name in the
// "model-<unix-ms>-<random>.<ext>" form.
func generateName(fileType string) string {
	buf := make([]byte, 6)
	rand.Read(buf)
	return fmt.Sprintf("model-%d-%s.%s", time.Now().UnixMilli(), hex.EncodeToString(buf), fileType)
}
