// Package cache keeps local copies of remote log files so that older,
// no longer changing logs are not fetched on every run.
package cache

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/aleister1102/checkftplog/internal/common"

	"github.com/rs/zerolog"
)

// BlobInfo describes a cached blob.
type BlobInfo struct {
	ModTime time.Time
	Size    int64
}

// Store is the cache storage the gate works against. Stat reports a missing
// blob with an error wrapping common.ErrNotFound.
type Store interface {
	Exists(key string) bool
	Stat(key string) (BlobInfo, error)
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
}

// FileStore keeps blobs as plain files in a single flat directory.
// It takes no locks; concurrent runs sharing a directory may interleave.
type FileStore struct {
	dir         string
	fileManager *common.FileManager
	logger      zerolog.Logger
}

// NewFileStore creates a FileStore rooted at dir, creating it when missing.
func NewFileStore(dir string, logger zerolog.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, common.NewValidationError("cache_dir", dir, "cache directory is required")
	}
	componentLogger := logger.With().Str("component", "CacheStore").Logger()
	fm := common.NewFileManager(componentLogger)
	if err := fm.EnsureDirectory(dir, 0755); err != nil {
		return nil, common.WrapError(err, "failed to prepare cache directory")
	}
	return &FileStore{
		dir:         dir,
		fileManager: fm,
		logger:      componentLogger,
	}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

// Exists reports whether a blob is stored under key.
func (s *FileStore) Exists(key string) bool {
	info, err := s.fileManager.GetFileInfo(s.path(key))
	return err == nil && !info.IsDir
}

// Stat returns modification time and size of the blob under key. A missing
// blob gives an error satisfying IsMiss.
func (s *FileStore) Stat(key string) (BlobInfo, error) {
	info, err := s.fileManager.GetFileInfo(s.path(key))
	if err != nil {
		return BlobInfo{}, err
	}
	if info.IsDir {
		return BlobInfo{}, common.WrapErrorf(common.ErrNotFound, "cache blob %q is a directory", key)
	}
	return BlobInfo{ModTime: info.ModTime, Size: info.Size}, nil
}

// Read returns the blob stored under key.
func (s *FileStore) Read(key string) ([]byte, error) {
	return s.fileManager.ReadFile(s.path(key), common.DefaultFileReadOptions())
}

// Write replaces the blob stored under key.
func (s *FileStore) Write(key string, data []byte) error {
	if err := s.fileManager.WriteFile(s.path(key), data, common.DefaultFileWriteOptions()); err != nil {
		return err
	}
	s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Cache blob refreshed")
	return nil
}

// IsMiss reports whether err means the blob does not exist.
func IsMiss(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
