package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docstore-backend/internal/shared/storage/object"
	"docstore-backend/internal/shared/util"
)

// Store implements FileStore on a flat local directory.
type Store struct {
	baseDir string
}

// New creates a local file store rooted at baseDir, creating it if needed.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir storage root: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Save writes the reader to disk under the sanitized file name. A name
// collision is resolved by appending a millisecond timestamp before the
// extension, so the stored name stays stable for the file's lifetime.
func (s *Store) Save(ctx context.Context, fileName string, r io.Reader) (string, int64, error) {
	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", 0, fmt.Errorf("sanitize file name: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	finalName := sanitized
	if _, err := os.Stat(filepath.Join(s.baseDir, finalName)); err == nil {
		ext := filepath.Ext(sanitized)
		base := strings.TrimSuffix(sanitized, ext)
		finalName = fmt.Sprintf("%s-%d%s", base, time.Now().UnixMilli(), ext)
	}

	fullPath := filepath.Join(s.baseDir, finalName)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		return "", 0, fmt.Errorf("write body: %w", err)
	}

	return finalName, size, nil
}

// Open opens a stored file for reading.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	fullPath, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, object.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes a stored file. A missing file reports ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	fullPath, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return object.ErrNotFound
		}
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// Stat returns metadata for a stored file.
func (s *Store) Stat(ctx context.Context, name string) (object.FileInfo, error) {
	fullPath, err := s.Path(name)
	if err != nil {
		return object.FileInfo{}, err
	}
	if err := ctx.Err(); err != nil {
		return object.FileInfo{}, err
	}
	info, err := os.Stat(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return object.FileInfo{}, object.ErrNotFound
	}
	if err != nil {
		return object.FileInfo{}, err
	}
	if info.IsDir() {
		return object.FileInfo{}, object.ErrNotFound
	}
	return object.FileInfo{Name: name, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// List enumerates stored files, skipping directories and hidden entries.
func (s *Store) List(ctx context.Context) ([]object.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read storage root: %w", err)
	}
	out := make([]object.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, object.FileInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return out, nil
}

// Path resolves a stored name to an absolute path, rejecting traversal.
func (s *Store) Path(name string) (string, error) {
	clean := filepath.Clean(name)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) || strings.ContainsRune(clean, filepath.Separator) {
		return "", fmt.Errorf("invalid file name")
	}
	abs, err := filepath.Abs(filepath.Join(s.baseDir, clean))
	if err != nil {
		return "", err
	}
	return abs, nil
}
