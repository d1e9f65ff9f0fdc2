package object

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when a stored file does not exist.
var ErrNotFound = errors.New("file not found")

// FileInfo describes a stored file.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// FileStore defines the contract for the flat document storage root.
type FileStore interface {
	// Save writes the reader under fileName, renaming to
	// <basename>-<timestamp>.<ext> when the name is already taken.
	// It returns the name the file was stored under.
	Save(ctx context.Context, fileName string, r io.Reader) (storedName string, sizeBytes int64, err error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	Stat(ctx context.Context, name string) (FileInfo, error)
	// List enumerates stored files, excluding directories and hidden entries.
	List(ctx context.Context) ([]FileInfo, error)
	// Path resolves a stored name to an absolute filesystem path for
	// collaborators that read files directly (text extraction).
	Path(name string) (string, error)
}
