package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"docstore-backend/internal/extract"
	"docstore-backend/internal/index"
	"docstore-backend/internal/search"
	"docstore-backend/internal/shared/storage/object"
	"docstore-backend/internal/shared/telemetry"
)

// TextExtractor converts a stored file into plain text. Failures surface
// as empty text, never as an error.
type TextExtractor interface {
	Extract(ctx context.Context, path string, mimeType string) string
}

// Service contains business logic for documents.
type Service struct {
	Store     object.FileStore
	Index     *index.Client
	Extractor TextExtractor
	Engine    *search.Engine
}

// Upload saves the file to storage, extracts its text, and upserts it
// into the index. An index failure does not fail the upload; the
// reconciler picks the document up on the next run.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader) (Document, error) {
	if strings.TrimSpace(fileName) == "" {
		return Document{}, fmt.Errorf("%w: file name required", ErrInvalidInput)
	}

	storedName, size, err := s.Store.Save(ctx, fileName, r)
	if err != nil {
		return Document{}, fmt.Errorf("save file: %w", err)
	}

	doc := Document{
		ID:           storedName,
		OriginalName: fileName,
		MimeType:     extract.TypeForName(storedName),
		Size:         size,
		UploadDate:   time.Now().UTC(),
		Path:         index.RetrievalPath(storedName),
	}

	// Unsupported types are stored but never indexed, matching what
	// reconciliation and rebuild converge to.
	if doc.MimeType == extract.MimeUnsupported {
		return doc, nil
	}

	path, err := s.Store.Path(storedName)
	if err != nil {
		return Document{}, err
	}
	doc.Content = s.Extractor.Extract(ctx, path, doc.MimeType)

	idxDoc := index.NewDocument(doc.ID, doc.OriginalName, doc.Content, doc.Size, doc.UploadDate)
	if err := s.Index.Upsert(ctx, idxDoc); err != nil {
		telemetry.Error("upload.index_failed", map[string]any{
			"id":  doc.ID,
			"err": err.Error(),
		})
	}

	return doc, nil
}

// ListStored enumerates storage directly, so listing keeps working when
// the index is down. Entries are ordered by name.
func (s *Service) ListStored(ctx context.Context) ([]Document, error) {
	files, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	docs := make([]Document, 0, len(files))
	for _, f := range files {
		docs = append(docs, Document{
			ID:           f.Name,
			OriginalName: f.Name,
			MimeType:     extract.TypeForName(f.Name),
			Size:         f.Size,
			UploadDate:   f.ModTime,
			Path:         index.RetrievalPath(f.Name),
		})
	}
	return docs, nil
}

// Search runs the ranked query through the relevance engine.
func (s *Service) Search(ctx context.Context, query string) ([]search.Result, error) {
	return s.Engine.Search(ctx, query)
}

// Delete removes the document from storage and then from the index. A
// missing file is ErrNotFound; a missing index entry is tolerated.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete file: %w", err)
	}

	if err := s.Index.Delete(ctx, id); err != nil {
		telemetry.Warn("delete.index_failed", map[string]any{
			"id":  id,
			"err": err.Error(),
		})
	}
	return nil
}

// FilePath resolves a stored document to its filesystem path, verifying
// the file exists.
func (s *Service) FilePath(ctx context.Context, id string) (string, error) {
	if _, err := s.Store.Stat(ctx, id); err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return s.Store.Path(id)
}
