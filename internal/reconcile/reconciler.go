package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"docstore-backend/internal/extract"
	"docstore-backend/internal/index"
	"docstore-backend/internal/shared/storage/object"
	"docstore-backend/internal/shared/telemetry"
)

// TextExtractor converts a stored file into plain text. Implementations
// never fail; extraction problems surface as empty text.
type TextExtractor interface {
	Extract(ctx context.Context, path string, mimeType string) string
}

// Reconciler converges the index's document set to the set of supported
// files currently in storage.
type Reconciler struct {
	store     object.FileStore
	index     *index.Client
	extractor TextExtractor
	workers   int
}

// New constructs a Reconciler. workers bounds how many files are
// extracted and indexed concurrently.
func New(store object.FileStore, idx *index.Client, extractor TextExtractor, workers int) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	return &Reconciler{store: store, index: idx, extractor: extractor, workers: workers}
}

// Summary reports what one reconciliation run did.
type Summary struct {
	Removed int `json:"removed"`
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Run performs one incremental reconciliation: orphaned index entries
// are deleted, new supported files are extracted and indexed, and
// unsupported files are counted as skipped. Per-file failures are logged
// and never abort the run.
func (r *Reconciler) Run(ctx context.Context) (Summary, error) {
	runID := uuid.NewString()

	files, err := r.store.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list storage: %w", err)
	}
	indexed, err := r.index.ListAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list index: %w", err)
	}

	onDisk := make(map[string]object.FileInfo, len(files))
	for _, f := range files {
		onDisk[f.Name] = f
	}
	inIndex := make(map[string]struct{}, len(indexed))
	for _, doc := range indexed {
		inIndex[doc.ID] = struct{}{}
	}

	var summary Summary

	// Orphans: indexed keys whose backing file is gone.
	for id := range inIndex {
		if _, ok := onDisk[id]; ok {
			continue
		}
		if err := r.index.Delete(ctx, id); err != nil {
			telemetry.Error("reconcile.orphan_delete_failed", map[string]any{
				"run_id": runID, "id": id, "err": err.Error(),
			})
			summary.Failed++
			continue
		}
		summary.Removed++
	}

	// New files: supported storage entries absent from the index.
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, r.workers)
	)
	for name, info := range onDisk {
		if !extract.IsSupported(name) {
			summary.Skipped++
			continue
		}
		if _, ok := inIndex[name]; ok {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(name string, info object.FileInfo) {
			defer wg.Done()
			defer func() { <-sem }()

			err := r.indexFile(ctx, name, info)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				telemetry.Error("reconcile.index_failed", map[string]any{
					"run_id": runID, "file": name, "err": err.Error(),
				})
				summary.Failed++
				return
			}
			summary.Indexed++
		}(name, info)
	}
	wg.Wait()

	telemetry.Info("reconcile.complete", map[string]any{
		"run_id":  runID,
		"removed": summary.Removed,
		"indexed": summary.Indexed,
		"skipped": summary.Skipped,
		"failed":  summary.Failed,
	})
	return summary, nil
}

// RebuildAll drops the index, recreates the schema, and indexes every
// supported file in storage. Unlike Run it is fail-fast: an index or
// schema error aborts the rebuild. Per-file extraction failures still
// only yield empty content.
func (r *Reconciler) RebuildAll(ctx context.Context) (Summary, error) {
	if err := r.index.Rebuild(); err != nil {
		return Summary{}, fmt.Errorf("rebuild index: %w", err)
	}

	files, err := r.store.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list storage: %w", err)
	}

	var summary Summary
	for _, info := range files {
		if !extract.IsSupported(info.Name) {
			summary.Skipped++
			continue
		}
		if err := r.indexFile(ctx, info.Name, info); err != nil {
			return summary, fmt.Errorf("index %s: %w", info.Name, err)
		}
		summary.Indexed++
	}
	return summary, nil
}

// indexFile extracts text and upserts the document. The upload-time
// display name is not recoverable here, so the stored filename serves as
// both id and original name, and the file's modification time as the
// upload date.
func (r *Reconciler) indexFile(ctx context.Context, name string, info object.FileInfo) error {
	path, err := r.store.Path(name)
	if err != nil {
		return err
	}
	content := r.extractor.Extract(ctx, path, extract.TypeForName(name))
	doc := index.NewDocument(name, name, content, info.Size, info.ModTime)
	return r.index.Upsert(ctx, doc)
}
