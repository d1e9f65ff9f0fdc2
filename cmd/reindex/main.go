package main

import (
	"context"
	"log"

	"docstore-backend/internal/extract"
	"docstore-backend/internal/index"
	"docstore-backend/internal/reconcile"
	"docstore-backend/internal/shared/config"
	localstore "docstore-backend/internal/shared/storage/object/local"
)

// reindex drops the index and rebuilds it from storage. Any index or
// schema failure is fatal so operators never end up with a silently
// partial index.
func main() {
	cfg := config.Load()

	store, err := localstore.New(cfg.StorageDir)
	if err != nil {
		log.Fatalf("open storage dir: %v", err)
	}

	idx := index.New(cfg.IndexDir)
	if err := idx.EnsureIndex(); err != nil {
		log.Fatalf("open index: %v", err)
	}
	defer idx.Close()

	rec := reconcile.New(store, idx, extract.New(cfg.ExtractTimeout), cfg.ReconcileWorkers)

	summary, err := rec.RebuildAll(context.Background())
	if err != nil {
		log.Fatalf("rebuild failed: %v", err)
	}

	log.Printf("rebuild complete: indexed=%d skipped=%d", summary.Indexed, summary.Skipped)
}
