package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"docstore-backend/internal/documents"
	"docstore-backend/internal/extract"
	"docstore-backend/internal/index"
	"docstore-backend/internal/reconcile"
	"docstore-backend/internal/search"
	"docstore-backend/internal/services/health"
	"docstore-backend/internal/shared/config"
	"docstore-backend/internal/shared/metrics"
	"docstore-backend/internal/shared/server"
	localstore "docstore-backend/internal/shared/storage/object/local"
	"docstore-backend/internal/shared/telemetry"
)

// App holds the wired application graph.
type App struct {
	Config     config.Config
	Router     *gin.Engine
	Index      *index.Client
	Reconciler *reconcile.Reconciler
}

// Build wires storage, the index, extraction, search, and the HTTP
// surface. An index that fails to open leaves the app in storage-only
// mode instead of aborting startup; a restart brings the index back.
func Build(cfg config.Config) (*App, error) {
	store, err := localstore.New(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("open storage dir: %w", err)
	}

	idx := index.New(cfg.IndexDir)
	if err := idx.EnsureIndex(); err != nil {
		telemetry.Error("bootstrap.index_unavailable", map[string]any{
			"path": cfg.IndexDir,
			"err":  err.Error(),
		})
	}

	extractor := extract.New(cfg.ExtractTimeout)
	engine := search.NewEngine(idx)

	docSvc := &documents.Service{
		Store:     store,
		Index:     idx,
		Extractor: extractor,
		Engine:    engine,
	}
	docHandler := documents.NewHandler(docSvc)

	router := server.NewRouter(server.RouterDeps{
		Config:    cfg,
		Documents: docHandler,
		Health:    health.NewService(idx),
	})

	return &App{
		Config:     cfg,
		Router:     router,
		Index:      idx,
		Reconciler: reconcile.New(store, idx, extractor, cfg.ReconcileWorkers),
	}, nil
}

// Reconcile runs one filesystem/index reconciliation pass.
func (a *App) Reconcile(ctx context.Context) (reconcile.Summary, error) {
	metrics.IncReconcileRun()
	return a.Reconciler.Run(ctx)
}

// Close releases the index.
func (a *App) Close() error {
	return a.Index.Close()
}
