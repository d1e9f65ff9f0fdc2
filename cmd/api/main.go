package main

import (
	"context"
	"log"

	"docstore-backend/internal/bootstrap"
	"docstore-backend/internal/shared/config"
	"docstore-backend/internal/shared/server"
	"docstore-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	// Startup reconciliation runs in the background so uploads the
	// index missed while offline become searchable without blocking
	// the listener.
	go func() {
		summary, err := app.Reconcile(context.Background())
		if err != nil {
			telemetry.Error("startup.reconcile_failed", map[string]any{"err": err.Error()})
			return
		}
		telemetry.Info("startup.reconcile_done", map[string]any{
			"removed": summary.Removed,
			"indexed": summary.Indexed,
			"skipped": summary.Skipped,
			"failed":  summary.Failed,
		})
	}()

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
