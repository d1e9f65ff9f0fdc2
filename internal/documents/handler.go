package documents

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docstore-backend/internal/search"
	"docstore-backend/internal/shared/metrics"
	"docstore-backend/internal/shared/server/respond"
	"docstore-backend/internal/shared/telemetry"
)

const maxUploadSize = 50 << 20 // 50MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.GET("/files", h.list)
	rg.GET("/files/raw/:id", h.raw)
	rg.DELETE("/files/:id", h.remove)
	rg.GET("/search", h.search)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload file", nil)
		}
		return
	}

	metrics.IncUpload()
	respond.JSON(c, http.StatusCreated, UploadResponse{
		Message: "File uploaded and indexed successfully",
		File:    toResponse(doc),
	})
}

// list returns all documents when q is blank, and ranked matches
// otherwise. A failing search degrades to the plain storage listing so
// the endpoint keeps working while the index is down.
func (h *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()
	query := strings.TrimSpace(c.Query("q"))

	if query != "" {
		results, err := h.searchTimed(c, query)
		if err == nil {
			respond.OK(c, ListResponse{Files: searchFilesToResponses(results)})
			return
		}
		telemetry.Warn("files.search_degraded", map[string]any{
			"query": query,
			"err":   err.Error(),
		})
	}

	docs, err := h.Svc.ListStored(ctx)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list files", nil)
		return
	}
	respond.OK(c, ListResponse{Files: toResponses(docs)})
}

type searchResponse struct {
	Files []search.Result `json:"files"`
	Total int             `json:"total"`
	Query string          `json:"query"`
}

func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	results, err := h.searchTimed(c, query)
	if err != nil {
		metrics.IncSearchFailure()
		respond.Error(c, http.StatusServiceUnavailable, "search_unavailable", "search engine is unavailable", nil)
		return
	}

	respond.OK(c, searchResponse{
		Files: results,
		Total: len(results),
		Query: query,
	})
}

func (h *Handler) searchTimed(c *gin.Context, query string) ([]search.Result, error) {
	start := metrics.NowMillis()
	results, err := h.Svc.Search(c.Request.Context(), query)
	metrics.ObserveSearchDurationMs(metrics.NowMillis() - start)
	if err != nil {
		return nil, err
	}
	metrics.IncSearch()
	return results, nil
}

func (h *Handler) raw(c *gin.Context) {
	id := c.Param("id")

	path, err := h.Svc.FilePath(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read file", nil)
		return
	}
	c.File(path)
}

func (h *Handler) remove(c *gin.Context) {
	id := c.Param("id")

	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete file", nil)
		return
	}

	metrics.IncDelete()
	respond.OK(c, DeleteResponse{
		Message:  "File deleted successfully",
		Filename: id,
	})
}

// searchFilesToResponses reshapes ranked results into the listing shape
// so /files?q= and /files return the same schema, keeping score and
// highlights on the ranked entries.
func searchFilesToResponses(results []search.Result) []FileResponse {
	out := make([]FileResponse, 0, len(results))
	for _, r := range results {
		out = append(out, FileResponse{
			Filename:     r.ID,
			OriginalName: r.OriginalName,
			Size:         r.Size,
			MimeType:     r.MimeType,
			UploadDate:   r.UploadDate,
			Path:         r.Path,
			Score:        r.Score,
			Highlights:   r.Highlights,
		})
	}
	return out
}
