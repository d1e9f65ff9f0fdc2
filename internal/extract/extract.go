package extract

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"docstore-backend/internal/shared/metrics"
	"docstore-backend/internal/shared/telemetry"
)

// MIME types for the supported document formats. Anything else is
// MimeUnsupported: stored but never indexed.
const (
	MimePDF         = "application/pdf"
	MimeLegacyDoc   = "application/msword"
	MimeDOCX        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeLegacyXLS   = "application/vnd.ms-excel"
	MimeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeUnsupported = "unsupported"
)

// TypeForName derives the MIME type from the file extension.
func TypeForName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MimePDF
	case ".doc":
		return MimeLegacyDoc
	case ".docx":
		return MimeDOCX
	case ".xls":
		return MimeLegacyXLS
	case ".xlsx":
		return MimeXLSX
	default:
		return MimeUnsupported
	}
}

// IsSupported reports whether files with this name are auto-indexed.
func IsSupported(name string) bool {
	return TypeForName(name) != MimeUnsupported
}

// Adapter dispatches text extraction by declared MIME type. Extract never
// returns an error: any failure, including a timeout, surfaces as empty
// text plus a logged diagnostic so batch callers keep making progress.
type Adapter struct {
	timeout time.Duration
}

// New constructs an Adapter with a per-file extraction timeout.
func New(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Extract pulls plain text from the file at path according to mimeType.
func (a *Adapter) Extract(ctx context.Context, path string, mimeType string) string {
	if mimeType == MimeUnsupported {
		telemetry.Warn("extract.unsupported", map[string]any{"path": path})
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.run(ctx, path, mimeType)
	if err != nil {
		metrics.IncExtractFailed()
		telemetry.Error("extract.failed", map[string]any{
			"path": path,
			"mime": mimeType,
			"err":  err.Error(),
		})
		return ""
	}
	return text
}

type extractResult struct {
	text string
	err  error
}

// run executes the format-specific extractor in its own goroutine so a
// stuck in-process parse cannot hold up the caller past the timeout.
// Subprocess extractors are additionally killed through the context.
func (a *Adapter) run(ctx context.Context, path, mimeType string) (string, error) {
	done := make(chan extractResult, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- extractResult{err: panicError(rec)}
			}
		}()
		var res extractResult
		switch mimeType {
		case MimePDF:
			res.text, res.err = extractPDF(path)
		case MimeDOCX:
			res.text, res.err = extractDOCX(path)
		case MimeXLSX:
			res.text, res.err = extractXLSX(path)
		case MimeLegacyDoc, MimeLegacyXLS:
			res.text, res.err = extractLegacy(ctx, path, mimeType)
		default:
			res.err = errUnsupported(mimeType)
		}
		done <- res
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
