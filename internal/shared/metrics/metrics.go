package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	uploadsTotal        atomic.Uint64
	deletesTotal        atomic.Uint64
	searchesTotal       atomic.Uint64
	searchFailuresTotal atomic.Uint64
	extractFailedTotal  atomic.Uint64
	reconcileRunsTotal  atomic.Uint64

	searchDuration = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// IncUpload increments the uploads counter.
func IncUpload() {
	uploadsTotal.Add(1)
}

// IncDelete increments the deletes counter.
func IncDelete() {
	deletesTotal.Add(1)
}

// IncSearch increments the searches counter.
func IncSearch() {
	searchesTotal.Add(1)
}

// IncSearchFailure increments the failed-searches counter.
func IncSearchFailure() {
	searchFailuresTotal.Add(1)
}

// IncExtractFailed increments the extraction-failures counter.
func IncExtractFailed() {
	extractFailedTotal.Add(1)
}

// IncReconcileRun increments the reconciliation-runs counter.
func IncReconcileRun() {
	reconcileRunsTotal.Add(1)
}

// ObserveSearchDurationMs records a search duration in milliseconds.
func ObserveSearchDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	searchDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "uploads_total", "Total documents uploaded", uploadsTotal.Load())
	writeCounter(&buf, "deletes_total", "Total documents deleted", deletesTotal.Load())
	writeCounter(&buf, "searches_total", "Total search requests", searchesTotal.Load())
	writeCounter(&buf, "search_failures_total", "Total failed search requests", searchFailuresTotal.Load())
	writeCounter(&buf, "extract_failures_total", "Total failed text extractions", extractFailedTotal.Load())
	writeCounter(&buf, "reconcile_runs_total", "Total reconciliation runs", reconcileRunsTotal.Load())
	writeHistogram(&buf, "search_duration_ms", "Search duration in milliseconds", searchDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value in its first qualifying bucket; the exposition
// accumulates the cumulative counts.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
