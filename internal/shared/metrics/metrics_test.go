package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulativeOnce(t *testing.T) {
	h := newHistogram([]float64{1, 10, 100})
	h.Observe(0.5)
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 4 {
		t.Fatalf("expected count 4, got %d", snap.count)
	}
	for i, want := range []uint64{1, 1, 1} {
		if snap.counts[i] != want {
			t.Fatalf("bucket %d: expected %d, got %d", i, want, snap.counts[i])
		}
	}

	var buf bytes.Buffer
	writeHistogram(&buf, "test_ms", "test histogram", snap)
	out := buf.String()
	for _, line := range []string{
		`test_ms_bucket{le="1"} 1`,
		`test_ms_bucket{le="10"} 2`,
		`test_ms_bucket{le="100"} 3`,
		`test_ms_bucket{le="+Inf"} 4`,
		`test_ms_count 4`,
	} {
		if !strings.Contains(out, line) {
			t.Errorf("expected %q in exposition:\n%s", line, out)
		}
	}
}
