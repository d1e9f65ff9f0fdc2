package documents

import (
	"testing"
	"time"

	"docstore-backend/internal/search"
)

func TestSearchFilesToResponsesKeepsScoreAndHighlights(t *testing.T) {
	results := []search.Result{
		{
			ID:           "report.pdf",
			OriginalName: "report.pdf",
			Size:         42,
			MimeType:     "application/pdf",
			UploadDate:   time.Now().UTC(),
			Path:         "/files/raw/report.pdf",
			Score:        3.5,
			Highlights: map[string][]string{
				"Content": {`the <mark class="exact">report</mark>`},
			},
		},
	}

	out := searchFilesToResponses(results)
	if len(out) != 1 {
		t.Fatalf("expected 1 response, got %d", len(out))
	}
	r := out[0]
	if r.Filename != "report.pdf" || r.Path != "/files/raw/report.pdf" {
		t.Fatalf("unexpected response %+v", r)
	}
	if r.Score != 3.5 {
		t.Fatalf("expected score carried through, got %f", r.Score)
	}
	frags := r.Highlights["Content"]
	if len(frags) != 1 || frags[0] != `the <mark class="exact">report</mark>` {
		t.Fatalf("expected highlights carried through, got %+v", r.Highlights)
	}
}

func TestToResponseContentLength(t *testing.T) {
	doc := Document{
		ID:           "a.pdf",
		OriginalName: "a.pdf",
		Content:      "hello",
	}
	if got := toResponse(doc).ContentLength; got != 5 {
		t.Fatalf("expected contentLength 5, got %d", got)
	}
}
