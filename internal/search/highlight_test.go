package search

import (
	"strings"
	"testing"
)

func TestClassifyFragmentExactVsFuzzy(t *testing.T) {
	cases := []struct {
		name     string
		fragment string
		query    string
		want     []Span
	}{
		{
			name:     "exact term",
			fragment: "annual <mark>report</mark> summary",
			query:    "report",
			want: []Span{
				{Kind: SpanPlain, Text: "annual "},
				{Kind: SpanExact, Text: "report"},
				{Kind: SpanPlain, Text: " summary"},
			},
		},
		{
			name:     "plural is fuzzy",
			fragment: "all <mark>reports</mark> filed",
			query:    "report",
			want: []Span{
				{Kind: SpanPlain, Text: "all "},
				{Kind: SpanFuzzy, Text: "reports"},
				{Kind: SpanPlain, Text: " filed"},
			},
		},
		{
			name:     "typo is fuzzy",
			fragment: "<mark>repot</mark>",
			query:    "report",
			want: []Span{
				{Kind: SpanFuzzy, Text: "repot"},
			},
		},
		{
			name:     "casing preserved, matched case-insensitively",
			fragment: "<mark>Report</mark>",
			query:    "report",
			want: []Span{
				{Kind: SpanExact, Text: "Report"},
			},
		},
		{
			name:     "full query phrase is exact",
			fragment: "<mark>quarterly report</mark>",
			query:    "quarterly report",
			want: []Span{
				{Kind: SpanExact, Text: "quarterly report"},
			},
		},
		{
			name:     "mixed spans in one fragment",
			fragment: "the <mark>report</mark> and the <mark>repot</mark>",
			query:    "report",
			want: []Span{
				{Kind: SpanPlain, Text: "the "},
				{Kind: SpanExact, Text: "report"},
				{Kind: SpanPlain, Text: " and the "},
				{Kind: SpanFuzzy, Text: "repot"},
			},
		},
		{
			name:     "nested markup stripped before comparison",
			fragment: "<mark>re<b>port</b></mark>",
			query:    "report",
			want: []Span{
				{Kind: SpanExact, Text: "report"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyFragment(tc.fragment, tc.query)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d spans %+v, want %d", len(got), got, len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("span %d: got %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestRenderSpans(t *testing.T) {
	spans := []Span{
		{Kind: SpanPlain, Text: "see "},
		{Kind: SpanExact, Text: "report"},
		{Kind: SpanPlain, Text: " vs "},
		{Kind: SpanFuzzy, Text: "repot"},
	}
	got := RenderSpans(spans)
	want := `see <mark class="exact">report</mark> vs <mark class="fuzzy">repot</mark>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestClassifyHighlightsEmptyQueryPassesThrough(t *testing.T) {
	in := map[string][]string{"Content": {"a <mark>b</mark> c"}}
	got := ClassifyHighlights(in, "   ")
	if len(got) != 1 || got["Content"][0] != "a <mark>b</mark> c" {
		t.Fatalf("expected passthrough, got %+v", got)
	}
}

func TestClassifyHighlightsRelabels(t *testing.T) {
	in := map[string][]string{
		"Content": {"the <mark>report</mark> and <mark>reports</mark>"},
	}
	got := ClassifyHighlights(in, "report")
	frag := got["Content"][0]
	if !strings.Contains(frag, `<mark class="exact">report</mark>`) {
		t.Errorf("expected exact label, got %q", frag)
	}
	if !strings.Contains(frag, `<mark class="fuzzy">reports</mark>`) {
		t.Errorf("expected fuzzy label, got %q", frag)
	}
}
