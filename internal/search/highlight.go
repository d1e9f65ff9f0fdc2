package search

import "strings"

// The index engine wraps every matched span in a generic marker. The
// classifier re-labels each span as exact or fuzzy relative to the query
// terms, independent of the tier that retrieved the document.
const (
	markOpen  = "<mark>"
	markClose = "</mark>"

	exactOpen = `<mark class="exact">`
	fuzzyOpen = `<mark class="fuzzy">`
)

// SpanKind tags one piece of a highlight fragment.
type SpanKind int

const (
	// SpanPlain is unhighlighted surrounding text.
	SpanPlain SpanKind = iota
	// SpanExact is a highlighted span equal to a query term or the query.
	SpanExact
	// SpanFuzzy is a highlighted span that only approximates the query.
	SpanFuzzy
)

// Span is one classified piece of a highlight fragment.
type Span struct {
	Kind SpanKind
	Text string
}

// ClassifyHighlights re-labels every fragment's spans. An empty query
// applies no classification; fragments pass through unmodified.
func ClassifyHighlights(fragments map[string][]string, rawQuery string) map[string][]string {
	if len(fragments) == 0 {
		return nil
	}
	if strings.TrimSpace(rawQuery) == "" {
		return fragments
	}
	out := make(map[string][]string, len(fragments))
	for field, frags := range fragments {
		labeled := make([]string, 0, len(frags))
		for _, frag := range frags {
			labeled = append(labeled, RenderSpans(ClassifyFragment(frag, rawQuery)))
		}
		out[field] = labeled
	}
	return out
}

// ClassifyFragment splits a marker-wrapped fragment into tagged spans.
// A span is exact when its inner text, stripped of nested markup and
// lowercased, equals one of the query terms or the full trimmed query;
// otherwise it is fuzzy. Original casing is preserved.
func ClassifyFragment(fragment, rawQuery string) []Span {
	trimmed := strings.ToLower(strings.TrimSpace(rawQuery))
	terms := strings.Fields(trimmed)

	var spans []Span
	rest := fragment
	for {
		start := strings.Index(rest, markOpen)
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+len(markOpen):], markClose)
		if end < 0 {
			break
		}
		if start > 0 {
			spans = append(spans, Span{Kind: SpanPlain, Text: rest[:start]})
		}
		inner := rest[start+len(markOpen) : start+len(markOpen)+end]
		spans = append(spans, Span{Kind: classifySpan(inner, trimmed, terms), Text: stripTags(inner)})
		rest = rest[start+len(markOpen)+end+len(markClose):]
	}
	if rest != "" {
		spans = append(spans, Span{Kind: SpanPlain, Text: rest})
	}
	return spans
}

// RenderSpans serializes classified spans back into marked-up text.
func RenderSpans(spans []Span) string {
	var buf strings.Builder
	for _, span := range spans {
		switch span.Kind {
		case SpanExact:
			buf.WriteString(exactOpen)
			buf.WriteString(span.Text)
			buf.WriteString(markClose)
		case SpanFuzzy:
			buf.WriteString(fuzzyOpen)
			buf.WriteString(span.Text)
			buf.WriteString(markClose)
		default:
			buf.WriteString(span.Text)
		}
	}
	return buf.String()
}

func classifySpan(inner, fullQuery string, terms []string) SpanKind {
	text := strings.ToLower(stripTags(inner))
	if text == fullQuery {
		return SpanExact
	}
	for _, term := range terms {
		if text == term {
			return SpanExact
		}
	}
	return SpanFuzzy
}

// stripTags removes any nested markup from a highlighted span.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var buf strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
