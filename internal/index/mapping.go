package index

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping defines the index schema. Name and Content use the
// standard analyzer (no stemming), so phrase queries match literally.
// NameTokens carries filename variants generated by expandNameTokens and
// exists only to be matched, never returned.
func buildIndexMapping() mapping.IndexMapping {
	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name

	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = standard.Name

	tokensField := bleve.NewTextFieldMapping()
	tokensField.Analyzer = standard.Name
	tokensField.Store = false
	tokensField.IncludeInAll = false

	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = standard.Name

	mimeField := bleve.NewTextFieldMapping()
	mimeField.Analyzer = keyword.Name
	mimeField.IncludeInAll = false

	pathField := bleve.NewTextFieldMapping()
	pathField.Analyzer = keyword.Name
	pathField.Index = false
	pathField.IncludeInAll = false

	sizeField := bleve.NewNumericFieldMapping()
	sizeField.IncludeInAll = false

	dateField := bleve.NewDateTimeFieldMapping()
	dateField.IncludeInAll = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("ID", idField)
	docMapping.AddFieldMappingsAt("Name", nameField)
	docMapping.AddFieldMappingsAt("NameTokens", tokensField)
	docMapping.AddFieldMappingsAt("Content", contentField)
	docMapping.AddFieldMappingsAt("MimeType", mimeField)
	docMapping.AddFieldMappingsAt("Path", pathField)
	docMapping.AddFieldMappingsAt("Size", sizeField)
	docMapping.AddFieldMappingsAt("UploadDate", dateField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// expandNameTokens generates search variants for filename-like values:
// the delimiter/case-split parts, the parts with delimiters collapsed,
// and the sub-words at case and letter/digit transitions. "abc-123.pdf"
// therefore matches "abc", "123", "abc123", and "pdf".
func expandNameTokens(names ...string) string {
	seen := make(map[string]struct{})
	var out []string
	add := func(tok string) {
		tok = strings.ToLower(tok)
		if tok == "" {
			return
		}
		if _, ok := seen[tok]; ok {
			return
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}

	split := func(s string) []string {
		return strings.FieldsFunc(s, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
	}

	for _, name := range names {
		parts := split(name)
		for _, part := range parts {
			add(part)
			for _, sub := range splitTransitions(part) {
				add(sub)
			}
		}
		add(strings.Join(parts, ""))
		if base := strings.TrimSuffix(name, filepath.Ext(name)); base != name {
			add(strings.Join(split(base), ""))
		}
	}
	return strings.Join(out, " ")
}

// splitTransitions breaks a token at lower-to-upper case changes and at
// letter/digit boundaries.
func splitTransitions(s string) []string {
	runes := []rune(s)
	var subs []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := (unicode.IsLower(prev) && unicode.IsUpper(cur)) ||
			(unicode.IsLetter(prev) && unicode.IsDigit(cur)) ||
			(unicode.IsDigit(prev) && unicode.IsLetter(cur))
		if boundary {
			subs = append(subs, string(runes[start:i]))
			start = i
		}
	}
	if start == 0 {
		return nil
	}
	subs = append(subs, string(runes[start:]))
	return subs
}
