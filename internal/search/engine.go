package search

import (
	"context"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"docstore-backend/internal/extract"
	"docstore-backend/internal/index"
)

// Tier boosts. An exact phrase hit alone must outrank any accumulation
// of the lower tiers, since scores add across tiers for one document.
const (
	boostExactPhrase = 100.0
	boostAllTerms    = 50.0
	boostFuzzy       = 10.0
	boostAnyTerm     = 1.0

	fuzziness   = 2
	fuzzyPrefix = 1
)

// rankedFields are the fields every tier matches against.
var rankedFields = []string{"Name", "NameTokens", "Content"}

// phraseFields are the targets of the exact-phrase tier.
var phraseFields = []string{"Name", "Content"}

// Engine translates a free-text query into ranked, highlighted results.
type Engine struct {
	index *index.Client
}

// NewEngine constructs an Engine over the given index client.
func NewEngine(c *index.Client) *Engine {
	return &Engine{index: c}
}

// Result is one ranked hit.
type Result struct {
	ID           string              `json:"filename"`
	OriginalName string              `json:"originalname"`
	Size         int64               `json:"size"`
	MimeType     string              `json:"mimetype"`
	UploadDate   time.Time           `json:"uploadDate"`
	Path         string              `json:"path"`
	Score        float64             `json:"score"`
	Highlights   map[string][]string `json:"highlights,omitempty"`
}

// Search runs the tiered query and maps hits into results, descending by
// score. A blank query returns the unranked capped listing instead.
func (e *Engine) Search(ctx context.Context, rawQuery string) ([]Result, error) {
	q := strings.TrimSpace(rawQuery)

	res, err := e.index.RawSearch(ctx, buildRequest(q))
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc := index.DocumentFromHit(hit)
		r := Result{
			ID:           hit.ID,
			OriginalName: doc.Name,
			Size:         doc.Size,
			MimeType:     doc.MimeType,
			UploadDate:   doc.UploadDate,
			Path:         doc.Path,
			Score:        hit.Score,
			Highlights:   ClassifyHighlights(hit.Fragments, q),
		}
		if r.OriginalName == "" {
			r.OriginalName = hit.ID
		}
		if r.MimeType == "" {
			r.MimeType = extract.TypeForName(hit.ID)
		}
		if r.Path == "" {
			r.Path = index.RetrievalPath(hit.ID)
		}
		results = append(results, r)
	}
	return results, nil
}

// buildRequest constructs the search request: the four-tier disjunction
// with highlighting for a non-blank query, a capped match-all otherwise.
func buildRequest(q string) *bleve.SearchRequest {
	resultFields := []string{"Name", "MimeType", "Size", "UploadDate", "Path"}

	if q == "" {
		req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), index.MaxListSize, 0, false)
		req.Fields = resultFields
		return req
	}

	req := bleve.NewSearchRequestOptions(buildTieredQuery(q), index.MaxListSize, 0, false)
	req.Fields = resultFields
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Highlight.Fields = []string{"Content", "Name"}
	return req
}

// buildTieredQuery assembles the disjunction of all four tiers. At least
// one disjunct must match; matching disjuncts contribute their boosted
// scores additively.
func buildTieredQuery(q string) query.Query {
	var tiers []query.Query

	// Tier 1: exact phrase.
	for _, field := range phraseFields {
		pq := bleve.NewMatchPhraseQuery(q)
		pq.SetField(field)
		pq.SetBoost(boostExactPhrase)
		tiers = append(tiers, pq)
	}

	// Tier 2: all terms present.
	for _, field := range rankedFields {
		mq := bleve.NewMatchQuery(q)
		mq.SetField(field)
		mq.SetOperator(query.MatchQueryOperatorAnd)
		mq.SetBoost(boostAllTerms)
		tiers = append(tiers, mq)
	}

	// Tier 3: per-term fuzzy, bounded edit distance with a literal prefix.
	for _, term := range queryTerms(q) {
		for _, field := range rankedFields {
			fq := bleve.NewFuzzyQuery(term)
			fq.SetField(field)
			fq.SetFuzziness(fuzziness)
			fq.SetPrefix(fuzzyPrefix)
			fq.SetBoost(boostFuzzy)
			tiers = append(tiers, fq)
		}
	}

	// Tier 4: any term present.
	for _, field := range rankedFields {
		mq := bleve.NewMatchQuery(q)
		mq.SetField(field)
		mq.SetBoost(boostAnyTerm)
		tiers = append(tiers, mq)
	}

	dq := bleve.NewDisjunctionQuery(tiers...)
	dq.SetMin(1)
	return dq
}

func queryTerms(q string) []string {
	return strings.Fields(strings.ToLower(q))
}
