package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	bsearch "github.com/blevesearch/bleve/v2/search"

	"docstore-backend/internal/extract"
)

// MaxListSize caps unranked listings. Documents beyond the cap are not
// returned, which is acceptable at this system's expected scale.
const MaxListSize = 1000

// ErrUnavailable is returned when the index could not be opened and the
// service is running in storage-only mode.
var ErrUnavailable = errors.New("search index unavailable")

// Document is the indexed representation of a stored file. ID doubles as
// the stored filename and the index key.
type Document struct {
	ID         string
	Name       string
	NameTokens string
	Content    string
	MimeType   string
	Size       int64
	UploadDate time.Time
	Path       string
}

// NewDocument builds an index document from filesystem-level facts,
// deriving MimeType and Path from the id.
func NewDocument(id, originalName, content string, size int64, uploadDate time.Time) Document {
	return Document{
		ID:         id,
		Name:       originalName,
		Content:    content,
		MimeType:   extract.TypeForName(id),
		Size:       size,
		UploadDate: uploadDate,
		Path:       RetrievalPath(id),
	}
}

// RetrievalPath is the canonical download path for a stored filename.
func RetrievalPath(id string) string {
	return "/files/raw/" + id
}

// Client owns the bleve index handle. It is safe for concurrent use; a
// nil handle means the index is unavailable and every operation except
// EnsureIndex and Ping reports ErrUnavailable.
type Client struct {
	mu   sync.Mutex
	path string
	idx  bleve.Index
}

// New constructs a Client for the index at path. Call EnsureIndex before
// any other operation.
func New(path string) *Client {
	return &Client{path: path}
}

// EnsureIndex opens the index, creating it with the schema mapping when
// absent. It is idempotent and safe to call concurrently.
func (c *Client) EnsureIndex() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idx != nil {
		return nil
	}

	idx, err := bleve.Open(c.path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(c.path, buildIndexMapping())
		if err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("open index: %w", err)
	}

	c.idx = idx
	return nil
}

// Available reports whether the index handle is open.
func (c *Client) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idx != nil
}

func (c *Client) handle() (bleve.Index, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idx == nil {
		return nil, ErrUnavailable
	}
	return c.idx, nil
}

// Upsert inserts or fully replaces the document keyed by its ID. Writes
// may not be visible to searches immediately.
func (c *Client) Upsert(ctx context.Context, doc Document) error {
	idx, err := c.handle()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	doc.NameTokens = expandNameTokens(doc.ID, doc.Name)
	if err := idx.Index(doc.ID, doc); err != nil {
		return fmt.Errorf("index %s: %w", doc.ID, err)
	}
	return nil
}

// Delete removes a document by key. Deleting an unknown key is a no-op,
// so speculative cleanup deletes always succeed.
func (c *Client) Delete(ctx context.Context, id string) error {
	idx, err := c.handle()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := idx.Delete(id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// Rebuild drops the entire index and recreates it empty. Used only by
// the maintenance rebuild path; any failure is fatal to that operation.
func (c *Client) Rebuild() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idx != nil {
		if err := c.idx.Close(); err != nil {
			return fmt.Errorf("close index: %w", err)
		}
		c.idx = nil
	}
	if err := os.RemoveAll(c.path); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}
	idx, err := bleve.New(c.path, buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	c.idx = idx
	return nil
}

// RawSearch executes a prebuilt search request.
func (c *Client) RawSearch(ctx context.Context, req *bleve.SearchRequest) (*bleve.SearchResult, error) {
	idx, err := c.handle()
	if err != nil {
		return nil, err
	}
	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return res, nil
}

// ListAll returns every indexed document's key and minimal fields,
// capped at MaxListSize. Content is not loaded.
func (c *Client) ListAll(ctx context.Context) ([]Document, error) {
	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), MaxListSize, 0, false)
	req.Fields = []string{"Name", "MimeType", "Size", "UploadDate", "Path"}

	res, err := c.RawSearch(ctx, req)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(res.Hits))
	for _, hit := range res.Hits {
		docs = append(docs, DocumentFromHit(hit))
	}
	return docs, nil
}

// Ping reports index liveness. It never returns an error.
func (c *Client) Ping() bool {
	idx, err := c.handle()
	if err != nil {
		return false
	}
	if _, err := idx.DocCount(); err != nil {
		return false
	}
	return true
}

// Count returns the number of indexed documents.
func (c *Client) Count() (uint64, error) {
	idx, err := c.handle()
	if err != nil {
		return 0, err
	}
	return idx.DocCount()
}

// Close releases the index handle.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idx == nil {
		return nil
	}
	err := c.idx.Close()
	c.idx = nil
	return err
}

// DocumentFromHit reconstructs the stored fields of a search hit.
// Numeric fields arrive as float64 and datetimes as RFC 3339 strings.
func DocumentFromHit(hit *bsearch.DocumentMatch) Document {
	doc := Document{ID: hit.ID}
	if name, ok := hit.Fields["Name"].(string); ok {
		doc.Name = name
	}
	if mime, ok := hit.Fields["MimeType"].(string); ok {
		doc.MimeType = mime
	}
	if size, ok := hit.Fields["Size"].(float64); ok {
		doc.Size = int64(size)
	}
	if raw, ok := hit.Fields["UploadDate"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			doc.UploadDate = parsed
		}
	}
	if path, ok := hit.Fields["Path"].(string); ok {
		doc.Path = path
	}
	return doc
}
