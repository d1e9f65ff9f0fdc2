package documents

import "time"

// FileResponse is the outward-facing representation of a stored document.
// Score and Highlights are only present on ranked listings.
type FileResponse struct {
	Filename      string              `json:"filename"`
	OriginalName  string              `json:"originalname"`
	Size          int64               `json:"size"`
	MimeType      string              `json:"mimetype"`
	UploadDate    time.Time           `json:"uploadDate"`
	Path          string              `json:"path"`
	ContentLength int                 `json:"contentLength"`
	Score         float64             `json:"score,omitempty"`
	Highlights    map[string][]string `json:"highlights,omitempty"`
}

// ListResponse wraps the file listing.
type ListResponse struct {
	Files []FileResponse `json:"files"`
}

// UploadResponse wraps the stored file for the upload endpoint.
type UploadResponse struct {
	Message string       `json:"message"`
	File    FileResponse `json:"file"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

func toResponse(doc Document) FileResponse {
	return FileResponse{
		Filename:      doc.ID,
		OriginalName:  doc.OriginalName,
		Size:          doc.Size,
		MimeType:      doc.MimeType,
		UploadDate:    doc.UploadDate,
		Path:          doc.Path,
		ContentLength: len(doc.Content),
	}
}

func toResponses(docs []Document) []FileResponse {
	out := make([]FileResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toResponse(doc))
	}
	return out
}
