package documents

import "time"

// Document is the unit of storage and indexing. ID equals the stored
// filename and is the index's primary key; OriginalName is the name the
// user supplied at upload time, which can differ after a collision
// rename.
type Document struct {
	ID           string
	OriginalName string
	Content      string
	MimeType     string
	Size         int64
	UploadDate   time.Time
	Path         string
}
