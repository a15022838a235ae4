package documents

import "time"

// Document represents an uploaded document owned by a session.
type Document struct {
	ID               string
	SessionID        string
	FileName         string
	MimeType         string
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	ExtractedTextKey string
	TableCount       int
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}
