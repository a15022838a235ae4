package documents

import "context"

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetCurrentBySession(ctx context.Context, sessionID string) (Document, error)
	GetByID(ctx context.Context, sessionID, documentID string) (Document, error)
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Document, error)
}
