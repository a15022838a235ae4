package qa

import "context"

// Repo defines persistence operations for Q&A exchanges.
type Repo interface {
	Create(ctx context.Context, exchange Exchange) error
	ListByDocument(ctx context.Context, sessionID, documentID string) ([]Exchange, error)
}
