package analyses

import "context"

// Repo defines persistence operations for analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, sessionID, analysisID string) (Analysis, error)
	GetLatestByDocument(ctx context.Context, sessionID, documentID string) (Analysis, error)
}
