package analyses

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data []Analysis
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create appends an analysis.
func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, analysis)
	return nil
}

// GetByID returns an analysis by ID, scoped to the session.
func (r *MemoryRepo) GetByID(ctx context.Context, sessionID, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.data {
		if r.data[i].ID == analysisID && r.data[i].SessionID == sessionID {
			return r.data[i], nil
		}
	}
	return Analysis{}, ErrNotFound
}

// GetLatestByDocument returns the most recent analysis for a document.
func (r *MemoryRepo) GetLatestByDocument(ctx context.Context, sessionID, documentID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.data) - 1; i >= 0; i-- {
		if r.data[i].DocumentID == documentID && r.data[i].SessionID == sessionID {
			return r.data[i], nil
		}
	}
	return Analysis{}, ErrNotFound
}
