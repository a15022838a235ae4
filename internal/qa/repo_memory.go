package qa

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data []Exchange
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create appends an exchange.
func (r *MemoryRepo) Create(ctx context.Context, exchange Exchange) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, exchange)
	return nil
}

// ListByDocument returns exchanges for a document in ask order.
func (r *MemoryRepo) ListByDocument(ctx context.Context, sessionID, documentID string) ([]Exchange, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Exchange{}
	for i := range r.data {
		if r.data[i].SessionID == sessionID && r.data[i].DocumentID == documentID {
			out = append(out, r.data[i])
		}
	}
	return out, nil
}
