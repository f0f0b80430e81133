package payment

import (
	"context"
	"sync"
)

// Repository stores settled payments.
type Repository interface {
	Save(ctx context.Context, p *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	List(ctx context.Context) ([]*Payment, error)
}

// memoryRepository keeps payments in insertion order for the lifetime of
// the process. Restarts drop the ledger; the visit store remains the
// durable record of what was paid.
type memoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*Payment
	all  []*Payment
}

func NewMemoryRepository() Repository {
	return &memoryRepository{byID: make(map[string]*Payment)}
}

func (r *memoryRepository) Save(_ context.Context, p *Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.byID[cp.ID] = &cp
	r.all = append(r.all, &cp)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (*Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryRepository) List(_ context.Context) ([]*Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Payment, 0, len(r.all))
	for _, p := range r.all {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}
