package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory Repo used in development and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	entries []CaseStudy
}

// NewMemoryRepo builds a MemoryRepo seeded with the given case studies.
func NewMemoryRepo(seed []CaseStudy) *MemoryRepo {
	r := &MemoryRepo{}
	for _, cs := range seed {
		if cs.ID == "" {
			cs.ID = uuid.NewString()
		}
		r.entries = append(r.entries, cs)
	}
	return r
}

func (r *MemoryRepo) List(ctx context.Context) ([]CaseStudy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CaseStudy, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *MemoryRepo) FindByName(ctx context.Context, name string) (CaseStudy, error) {
	if err := ctx.Err(); err != nil {
		return CaseStudy{}, err
	}
	want := NormalizeName(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cs := range r.entries {
		if NormalizeName(cs.DeckName) == want {
			return cs, nil
		}
	}
	return CaseStudy{}, ErrNotFound
}

func (r *MemoryRepo) Create(ctx context.Context, cs CaseStudy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	want := NormalizeName(cs.DeckName)
	for _, existing := range r.entries {
		if NormalizeName(existing.DeckName) == want {
			return ErrAlreadyExists
		}
	}
	if cs.ID == "" {
		cs.ID = uuid.NewString()
	}
	r.entries = append(r.entries, cs)
	return nil
}
