package memory

import (
	"context"
	"sort"
	"sync"

	"jnbvisualizer/apperr"
	"jnbvisualizer/core"
)

// Store keeps proof records in a map guarded by a RWMutex.
type Store struct {
	mu     sync.RWMutex
	proofs map[string]*core.ProofRecord
}

// NewStore creates a new in-memory proof store. Used by tests and for
// throwaway runs; nothing survives a restart.
func NewStore() *Store {
	return &Store{
		proofs: make(map[string]*core.ProofRecord),
	}
}

func (s *Store) Insert(ctx context.Context, proof *core.ProofRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *proof
	s.proofs[proof.ProofID] = &cp
	return nil
}

func (s *Store) Find(ctx context.Context, proofID string) (*core.ProofRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proofs[proofID]
	if !ok {
		return nil, apperr.NewNotFound("proof not found")
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]*core.ProofRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.ProofRecord, 0, len(s.proofs))
	for _, p := range s.proofs {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedUTC.After(out[j].CreatedUTC)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
