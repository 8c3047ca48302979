// Package memstore provides in-memory repository implementations used in
// tests and local development.
package memstore

import (
	"context"
	"sort"
	"sync"

	"yaplog-backend/application/ports"
	"yaplog-backend/domain/journal"
	pkgerrors "yaplog-backend/pkg/errors"
)

// MemoryRepository is a thread-safe in-memory ports.MemoryRepository.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]*journal.Memory
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]*journal.Memory)}
}

// Insert stores a new memory entry.
func (r *MemoryRepository) Insert(_ context.Context, memory *journal.Memory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[memory.ID()]; exists {
		return pkgerrors.NewConflictError("memory already exists")
	}
	r.entries[memory.ID()] = memory
	return nil
}

// FindByOwner returns all of an owner's memories, newest first.
func (r *MemoryRepository) FindByOwner(_ context.Context, ownerID string) ([]*journal.Memory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*journal.Memory
	for _, m := range r.entries {
		if m.OwnerID() == ownerID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

// FindUnprocessed returns up to limit memories without a digest, oldest
// first so backlogs drain in order.
func (r *MemoryRepository) FindUnprocessed(_ context.Context, limit int) ([]*journal.Memory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*journal.Memory
	for _, m := range r.entries {
		if !m.Processed() {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ApplyDigest attaches a digest to a stored memory exactly once.
func (r *MemoryRepository) ApplyDigest(_ context.Context, memory *journal.Memory, digest *journal.Digest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.entries[memory.ID()]
	if !ok {
		return pkgerrors.NewNotFoundError("memory")
	}
	return stored.ApplyDigest(digest)
}

var _ ports.MemoryRepository = (*MemoryRepository)(nil)
