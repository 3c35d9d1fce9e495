// Package cache caches resolved inventory reference-record ids.
//
// Reference records (identifier schemes, instance types, instance statuses,
// loan types) are effectively immutable lookup data, so their ids are cached
// aggressively to keep materialization from hammering the inventory service.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/libsys/acquisitions/internal/domain/catalog"
)

// ReferenceCache stores resolved (kind, code) -> id mappings
type ReferenceCache interface {
	Get(ctx context.Context, kind catalog.ReferenceKind, code string) (uuid.UUID, bool)
	Set(ctx context.Context, kind catalog.ReferenceKind, code string, id uuid.UUID)
}

type memoryEntry struct {
	id        uuid.UUID
	expiresAt time.Time
}

// InMemoryReferenceCache is a process-local ReferenceCache suitable for
// single-instance deployments and testing
type InMemoryReferenceCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewInMemoryReferenceCache creates an in-memory cache with the given TTL.
// A zero TTL means entries never expire.
func NewInMemoryReferenceCache(ttl time.Duration) *InMemoryReferenceCache {
	return &InMemoryReferenceCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves a cached id
func (c *InMemoryReferenceCache) Get(_ context.Context, kind catalog.ReferenceKind, code string) (uuid.UUID, bool) {
	c.mu.RLock()
	entry, ok := c.entries[referenceKey(kind, code)]
	c.mu.RUnlock()
	if !ok {
		return uuid.Nil, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, referenceKey(kind, code))
		c.mu.Unlock()
		return uuid.Nil, false
	}
	return entry.id, true
}

// Set stores a resolved id
func (c *InMemoryReferenceCache) Set(_ context.Context, kind catalog.ReferenceKind, code string, id uuid.UUID) {
	entry := memoryEntry{id: id}
	if c.ttl > 0 {
		entry.expiresAt = time.Now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[referenceKey(kind, code)] = entry
	c.mu.Unlock()
}

func referenceKey(kind catalog.ReferenceKind, code string) string {
	return "acq:ref:" + string(kind) + ":" + code
}
