// Package memstore implements the tenant store in memory for single-binary
// deployments and tests.
//
// Writes publish a whole new snapshot through an atomic pointer swap; a
// lookup never observes a half-applied change, and callback requests read
// without taking any lock.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rwsbillyang/go-weixin-gateway/internal/storage"
)

type snapshot struct {
	tenants map[string]*storage.Tenant
}

// Store implements storage.Store with an in-memory snapshot.
type Store struct {
	// writeMu serializes writers; readers go straight to the snapshot.
	writeMu sync.Mutex
	current atomic.Pointer[snapshot]
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&snapshot{tenants: map[string]*storage.Tenant{}})
	return s
}

// Replace swaps in a complete new tenant set, for administrative reload.
func (s *Store) Replace(tenants []*storage.Tenant) {
	next := &snapshot{tenants: make(map[string]*storage.Tenant, len(tenants))}
	now := time.Now()
	for _, t := range tenants {
		c := *t
		if c.Status == "" {
			c.Status = storage.TenantStatusActive
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		c.UpdatedAt = now
		next.tenants[c.ID] = &c
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.current.Store(next)
}

// mutate copies the current snapshot, applies fn, and publishes the result.
func (s *Store) mutate(fn func(tenants map[string]*storage.Tenant) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.current.Load()
	next := &snapshot{tenants: make(map[string]*storage.Tenant, len(cur.tenants)+1)}
	for id, t := range cur.tenants {
		next.tenants[id] = t
	}
	if err := fn(next.tenants); err != nil {
		return err
	}
	s.current.Store(next)
	return nil
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) CreateTenant(_ context.Context, tenant *storage.Tenant) error {
	if tenant.ID == "" {
		return fmt.Errorf("memstore: tenant id is required")
	}
	return s.mutate(func(tenants map[string]*storage.Tenant) error {
		if _, exists := tenants[tenant.ID]; exists {
			return fmt.Errorf("%w: %s", storage.ErrDuplicate, tenant.ID)
		}
		c := *tenant
		c.CreatedAt = time.Now()
		c.UpdatedAt = c.CreatedAt
		if c.Status == "" {
			c.Status = storage.TenantStatusActive
		}
		tenants[c.ID] = &c
		return nil
	})
}

func (s *Store) GetTenant(_ context.Context, id string) (*storage.Tenant, error) {
	t, ok := s.current.Load().tenants[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (s *Store) UpdateTenant(_ context.Context, tenant *storage.Tenant) error {
	return s.mutate(func(tenants map[string]*storage.Tenant) error {
		old, ok := tenants[tenant.ID]
		if !ok {
			return storage.ErrNotFound
		}
		c := *tenant
		c.CreatedAt = old.CreatedAt
		c.UpdatedAt = time.Now()
		tenants[c.ID] = &c
		return nil
	})
}

func (s *Store) DeleteTenant(_ context.Context, id string) error {
	return s.mutate(func(tenants map[string]*storage.Tenant) error {
		old, ok := tenants[id]
		if !ok {
			return storage.ErrNotFound
		}
		c := *old
		c.Status = storage.TenantStatusDeleted
		c.UpdatedAt = time.Now()
		tenants[id] = &c
		return nil
	})
}

func (s *Store) ListTenants(_ context.Context, filter *storage.TenantFilter) ([]*storage.Tenant, error) {
	cur := s.current.Load()

	var out []*storage.Tenant
	for _, t := range cur.tenants {
		if filter != nil && filter.Status != "" && t.Status != filter.Status {
			continue
		}
		c := *t
		out = append(out, &c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	// Offset/limit after the filter, matching the mongodb backend.
	if filter != nil && filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter != nil && filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
