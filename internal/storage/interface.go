// Package storage provides tenant storage interfaces and implementations
// for the multi-tenant callback gateway.
//
// # Interface Design
//
// The storage layer exposes one focused interface:
//
//   - [TenantStore]: tenant callback credentials and metadata
//
// The [Store] interface adds lifecycle methods (Close, Ping) for
// implementations that hold connections.
//
// # Implementations
//
// The mongodb sub-package provides a production MongoDB implementation; the
// memstore sub-package provides an in-memory snapshot store for
// single-binary deployments and tests.
//
// # Concurrency
//
// All store implementations must be safe for concurrent use from multiple
// goroutines: every in-flight callback performs a tenant lookup.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the requested tenant does not exist.
var ErrNotFound = errors.New("storage: tenant not found")

// ErrDuplicate indicates a create collided with an existing tenant id.
var ErrDuplicate = errors.New("storage: tenant already exists")

// Store is the main storage interface
type Store interface {
	TenantStore

	// Close releases storage resources
	Close(ctx context.Context) error

	// Ping checks backend connectivity
	Ping(ctx context.Context) error
}

// TenantStore manages tenant data
type TenantStore interface {
	// CreateTenant creates a new tenant
	CreateTenant(ctx context.Context, tenant *Tenant) error

	// GetTenant retrieves a tenant by ID
	GetTenant(ctx context.Context, id string) (*Tenant, error)

	// UpdateTenant updates a tenant
	UpdateTenant(ctx context.Context, tenant *Tenant) error

	// DeleteTenant deletes a tenant (soft delete)
	DeleteTenant(ctx context.Context, id string) error

	// ListTenants returns tenants matching the filter
	ListTenants(ctx context.Context, filter *TenantFilter) ([]*Tenant, error)
}

// Domain models

// Tenant is one callback endpoint: an Official Account, a corp application,
// or an ISV suite, with the credentials its envelopes are verified and
// decrypted with.
type Tenant struct {
	ID        string       `bson:"_id" json:"id"`
	Name      string       `bson:"name" json:"name"`
	Status    TenantStatus `bson:"status" json:"status"`
	CreatedAt time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updatedAt"`

	// Callback credentials
	Token          string `bson:"token" json:"token"`
	EncodingAESKey string `bson:"encoding_aes_key,omitempty" json:"encodingAESKey,omitempty"`

	// ReceiverID is the id embedded in encrypted envelopes: the OA appId,
	// corpId, or suiteId. Empty for plaintext-only tenants.
	ReceiverID string `bson:"receiver_id,omitempty" json:"receiverId,omitempty"`

	// AgentID scopes single-application Work tenants; zero otherwise.
	AgentID int64 `bson:"agent_id,omitempty" json:"agentId,omitempty"`
}

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusDeleted   TenantStatus = "deleted"
)

type TenantFilter struct {
	Status TenantStatus
	Limit  int
	Offset int
}

// Encrypted reports whether envelopes for this tenant are AES wrapped.
func (t *Tenant) Encrypted() bool {
	return t.EncodingAESKey != ""
}
