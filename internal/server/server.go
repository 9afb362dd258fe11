// Package server provides the HTTP server for the multi-tenant callback
// gateway.
//
// The server exposes three surfaces:
//
// # Callback Endpoint
//
//   - GET  /callback/{tenantID} - Vendor URL verification handshake
//   - POST /callback/{tenantID} - Inbound message/event delivery
//
// Authentication is the vendor's own signature scheme; these routes carry
// no other auth. Both always answer 200: failures produce an empty body so
// no detail about the tenant's configuration leaks.
//
// # Tenant Management API (admin-only, X-Admin-Key header)
//
//   - GET    /admin/tenants            - List tenants
//   - POST   /admin/tenants            - Create tenant
//   - GET    /admin/tenants/{tenantID} - Get tenant details
//   - PUT    /admin/tenants/{tenantID} - Update tenant
//   - DELETE /admin/tenants/{tenantID} - Deactivate tenant (soft delete)
//
// # Health
//
//   - GET /health - Liveness probe
//   - GET /ready  - Readiness probe (storage ping)
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rwsbillyang/go-weixin-gateway/internal/config"
	"github.com/rwsbillyang/go-weixin-gateway/internal/storage"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/gateway"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/reliability"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/wxcrypt"
)

// Server is the multi-tenant callback gateway HTTP server
type Server struct {
	config  *config.Config
	logger  *slog.Logger
	httpSrv *http.Server
	store   storage.Store
	gateway *gateway.Gateway
	deduper *reliability.Deduper
	cron    *cron.Cron
}

// New creates a new gateway server. handler receives message/event
// callbacks; suiteHandler receives provider lifecycle notifications and may
// be nil for non-ISV platforms.
func New(cfg *config.Config, store storage.Store, handler, suiteHandler any, logger *slog.Logger) (*Server, error) {
	s := &Server{
		config:  cfg,
		logger:  logger,
		store:   store,
		deduper: reliability.NewDeduper(cfg.Dedup.Window),
	}

	platform, err := platformFor(cfg.Platform.Name)
	if err != nil {
		return nil, err
	}

	opts := []gateway.Option{gateway.WithLogger(logger)}
	if suiteHandler != nil {
		opts = append(opts, gateway.WithSuiteHandler(suiteHandler))
	}
	if cfg.Platform.DefaultTenant != "" {
		opts = append(opts, gateway.WithDefaultTenant(cfg.Platform.DefaultTenant))
	}
	s.gateway = gateway.New(platform, &tenantAdapter{store: store}, handler, opts...)

	// Periodic sweep keeps the dedup window bounded.
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(cfg.Dedup.SweepSchedule, func() {
		removed := s.deduper.Sweep(time.Now())
		if removed > 0 {
			logger.Debug("dedup window swept", "removed", removed)
		}
	}); err != nil {
		return nil, fmt.Errorf("scheduling dedup sweep: %w", err)
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpSrv = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

func platformFor(name string) (gateway.Platform, error) {
	switch name {
	case "oa":
		return gateway.OfficialAccount(), nil
	case "work":
		return gateway.Work(), nil
	case "work-isv":
		return gateway.WorkISV(), nil
	default:
		return gateway.Platform{}, fmt.Errorf("unknown platform %q", name)
	}
}

// Deduper exposes the shared duplicate-detection window so handler
// implementations can drop vendor redeliveries.
func (s *Server) Deduper() *reliability.Deduper {
	return s.deduper
}

// Start begins listening on the specified address
func (s *Server) Start(addr string) error {
	s.cron.Start()
	s.httpSrv.Addr = addr
	s.logger.Info("starting server", "addr", addr, "platform", s.config.Platform.Name, "tls", s.config.Server.TLS.Enabled)
	if s.config.Server.TLS.Enabled {
		return s.httpSrv.ListenAndServeTLS(
			s.config.Server.TLS.CertFile,
			s.config.Server.TLS.KeyFile,
		)
	}
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.cron.Stop()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return err
	}
	if s.store != nil {
		return s.store.Close(ctx)
	}
	return nil
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	basePath := strings.TrimSuffix(s.config.Server.BasePath, "/")
	if basePath == "" {
		basePath = "/callback"
	}

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)

	// Callback endpoints (vendor signature is the only auth)
	mux.Handle("GET "+basePath+"/{tenantID}", s.gateway)
	mux.Handle("POST "+basePath+"/{tenantID}", s.gateway)

	// Tenant management API (admin-only)
	mux.HandleFunc("GET /admin/tenants", s.withAdmin(s.handleListTenants))
	mux.HandleFunc("POST /admin/tenants", s.withAdmin(s.handleCreateTenant))
	mux.HandleFunc("GET /admin/tenants/{tenantID}", s.withAdmin(s.handleGetTenant))
	mux.HandleFunc("PUT /admin/tenants/{tenantID}", s.withAdmin(s.handleUpdateTenant))
	mux.HandleFunc("DELETE /admin/tenants/{tenantID}", s.withAdmin(s.handleDeleteTenant))
}

// tenantAdapter bridges the storage layer to the gateway's config lookup,
// building the tenant's codec and filtering out inactive tenants.
type tenantAdapter struct {
	store storage.TenantStore
}

func (a *tenantAdapter) Tenant(ctx context.Context, tenantID string) (*gateway.TenantConfig, error) {
	t, err := a.store.GetTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, gateway.ErrTenantNotFound
		}
		return nil, err
	}
	if t.Status != storage.TenantStatusActive {
		return nil, gateway.ErrTenantNotFound
	}

	cfg := &gateway.TenantConfig{ID: t.ID, Token: t.Token}
	if t.Encrypted() {
		codec, err := wxcrypt.New(t.EncodingAESKey, t.ReceiverID)
		if err != nil {
			return nil, fmt.Errorf("tenant %s aes key: %w", t.ID, err)
		}
		cfg.Codec = codec
	}
	return cfg, nil
}

// Middleware

func (s *Server) withAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Check for admin API key in header
		apiKey := r.Header.Get("X-Admin-Key")
		if s.config.Server.AdminKey == "" || apiKey != s.config.Server.AdminKey {
			s.jsonError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.jsonError(w, "storage not ready", http.StatusServiceUnavailable)
		return
	}
	s.jsonResponse(w, map[string]string{"status": "ready"}, http.StatusOK)
}

// Admin handlers

func (s *Server) handleListTenants(w http.ResponseWriter, r *http.Request) {
	filter := &storage.TenantFilter{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = storage.TenantStatus(status)
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	tenants, err := s.store.ListTenants(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list tenants", "error", err)
		s.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.jsonResponse(w, map[string]interface{}{
		"tenants": redactAll(tenants),
		"total":   len(tenants),
	}, http.StatusOK)
}

func (s *Server) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		s.jsonError(w, "id is required", http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		s.jsonError(w, "token is required", http.StatusBadRequest)
		return
	}
	if req.EncodingAESKey != "" && len(req.EncodingAESKey) != 43 {
		s.jsonError(w, "encodingAESKey must be 43 characters", http.StatusBadRequest)
		return
	}
	if req.EncodingAESKey != "" && req.ReceiverID == "" {
		s.jsonError(w, "receiverId is required for encrypted tenants", http.StatusBadRequest)
		return
	}

	tenant := &storage.Tenant{
		ID:             req.ID,
		Name:           req.Name,
		Token:          req.Token,
		EncodingAESKey: req.EncodingAESKey,
		ReceiverID:     req.ReceiverID,
		AgentID:        req.AgentID,
		Status:         storage.TenantStatusActive,
	}

	if err := s.store.CreateTenant(r.Context(), tenant); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			s.jsonError(w, "tenant already exists", http.StatusConflict)
			return
		}
		s.logger.Error("failed to create tenant", "error", err)
		s.jsonError(w, "failed to create tenant", http.StatusInternalServerError)
		return
	}

	s.jsonResponse(w, redact(tenant), http.StatusCreated)
}

func (s *Server) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := r.PathValue("tenantID")

	tenant, err := s.store.GetTenant(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.jsonError(w, "tenant not found", http.StatusNotFound)
			return
		}
		s.logger.Error("failed to get tenant", "error", err)
		s.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.jsonResponse(w, redact(tenant), http.StatusOK)
}

func (s *Server) handleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := r.PathValue("tenantID")

	tenant, err := s.store.GetTenant(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.jsonError(w, "tenant not found", http.StatusNotFound)
			return
		}
		s.logger.Error("failed to get tenant", "error", err)
		s.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	var req UpdateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name != "" {
		tenant.Name = req.Name
	}
	if req.Token != "" {
		tenant.Token = req.Token
	}
	if req.EncodingAESKey != "" {
		if len(req.EncodingAESKey) != 43 {
			s.jsonError(w, "encodingAESKey must be 43 characters", http.StatusBadRequest)
			return
		}
		tenant.EncodingAESKey = req.EncodingAESKey
	}
	if req.ReceiverID != "" {
		tenant.ReceiverID = req.ReceiverID
	}
	if req.Status != "" {
		tenant.Status = storage.TenantStatus(req.Status)
	}

	if err := s.store.UpdateTenant(r.Context(), tenant); err != nil {
		s.logger.Error("failed to update tenant", "error", err)
		s.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.jsonResponse(w, redact(tenant), http.StatusOK)
}

func (s *Server) handleDeleteTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := r.PathValue("tenantID")

	if err := s.store.DeleteTenant(r.Context(), tenantID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.jsonError(w, "tenant not found", http.StatusNotFound)
			return
		}
		s.logger.Error("failed to delete tenant", "error", err)
		s.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Request/Response types

type CreateTenantRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name,omitempty"`
	Token          string `json:"token"`
	EncodingAESKey string `json:"encodingAESKey,omitempty"`
	ReceiverID     string `json:"receiverId,omitempty"`
	AgentID        int64  `json:"agentId,omitempty"`
}

type UpdateTenantRequest struct {
	Name           string `json:"name,omitempty"`
	Token          string `json:"token,omitempty"`
	EncodingAESKey string `json:"encodingAESKey,omitempty"`
	ReceiverID     string `json:"receiverId,omitempty"`
	Status         string `json:"status,omitempty"`
}

// TenantView is the admin API representation; credentials never leave the
// server.
type TenantView struct {
	ID         string               `json:"id"`
	Name       string               `json:"name,omitempty"`
	Status     storage.TenantStatus `json:"status"`
	ReceiverID string               `json:"receiverId,omitempty"`
	AgentID    int64                `json:"agentId,omitempty"`
	Encrypted  bool                 `json:"encrypted"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

func redact(t *storage.Tenant) *TenantView {
	return &TenantView{
		ID:         t.ID,
		Name:       t.Name,
		Status:     t.Status,
		ReceiverID: t.ReceiverID,
		AgentID:    t.AgentID,
		Encrypted:  t.Encrypted(),
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func redactAll(tenants []*storage.Tenant) []*TenantView {
	out := make([]*TenantView, len(tenants))
	for i, t := range tenants {
		out[i] = redact(t)
	}
	return out
}

// Helper functions

func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) jsonError(w http.ResponseWriter, message string, status int) {
	s.jsonResponse(w, map[string]string{"error": message}, status)
}
