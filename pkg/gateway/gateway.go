// Package gateway implements the per-request callback pipeline: signature
// verification, envelope decryption, variant dispatch, reply encoding and
// re-encryption, plus the http.Handler glue.
//
// The pipeline is stateless and request-scoped. Every failure degrades to an
// acknowledged 200 with an empty body; the vendor treats anything else as a
// delivery failure and retries, and error detail must never leak to the
// caller.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rwsbillyang/go-weixin-gateway/pkg/dispatch"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/envelope"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/reply"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/signature"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/wxcrypt"
)

// ErrTenantNotFound is returned by TenantConfigStore implementations when no
// active tenant matches the requested id.
var ErrTenantNotFound = errors.New("gateway: tenant not found")

// TenantConfig is the per-tenant credential set the pipeline needs. Codec is
// nil for tenants running in plaintext mode.
type TenantConfig struct {
	ID    string
	Token string
	Codec *wxcrypt.Codec
}

// TenantConfigStore resolves tenant credentials. Implementations must be
// safe for concurrent lookups from many in-flight requests; configuration
// reloads must swap whole snapshots, never mutate a config a request may be
// reading.
type TenantConfigStore interface {
	Tenant(ctx context.Context, tenantID string) (*TenantConfig, error)
}

// Platform describes one callback dialect: its discriminator tables and the
// acknowledgement conventions the vendor expects.
type Platform struct {
	Name string
	// Table resolves message/event documents.
	Table *dispatch.Table
	// SuiteTable resolves provider lifecycle documents (InfoType chain);
	// nil for non-ISV platforms.
	SuiteTable *dispatch.Table
	// AckBody is sent when the handler produces no content reply.
	AckBody string
	// SuiteAckBody is the literal the provider callback expects.
	SuiteAckBody string
	// EncryptedHandshake marks dialects whose handshake echostr is itself
	// an encrypted envelope (Work); the plain dialect echoes it verbatim.
	EncryptedHandshake bool
}

// Gateway runs the callback pipeline for one platform. Handlers are
// deployment-wide; per-tenant state is limited to what the store returns.
type Gateway struct {
	platform      Platform
	store         TenantConfigStore
	handler       any
	suiteHandler  any
	defaultTenant string
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger; the default discards nothing and writes to
// slog's default handler.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithSuiteHandler sets the handler for provider lifecycle documents.
func WithSuiteHandler(h any) Option {
	return func(g *Gateway) { g.suiteHandler = h }
}

// WithDefaultTenant sets the tenant used when the route carries no tenant
// id, for single-tenant deployments mounted at a bare path.
func WithDefaultTenant(id string) Option {
	return func(g *Gateway) { g.defaultTenant = id }
}

// New creates a gateway for the platform, resolving tenants through store
// and dispatching to handler.
func New(p Platform, store TenantConfigStore, handler any, opts ...Option) *Gateway {
	g := &Gateway{
		platform: p,
		store:    store,
		handler:  handler,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Handshake answers the vendor's GET verification probe. It returns the
// echo body and whether verification succeeded; on failure the caller must
// respond 200 with an empty body and no detail.
func (g *Gateway) Handshake(ctx context.Context, tenantID string, p envelope.Params) (string, bool) {
	tenant, err := g.store.Tenant(ctx, tenantID)
	if err != nil {
		g.logger.Info("handshake for unknown tenant", "tenant", tenantID)
		return "", false
	}

	if g.platform.EncryptedHandshake {
		if tenant.Codec == nil {
			g.logger.Warn("encrypted handshake on plaintext tenant", "tenant", tenantID)
			return "", false
		}
		if !signature.Verify(tenant.Token, p.MsgSignature, p.Timestamp, p.Nonce, p.EchoStr) {
			g.logger.Info("handshake signature mismatch", "tenant", tenantID)
			return "", false
		}
		plain, err := tenant.Codec.Decrypt(p.EchoStr)
		if err != nil {
			g.logger.Info("handshake echostr decrypt failed", "tenant", tenantID, "error", err)
			return "", false
		}
		return string(plain), true
	}

	if !signature.Verify(tenant.Token, p.Signature, p.Timestamp, p.Nonce) {
		g.logger.Info("handshake signature mismatch", "tenant", tenantID)
		return "", false
	}
	return p.EchoStr, true
}

// Response is the pipeline outcome: what to write back on the acknowledged
// 200.
type Response struct {
	Body        []byte
	ContentType string
}

func textResponse(s string) Response {
	return Response{Body: []byte(s), ContentType: "text/plain; charset=utf-8"}
}

func xmlResponse(b []byte) Response {
	return Response{Body: b, ContentType: "text/xml; charset=utf-8"}
}

// Handle runs the POST pipeline over one callback body. It always returns a
// response to send with status 200: the reply document, the platform ack, or
// an empty body when any stage fails.
func (g *Gateway) Handle(ctx context.Context, tenantID string, p envelope.Params, body []byte) Response {
	tenant, err := g.store.Tenant(ctx, tenantID)
	if err != nil {
		g.logger.Info("callback for unknown tenant", "tenant", tenantID)
		return textResponse("")
	}
	log := g.logger.With("tenant", tenantID, "platform", g.platform.Name)

	if p.Encrypted() {
		return g.handleEncrypted(log, tenant, p, body)
	}
	return g.handlePlain(log, tenant, p, body)
}

func (g *Gateway) handlePlain(log *slog.Logger, tenant *TenantConfig, p envelope.Params, body []byte) Response {
	if !signature.Verify(tenant.Token, p.Signature, p.Timestamp, p.Nonce) {
		log.Info("signature mismatch")
		return textResponse("")
	}

	f, err := envelope.Parse(body)
	if err != nil {
		log.Info("unparseable callback body", "error", err)
		return textResponse("")
	}
	return g.dispatch(log, f, nil, "")
}

func (g *Gateway) handleEncrypted(log *slog.Logger, tenant *TenantConfig, p envelope.Params, body []byte) Response {
	if tenant.Codec == nil {
		log.Warn("encrypted callback on plaintext tenant")
		return textResponse("")
	}

	outer, err := envelope.ParseOuter(body)
	if err != nil {
		log.Info("unparseable outer envelope", "error", err)
		return textResponse("")
	}

	// The ciphertext signature is checked before any decryption work.
	if !signature.Verify(tenant.Token, p.MsgSignature, p.Timestamp, p.Nonce, outer.Encrypt) {
		log.Info("msg_signature mismatch")
		return textResponse("")
	}

	plain, err := tenant.Codec.Decrypt(outer.Encrypt)
	if err != nil {
		log.Info("envelope decrypt failed", "error", err)
		return textResponse("")
	}

	f, err := envelope.Parse(plain)
	if err != nil {
		log.Info("unparseable inner document", "error", err)
		return textResponse("")
	}

	// Provider lifecycle documents carry InfoType and no per-agent routing;
	// anything else is an ordinary message/event for this tenant.
	if g.platform.SuiteTable != nil && f.Has("InfoType") && !f.Has("AgentID") {
		return g.dispatchSuite(log, f)
	}
	return g.dispatch(log, f, tenant.Codec, tenant.Token)
}

// dispatch resolves and invokes the handler, then encodes the reply. A
// non-nil codec means the response envelope must be re-encrypted.
func (g *Gateway) dispatch(log *slog.Logger, f envelope.Fields, codec *wxcrypt.Codec, token string) Response {
	res, err := g.platform.Table.Dispatch(f, g.handler)
	if err != nil {
		log.Error("handler failure", "error", err)
		return textResponse(g.platform.AckBody)
	}
	if res.Unknown {
		hdr := f.Header()
		log.Debug("unrecognized variant", "msgType", hdr.MsgType)
	}
	if res.Reply == nil {
		return textResponse(g.platform.AckBody)
	}

	if res.NewsLimit > 0 {
		if err := reply.CheckNewsLimit(res.Reply, res.NewsLimit); err != nil {
			log.Error("reply rejected", "error", err)
			return textResponse(g.platform.AckBody)
		}
	}

	hdr := f.Header()
	// The reply swaps the inbound addressing and stamps fresh time.
	var out []byte
	if codec != nil {
		out, err = reply.EncodeEncrypted(res.Reply, hdr.FromUserName, hdr.ToUserName, g.now().Unix(), codec, token)
	} else {
		out, err = reply.Encode(res.Reply, hdr.FromUserName, hdr.ToUserName, g.now().Unix())
	}
	if err != nil {
		log.Error("reply encoding failed", "error", err)
		return textResponse(g.platform.AckBody)
	}
	return xmlResponse(out)
}

func (g *Gateway) dispatchSuite(log *slog.Logger, f envelope.Fields) Response {
	h := g.suiteHandler
	if h == nil {
		log.Warn("suite document with no suite handler configured")
		return textResponse(g.platform.SuiteAckBody)
	}

	res, err := g.platform.SuiteTable.Dispatch(f, h)
	if err != nil {
		log.Error("suite handler failure", "error", err)
	} else if res.Unknown {
		log.Debug("unrecognized suite info type", "infoType", f.Text("InfoType"))
	}
	// Lifecycle notifications never get a content reply.
	return textResponse(g.platform.SuiteAckBody)
}

// maxBodySize bounds callback bodies; vendor documents are small.
const maxBodySize = 1 << 20

// ServeHTTP adapts the gateway to net/http. Mount it with a route pattern
// that names the tenant, e.g.
//
//	mux.Handle("GET /callback/{tenantID}", gw)
//	mux.Handle("POST /callback/{tenantID}", gw)
//
// Routes without a tenantID segment fall back to the configured default
// tenant.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tenantID := r.PathValue("tenantID")
	if tenantID == "" {
		tenantID = g.defaultTenant
	}
	p := envelope.ParamsFromQuery(r.URL.Query())

	switch r.Method {
	case http.MethodGet:
		echo, ok := g.Handshake(r.Context(), tenantID, p)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if ok {
			fmt.Fprint(w, echo)
		}
	case http.MethodPost:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			g.logger.Info("body read failed", "tenant", tenantID, "error", err)
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			return
		}
		resp := g.Handle(r.Context(), tenantID, p, body)
		w.Header().Set("Content-Type", resp.ContentType)
		w.Write(resp.Body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
