/*
Package weixingateway implements an inbound callback gateway and SDK for the
WeChat Official Account and WeChat Work (WeCom) messaging platforms.

# Overview

The vendor delivers user messages and platform events by POSTing XML
envelopes to a callback URL. Every delivery must be signature-checked,
optionally AES-decrypted, parsed into a typed message or event, routed to
application code, and answered within the vendor's five-second window. This
module implements that pipeline end to end, for many accounts (tenants)
behind one endpoint.

# Package Structure

The module is organized into the following packages:

	github.com/rwsbillyang/go-weixin-gateway/pkg/gateway     - Callback pipeline: handshake, verify, decrypt, dispatch, reply
	github.com/rwsbillyang/go-weixin-gateway/pkg/signature   - SHA1 sorted-tuple signature scheme
	github.com/rwsbillyang/go-weixin-gateway/pkg/wxcrypt     - AES-256-CBC envelope encryption
	github.com/rwsbillyang/go-weixin-gateway/pkg/envelope    - Query parameters, outer envelope, parsed XML fields
	github.com/rwsbillyang/go-weixin-gateway/pkg/dispatch    - Tag-driven dispatch tables
	github.com/rwsbillyang/go-weixin-gateway/pkg/oa          - Official Account messages, events, handler interface
	github.com/rwsbillyang/go-weixin-gateway/pkg/work        - Work messages, events, ISV suite notifications
	github.com/rwsbillyang/go-weixin-gateway/pkg/reply       - Reply types and XML encoding
	github.com/rwsbillyang/go-weixin-gateway/pkg/reliability - Redelivery detection

The internal packages and cmd/wxgateway build these into a standalone
multi-tenant server with MongoDB or in-memory tenant storage and an admin
API.

# Quick Start

To serve Official Account callbacks:

	import (
	    "github.com/rwsbillyang/go-weixin-gateway/pkg/gateway"
	    "github.com/rwsbillyang/go-weixin-gateway/pkg/oa"
	    "github.com/rwsbillyang/go-weixin-gateway/pkg/reply"
	)

	type handler struct{ oa.NopHandler }

	func (handler) OnText(m *oa.TextMessage) (reply.Reply, error) {
	    return &reply.Text{Content: "you said: " + m.Content}, nil
	}

	gw := gateway.New(gateway.OfficialAccount(), store, handler{})
	mux.Handle("GET /callback/{tenantID}", gw)
	mux.Handle("POST /callback/{tenantID}", gw)

where store resolves tenant IDs to callback credentials.

# Security Model

Signatures are verified before any ciphertext is touched, and comparison is
constant-time. Decrypted envelopes carry the receiving account's id, which
must match the tenant's configured receiver id. Failures of any kind are
answered with an empty 200 so probing reveals nothing; the vendor treats
the silence as a delivery failure and retries.
*/
package weixingateway
