// Package dispatch resolves callback documents to concrete variants and
// invokes the matching handler callback.
//
// All three platform surfaces (Official Account, Work, and the third-party
// suite channel) share this one engine; each supplies a discriminator
// [Table] describing its own MsgType/Event/ChangeType (or InfoType) chain.
// Unknown discriminator values are forward-compatible by design: they route
// to the handler's raw-document hook, then to its generic default hook, and
// never fail the request.
package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rwsbillyang/go-weixin-gateway/pkg/envelope"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/reply"
)

// ErrHandler wraps an error or panic escaping user handler code. The
// pipeline catches it at the dispatch boundary and degrades to an ack
// response; a crashing handler must never leave the HTTP caller hanging.
var ErrHandler = errors.New("dispatch: handler failure")

// Variant is a concrete message or event constructed from a document.
type Variant = any

// Entry binds one discriminator chain to a variant constructor and the
// handler invocation for that variant.
type Entry struct {
	// Build constructs the variant by keyed field access on the document.
	Build func(f envelope.Fields) Variant
	// Invoke calls the handler callback for the built variant.
	Invoke func(h any, v Variant) (reply.Reply, error)
	// NewsLimit lowers the news-reply article bound for this trigger.
	// Zero means the platform-wide bound applies.
	NewsLimit int
}

// NewEntry builds an Entry from a typed constructor and a typed handler
// callback, keeping the table and the handler interface in lockstep.
func NewEntry[H any, V any](build func(envelope.Fields) *V, invoke func(H, *V) (reply.Reply, error)) Entry {
	return Entry{
		Build:  func(f envelope.Fields) Variant { return build(f) },
		Invoke: func(h any, v Variant) (reply.Reply, error) { return invoke(h.(H), v.(*V)) },
	}
}

// RawHandler is the extension hook consulted first for documents whose
// discriminator chain has no table entry. Vendors add new kinds without
// warning; implementing this keeps them observable before this library
// learns about them.
type RawHandler interface {
	OnUnhandled(f envelope.Fields) (reply.Reply, error)
}

// DefaultHandler is the generic fallback consulted when RawHandler is not
// implemented or declines by returning a nil reply.
type DefaultHandler interface {
	OnDefault(h envelope.Header) (reply.Reply, error)
}

// Table maps a platform's discriminator chain to entries.
//
// Resolution reads the level-1 tag (MsgType for the message platforms,
// InfoType for the suite channel); when the value equals the configured
// event marker, the level-2 tag is read; values registered as having a
// sub-discriminator (the change_* families) read one more level.
type Table struct {
	typeTag    string
	eventValue string
	eventTag   string
	subTags    map[string]string
	entries    map[chainKey]Entry
}

type chainKey struct {
	a, b, c string
}

// NewTable creates a table whose level-1 discriminator is the given tag.
func NewTable(typeTag string) *Table {
	return &Table{
		typeTag: typeTag,
		subTags: make(map[string]string),
		entries: make(map[chainKey]Entry),
	}
}

// WithEventLevel declares that level-1 value `value` opens a second
// discriminator level read from `tag` (MsgType=event → Event).
func (t *Table) WithEventLevel(value, tag string) *Table {
	t.eventValue = strings.ToLower(value)
	t.eventTag = tag
	return t
}

// Sub declares that discriminator value `value` carries a third level read
// from `tag` (change_contact → ChangeType).
func (t *Table) Sub(value, tag string) *Table {
	t.subTags[strings.ToLower(value)] = tag
	return t
}

// Add registers an entry under a discriminator chain of one to three
// values. Chains are matched case-insensitively; the vendor mixes cases
// freely across event names.
func (t *Table) Add(e Entry, chain ...string) *Table {
	var k chainKey
	switch len(chain) {
	case 1:
		k = chainKey{a: strings.ToLower(chain[0])}
	case 2:
		k = chainKey{a: strings.ToLower(chain[0]), b: strings.ToLower(chain[1])}
	case 3:
		k = chainKey{a: strings.ToLower(chain[0]), b: strings.ToLower(chain[1]), c: strings.ToLower(chain[2])}
	default:
		panic(fmt.Sprintf("dispatch: chain must have 1..3 values, got %d", len(chain)))
	}
	if _, dup := t.entries[k]; dup {
		panic(fmt.Sprintf("dispatch: duplicate chain %v", chain))
	}
	t.entries[k] = e
	return t
}

// Resolve looks up the entry for the document's discriminator chain.
func (t *Table) Resolve(f envelope.Fields) (Entry, bool) {
	v1 := strings.ToLower(f.Text(t.typeTag))
	k := chainKey{a: v1}
	last := v1

	if t.eventValue != "" && v1 == t.eventValue {
		k.b = strings.ToLower(f.Text(t.eventTag))
		last = k.b
	}
	if subTag, ok := t.subTags[last]; ok {
		v := strings.ToLower(f.Text(subTag))
		if k.b == "" {
			k.b = v
		} else {
			k.c = v
		}
	}

	e, ok := t.entries[k]
	return e, ok
}

// Result is the outcome of dispatching one document.
type Result struct {
	// Reply is the handler's synchronous reply; nil means ack only.
	Reply reply.Reply
	// NewsLimit is the per-trigger article bound from the matched entry.
	NewsLimit int
	// Unknown reports that no entry matched and the fallback hooks ran.
	Unknown bool
}

// Dispatch resolves the document and invokes exactly one handler callback.
// Errors and panics from user code are wrapped in ErrHandler; the caller
// logs them and still acknowledges the request.
func (t *Table) Dispatch(f envelope.Fields, h any) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res.Reply = nil
			err = fmt.Errorf("%w: panic: %v", ErrHandler, r)
		}
	}()

	entry, ok := t.Resolve(f)
	if !ok {
		res.Unknown = true
		if raw, ok := h.(RawHandler); ok {
			rp, err := raw.OnUnhandled(f)
			if err != nil {
				return res, fmt.Errorf("%w: %v", ErrHandler, err)
			}
			if rp != nil {
				res.Reply = rp
				return res, nil
			}
		}
		if def, ok := h.(DefaultHandler); ok {
			rp, err := def.OnDefault(f.Header())
			if err != nil {
				return res, fmt.Errorf("%w: %v", ErrHandler, err)
			}
			res.Reply = rp
		}
		return res, nil
	}

	rp, err := entry.Invoke(h, entry.Build(f))
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrHandler, err)
	}
	res.Reply = rp
	res.NewsLimit = entry.NewsLimit
	return res, nil
}
