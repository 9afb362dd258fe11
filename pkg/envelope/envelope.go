// Package envelope turns raw callback requests into parsed XML documents.
//
// Inbound documents come in two shapes. The direct shape carries the
// (possibly encrypted) message document as the request body. The nested
// third-party shape wraps the ciphertext in a thin outer document of
// ToUserName, optional AgentID, and Encrypt.
//
// Decrypted documents are parsed exactly once into a [Fields] view, a
// tag-to-node lookup over the document's children. Variant constructors read
// from that view by tag name, so field order on the wire never matters.
package envelope

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/beevik/etree"
)

// Params holds the query-string parameters of a callback request.
type Params struct {
	Signature    string // plaintext-transport signature (handshake, raw POSTs)
	MsgSignature string // signature covering the ciphertext (encrypted POSTs)
	Timestamp    string
	Nonce        string
	EncryptType  string // "aes" when the body carries an Encrypt element
	EchoStr      string // handshake only
}

// ParamsFromQuery extracts callback parameters from a parsed query string.
func ParamsFromQuery(q url.Values) Params {
	return Params{
		Signature:    q.Get("signature"),
		MsgSignature: q.Get("msg_signature"),
		Timestamp:    q.Get("timestamp"),
		Nonce:        q.Get("nonce"),
		EncryptType:  q.Get("encrypt_type"),
		EchoStr:      q.Get("echostr"),
	}
}

// Encrypted reports whether the request declares an encrypted transport.
// The enterprise platform omits encrypt_type but always sends msg_signature.
func (p Params) Encrypted() bool {
	return p.EncryptType == "aes" || p.MsgSignature != ""
}

// Outer is the ciphertext-bearing outer document of an encrypted request.
type Outer struct {
	ToUserName string
	AgentID    string
	Encrypt    string
}

// ParseOuter extracts the outer envelope from an encrypted request body.
func ParseOuter(body []byte) (*Outer, error) {
	f, err := Parse(body)
	if err != nil {
		return nil, err
	}
	o := &Outer{
		ToUserName: f.Text("ToUserName"),
		AgentID:    f.Text("AgentID"),
		Encrypt:    f.Text("Encrypt"),
	}
	if o.Encrypt == "" {
		return nil, fmt.Errorf("envelope: no Encrypt element in outer document")
	}
	return o, nil
}

// Fields is a read-only, parse-once view over a callback XML document.
// Lookups are by tag name against the document's direct children, never by
// position.
type Fields struct {
	root *etree.Element
}

// Parse reads a full XML document into a Fields view. The document root is
// expected to be the protocol's <xml> element.
func Parse(data []byte) (Fields, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return Fields{}, fmt.Errorf("envelope: parsing document: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return Fields{}, fmt.Errorf("envelope: empty document")
	}
	return Fields{root: root}, nil
}

// Root exposes the underlying element for callers that need the raw
// document, such as the unknown-variant extension hook.
func (f Fields) Root() *etree.Element { return f.root }

// Has reports whether the document has a direct child with the given tag.
func (f Fields) Has(tag string) bool {
	return f.root != nil && f.root.SelectElement(tag) != nil
}

// Text returns the text content of the named child, or "" when absent.
func (f Fields) Text(tag string) string {
	if f.root == nil {
		return ""
	}
	el := f.root.SelectElement(tag)
	if el == nil {
		return ""
	}
	return el.Text()
}

// Int returns the named child parsed as a base-10 integer, or 0.
func (f Fields) Int(tag string) int64 {
	n, _ := strconv.ParseInt(f.Text(tag), 10, 64)
	return n
}

// Float returns the named child parsed as a float, or 0.
func (f Fields) Float(tag string) float64 {
	v, _ := strconv.ParseFloat(f.Text(tag), 64)
	return v
}

// Child returns a Fields view over a nested element, for documents that
// group fields under a wrapper such as ScanCodeInfo or SendLocationInfo.
func (f Fields) Child(tag string) (Fields, bool) {
	if f.root == nil {
		return Fields{}, false
	}
	el := f.root.SelectElement(tag)
	if el == nil {
		return Fields{}, false
	}
	return Fields{root: el}, true
}

// Header holds the fields shared by every inner message and event document.
type Header struct {
	ToUserName   string
	FromUserName string
	CreateTime   int64
	MsgType      string
	AgentID      string
}

// Header extracts the common base fields from the document.
func (f Fields) Header() Header {
	return Header{
		ToUserName:   f.Text("ToUserName"),
		FromUserName: f.Text("FromUserName"),
		CreateTime:   f.Int("CreateTime"),
		MsgType:      f.Text("MsgType"),
		AgentID:      f.Text("AgentID"),
	}
}
