// Package signature implements the SHA1 sorted-tuple authentication tag used
// by the callback protocol.
//
// The same scheme covers both the URL-registration handshake and the message
// signature on every inbound POST: the token, timestamp, nonce, and (when the
// transport is encrypted) the ciphertext are sorted lexicographically,
// concatenated, SHA1-hashed, and hex-encoded.
package signature

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"sort"
	"strings"
)

// Sign computes the hex-encoded SHA1 signature over the sorted tuple
// (token, timestamp, nonce, extra...). For the GET handshake and for
// plaintext POSTs no extra element is passed; for encrypted POSTs the
// single extra element is the base64 ciphertext.
func Sign(token, timestamp, nonce string, extra ...string) string {
	parts := make([]string, 0, 3+len(extra))
	parts = append(parts, token, timestamp, nonce)
	parts = append(parts, extra...)
	sort.Strings(parts)

	sum := sha1.Sum([]byte(strings.Join(parts, "")))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether sig matches the signature computed from the tuple.
// The comparison is constant-time; a hex signature leaks nothing about the
// token through timing.
func Verify(token, sig, timestamp, nonce string, extra ...string) bool {
	want := Sign(token, timestamp, nonce, extra...)
	if len(sig) != len(want) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sig), []byte(want)) == 1
}
