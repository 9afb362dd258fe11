// Package reliability implements duplicate detection for vendor callback
// retries. The vendor redelivers a callback up to three times when it gets
// no timely acknowledgement; handlers that are not idempotent use the
// deduper to drop redeliveries inside a configurable window.
package reliability

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"
)

// DefaultWindow covers the vendor's retry schedule with margin.
const DefaultWindow = 15 * time.Minute

// Deduper remembers callback keys seen within a sliding window. It keeps no
// goroutine of its own; the owner calls Sweep periodically.
type Deduper struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	window time.Duration
}

// NewDeduper creates a deduper with the given window; zero or negative
// means DefaultWindow.
func NewDeduper(window time.Duration) *Deduper {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Deduper{
		seen:   make(map[string]time.Time),
		window: window,
	}
}

// Seen records the key and reports whether it was already present within
// the window. The first call for a key returns false, redeliveries return
// true until the window elapses.
func (d *Deduper) Seen(key string) bool {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	at, ok := d.seen[key]
	if ok && now.Sub(at) < d.window {
		return true
	}
	d.seen[key] = now
	return false
}

// Sweep drops entries older than the window and returns how many were
// removed.
func (d *Deduper) Sweep(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for key, at := range d.seen {
		if now.Sub(at) > d.window {
			delete(d.seen, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// MsgKey builds a dedup key from a message id, the strongest identity a
// callback carries.
func MsgKey(tenantID string, msgID int64) string {
	return tenantID + "|" + strconv.FormatInt(msgID, 10)
}

// EventKey builds a dedup key for events, which carry no message id: the
// vendor documents sender plus creation second plus event name as the
// redelivery identity.
func EventKey(tenantID, fromUser string, createTime int64, event string) string {
	return tenantID + "|" + fromUser + "|" + strconv.FormatInt(createTime, 10) + "|" + event
}

// BodyKey hashes the raw document for callbacks with no usable identity
// fields at all.
func BodyKey(tenantID string, body []byte) string {
	sum := sha256.Sum256(body)
	return tenantID + "|" + hex.EncodeToString(sum[:])
}
