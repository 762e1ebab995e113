package notification

import (
	"testing"
	"time"
)

func TestDedupCacheSuppressesRepeats(t *testing.T) {
	c := NewDedupCache(time.Hour)

	if c.Seen("booking:10:payment_captured") {
		t.Fatal("first sighting must not be suppressed")
	}
	if !c.Seen("booking:10:payment_captured") {
		t.Fatal("second sighting must be suppressed")
	}
	if c.Seen("booking:11:payment_captured") {
		t.Fatal("different key must not be suppressed")
	}
}

func TestDedupCacheExpiresEntries(t *testing.T) {
	c := NewDedupCache(time.Hour)
	now := time.Now()
	c.nowFunc = func() time.Time { return now }

	c.Seen("tip:5:tip_received")

	now = now.Add(2 * time.Hour)
	if c.Seen("tip:5:tip_received") {
		t.Fatal("entry past its TTL must not be suppressed")
	}
}

func TestDedupCacheSweepsOnInsert(t *testing.T) {
	c := NewDedupCache(time.Hour)
	now := time.Now()
	c.nowFunc = func() time.Time { return now }

	c.Seen("a")
	c.Seen("b")

	now = now.Add(2 * time.Hour)
	c.Seen("c")

	if got := c.Len(); got != 1 {
		t.Fatalf("expected only the fresh entry to remain, got %d", got)
	}
}

func TestDedupCacheEmptyKeyNeverSuppressed(t *testing.T) {
	c := NewDedupCache(time.Hour)

	if c.Seen("") || c.Seen("") {
		t.Fatal("empty key disables deduplication")
	}
}
