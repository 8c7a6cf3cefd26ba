package cache

import (
	"strings"
	"testing"
	"time"
)

func TestSongKey(t *testing.T) {
	a := SongKey("Radiohead", "Creep")
	b := SongKey("  radiohead ", "CREEP")
	if a != b {
		t.Errorf("case/space variants produced different keys: %q vs %q", a, b)
	}

	c := SongKey("Radiohead", "Karma Police")
	if a == c {
		t.Error("different songs share a key")
	}

	// "ab"+"c" and "a"+"bc" must not collide
	if SongKey("ab", "c") == SongKey("a", "bc") {
		t.Error("artist/title boundary not preserved")
	}

	if !strings.HasPrefix(a, "songscreen:v1:") {
		t.Errorf("key missing namespace prefix: %q", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("absent"); found {
		t.Error("hit on empty cache")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if val, found := c.Get("k"); !found || string(val) != "v" {
		t.Errorf("Get = (%q, %v)", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("hit after delete")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("hit after TTL expiry")
	}
}

func TestDiskCache(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	if err := c.Set(Key("song"), []byte("lyrics"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if val, found := c.Get(Key("song")); !found || string(val) != "lyrics" {
		t.Errorf("Get = (%q, %v)", val, found)
	}

	if _, found := c.Get(Key("other")); found {
		t.Error("hit for unknown key")
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	_ = c.Set("k", []byte("v"), -time.Second)

	if _, found := c.Get("k"); found {
		t.Error("hit on expired entry")
	}
}

func TestLayeredCachePromotion(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A second layered cache over the same directory sees only the disk
	// layer; a read must hit and promote.
	fresh := NewLayeredCache(time.Minute, dir, time.Hour)
	if val, found := fresh.Get("k"); !found || string(val) != "v" {
		t.Fatalf("Get from disk layer = (%q, %v)", val, found)
	}

	if val, found := fresh.memory.Get("k"); !found || string(val) != "v" {
		t.Errorf("disk hit not promoted to memory: (%q, %v)", val, found)
	}
}

func TestLayeredCacheClear(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Hour)
	_ = c.Set("k", []byte("v"), time.Minute)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("hit after clear")
	}
}
