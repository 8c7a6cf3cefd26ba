// Package cache provides the layered (memory + disk) cache that keeps
// fetched lyrics between runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from an arbitrary identifier
func Key(id string) string {
	hash := sha256.Sum256([]byte(id))
	return "songscreen:v1:" + hex.EncodeToString(hash[:])
}

// SongKey generates a cache key for a song's lyrics lookup.
// Case-insensitive so "Band / Song" and "band / song" share an entry.
func SongKey(artist, title string) string {
	id := strings.ToLower(strings.TrimSpace(artist)) + "\x00" + strings.ToLower(strings.TrimSpace(title))
	return Key("lyrics:" + id)
}
