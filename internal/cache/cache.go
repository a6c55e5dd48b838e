// Package cache provides the layered response cache used by the LLM-backed
// extractor and embedding providers: identical chunk text never pays for the
// same remote call twice, which also keeps reruns idempotent.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage contract shared by the memory, disk, and layered
// implementations
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the capability name and the payload text
// (typically a chunk). Hashing keeps arbitrary text filesystem-safe.
func Key(capability, payload string) string {
	hash := sha256.Sum256([]byte(capability + "\x00" + payload))
	return "kgraph:v1:" + capability + ":" + hex.EncodeToString(hash[:])
}

// Nop is the disabled cache: misses on every read, discards every write.
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)               { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error                     { return nil }
func (Nop) Clear() error                            { return nil }
