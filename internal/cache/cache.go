// Package cache holds short-lived in-process state such as alert cooldowns.
// Nothing here survives the process.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key from an arbitrary identifier such as a URL
func Key(namespace, id string) string {
	hash := sha256.Sum256([]byte(id))
	return "restock:" + namespace + ":" + hex.EncodeToString(hash[:8])
}
