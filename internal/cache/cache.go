// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache memoises computed reference maps. A memory layer backed by
// go-cache sits in front of an optional SQLite layer that survives between
// runs.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// Cache stores opaque values by key.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "source-linker:v1:"

// Key hashes parts into a namespaced cache key. Each part is length-prefixed
// so ("ab", "c") and ("a", "bc") produce different keys.
func Key(parts ...string) string {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}
