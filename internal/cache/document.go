// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

const (
	// documentKeyPrefix is the Valkey key prefix for cached PDFs.
	documentKeyPrefix = "pdf:"

	// DefaultDocumentTTL is how long a rendered PDF stays cached.
	DefaultDocumentTTL = 10 * time.Minute
)

// DocumentCache stores rendered PDFs keyed by a hash of everything that
// went into them. Errors are logged and treated as misses.
type DocumentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDocumentCache creates a document cache backed by the given client.
func NewDocumentCache(client *redis.Client, ttl time.Duration) *DocumentCache {
	if ttl == 0 {
		ttl = DefaultDocumentTTL
	}
	return &DocumentCache{client: client, ttl: ttl}
}

// Get returns a cached PDF.
func (dc *DocumentCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := dc.client.Get(ctx, documentKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("document cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("document cache hit", "key", key)
	return val, true
}

// Set stores a PDF with the configured TTL.
func (dc *DocumentCache) Set(ctx context.Context, key string, data []byte) {
	if err := dc.client.Set(ctx, documentKeyPrefix+key, data, dc.ttl).Err(); err != nil {
		slog.Warn("document cache set error", "key", key, "error", err)
	}
}

// Key hashes the inputs of a rendering into a cache key (BLAKE2b-256). Parts are length
// prefixed so that ("ab", "c") and ("a", "bc") differ.
func Key(parts ...string) string {
	h, _ := blake2b.New256(nil)
	var n [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
