package cache

import (
	"errors"
	"net/url"
)

// ErrCacheMiss is returned by both tiers when a key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// maxSummaryKeyLen bounds durable keys to a storage-safe length
const maxSummaryKeyLen = 64

// SummaryKey derives the durable-tier key from the canonical source
// URL: the last 64 characters of its escaped form. Keying on the
// source URL (not the internal route path) lets the same article
// reached through different route decorations share one entry.
// Distinct very long URLs can collide on the suffix; that tolerance is
// accepted.
func SummaryKey(canonicalURL string) string {
	encoded := url.QueryEscape(canonicalURL)
	if len(encoded) > maxSummaryKeyLen {
		encoded = encoded[len(encoded)-maxSummaryKeyLen:]
	}
	return encoded
}

// RequestKey derives the edge-tier key from the normalized inbound
// request identity. The query is included or stripped per route.
func RequestKey(host, path, rawQuery string, keepQuery bool) string {
	key := "edge:" + host + path
	if keepQuery && rawQuery != "" {
		key += "?" + rawQuery
	}
	return key
}
