package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"letitbit/internal/rpc"
)

// cacheableRoutes lists the routes whose results do not change between calls.
// Only API introspection qualifies; account and file data is always fetched.
var cacheableRoutes = map[string]bool{
	"list/controllers": true,
	"list/methods":     true,
}

// IsCacheable checks if results of a route may be cached
func IsCacheable(route string) bool {
	return cacheableRoutes[route]
}

// GenerateCacheKey creates a unique cache key for a call
func GenerateCacheKey(route string, params rpc.Params) string {
	hash := sha256.Sum256(normalizeParams(params))
	paramsHash := hex.EncodeToString(hash[:8]) // Use first 8 bytes for shorter key

	return route + ":" + paramsHash
}

// normalizeParams returns a stable encoding of params.
// encoding/json writes map keys sorted, so equal params hash equally.
func normalizeParams(params rpc.Params) []byte {
	if len(params) == 0 {
		return []byte("{}")
	}

	result, err := json.Marshal(params)
	if err != nil {
		return []byte("{}")
	}
	return result
}
