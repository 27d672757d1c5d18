package auth

import (
	"time"

	"github.com/triage-ai/palisade/services/tool_audit/internal/ttlcache"
)

// AuthCache maps raw API keys to verified projects.
type AuthCache = ttlcache.Cache[*ProjectContext]

// NewAuthCache creates a key cache. A stale verification is served for at
// most one extra TTL, so a revoked key stops working within two TTLs even
// when every background refresh fails.
func NewAuthCache(ttl time.Duration) *AuthCache {
	return ttlcache.New[*ProjectContext](ttl, ttl)
}
