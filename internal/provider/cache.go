package provider

import (
	"time"

	"github.com/triage-ai/palisade/services/tool_audit/internal/contract"
	"github.com/triage-ai/palisade/services/tool_audit/internal/ttlcache"
)

// staleListFactor bounds how many TTLs past expiry a registered tool list is
// still served while refreshes fail.
const staleListFactor = 4

// ToolListCache holds each project's registered tools. An empty list is cached too.
type ToolListCache = ttlcache.Cache[[]contract.RawTool]

// NewToolListCache creates a tool list cache with the given TTL.
func NewToolListCache(ttl time.Duration) *ToolListCache {
	return ttlcache.New[[]contract.RawTool](ttl, staleListFactor*ttl)
}
