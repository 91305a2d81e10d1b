// Package lingo resolves translation message sets for a locale from a
// prioritized chain of sources: a freshness-checked local cache, a remote
// origin, a stale cache fallback and the bundled defaults shipped with the
// application. Whatever the chain produces is validated against the bundled
// baseline so a partial download can never regress below what was shipped.
package lingo

import (
	"fmt"
	"strings"
)

// Priority selects which chain step a load starts from. Regardless of the
// entry point the chain always falls through forward in the fixed order
// Cache → Network → CacheIgnoringFreshness → Default.
type Priority string

const (
	// PriorityCache starts with the freshness-checked local cache.
	PriorityCache Priority = "cache"
	// PriorityNetwork skips straight to the remote origin.
	PriorityNetwork Priority = "network"
	// PriorityCacheIgnoringFreshness accepts any cached artifact however old.
	PriorityCacheIgnoringFreshness Priority = "cache_ignoring_freshness"
	// PriorityDefault serves the bundled defaults without touching cache or network.
	PriorityDefault Priority = "default"
)

// chainOrder is the fixed fallthrough order of the resolution chain.
var chainOrder = []Priority{
	PriorityCache,
	PriorityNetwork,
	PriorityCacheIgnoringFreshness,
	PriorityDefault,
}

func (p Priority) String() string {
	return string(p)
}

// chainIndex returns the position of p in the fallthrough order.
func (p Priority) chainIndex() (int, bool) {
	for i, candidate := range chainOrder {
		if candidate == p {
			return i, true
		}
	}
	return 0, false
}

// ParsePriority converts a configuration string into a Priority.
func ParsePriority(value string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(value))) {
	case PriorityCache, "":
		return PriorityCache, nil
	case PriorityNetwork:
		return PriorityNetwork, nil
	case PriorityCacheIgnoringFreshness:
		return PriorityCacheIgnoringFreshness, nil
	case PriorityDefault:
		return PriorityDefault, nil
	default:
		return PriorityCache, fmt.Errorf("unknown load priority %q", value)
	}
}

// Messages is the decoded key value mapping for one locale. Values are kept
// as decoded JSON so plural forms and nested message objects survive intact.
type Messages map[string]any
