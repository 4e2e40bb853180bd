package vdom

import "strings"

// KeepAliveCache holds deactivated component instances in an
// insertion-ordered LRU so a cached subtree can be re-activated
// without re-running its setup function, instead of unmounting it.
// Max == 0 means unbounded.
type KeepAliveCache struct {
	Max int

	order   []any    // insertion/touch order, oldest first
	entries map[any]*cacheEntry

	Include []string // glob-ish include patterns; nil means "all"
	Exclude []string
}

type cacheEntry struct {
	key  any
	node *VNode
}

// NewKeepAliveCache creates an empty cache that evicts its least
// recently activated entry once it holds more than max live entries.
func NewKeepAliveCache(max int) *KeepAliveCache {
	return &KeepAliveCache{Max: max, entries: make(map[any]*cacheEntry)}
}

// shouldCache reports whether a component with the given display name
// is eligible for this cache, per the Include/Exclude pattern lists.
func (c *KeepAliveCache) shouldCache(name string) bool {
	if len(c.Exclude) > 0 && matchAny(c.Exclude, name) {
		return false
	}
	if len(c.Include) > 0 {
		return matchAny(c.Include, name)
	}
	return true
}

// matchAny reports whether name matches any pattern in patterns. A
// pattern is either an exact name or, if it contains "*", a prefix/
// suffix glob (the two shapes the Include/Exclude lists are expected
// to use).
func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if p == name {
			return true
		}
		if star := strings.IndexByte(p, '*'); star >= 0 {
			prefix, suffix := p[:star], p[star+1:]
			if len(name) >= len(prefix)+len(suffix) &&
				name[:len(prefix)] == prefix &&
				name[len(name)-len(suffix):] == suffix {
				return true
			}
		}
	}
	return false
}

// get looks up key, moving it to the most-recently-used end if found.
func (c *KeepAliveCache) get(key any) (*VNode, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.touch(key)
	return e.node, true
}

// put inserts or refreshes key's entry, evicting the least recently
// used entry if the cache is now over Max.
func (c *KeepAliveCache) put(key any, node *VNode, r Renderer) {
	if _, exists := c.entries[key]; exists {
		c.entries[key].node = node
		c.touch(key)
		return
	}
	c.entries[key] = &cacheEntry{key: key, node: node}
	c.order = append(c.order, key)

	if c.Max > 0 && len(c.order) > c.Max {
		evictKey := c.order[0]
		c.order = c.order[1:]
		evicted := c.entries[evictKey]
		delete(c.entries, evictKey)
		if evicted != nil && evicted.node != nil {
			if inst := evicted.node.Instance(); inst != nil {
				inst.unmount(r)
			}
		}
	}
}

// touch moves key to the most-recently-used end of the order slice.
func (c *KeepAliveCache) touch(key any) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append(c.order, key)
}

// Len reports how many entries the cache currently holds.
func (c *KeepAliveCache) Len() int {
	return len(c.order)
}

// Keys returns the cache's current keys, oldest (next to evict) first.
func (c *KeepAliveCache) Keys() []any {
	out := make([]any, len(c.order))
	copy(out, c.order)
	return out
}

// Switch changes which component is active under a single KeepAlive
// boundary: prev (if non-nil) is deactivated and stored under its
// cache key rather than unmounted; next is either re-activated from a
// previous cache entry (its reactive state exactly as it was left) or
// mounted fresh via build if this is the first time nextKey is seen.
// Storing prev may evict the cache's oldest entry, which IS unmounted
// for real.
func (c *KeepAliveCache) Switch(r Renderer, container any, prev *VNode, nextKey any, build func() *VNode, parentInst *Instance) *VNode {
	if prev != nil {
		if inst := prev.Instance(); inst != nil {
			prevKey := componentCacheKey(prev)
			c.put(prevKey, prev, r)
			inst.deactivate(r)
		}
	}

	if cached, ok := c.get(nextKey); ok {
		if inst := cached.Instance(); inst != nil {
			inst.activate(r, container, nil)
		}
		cached.ShapeFlag |= ShapeComponentKeptAlive
		return cached
	}

	next := build()
	patch(nil, next, r, container, nil, parentInst)
	return next
}
