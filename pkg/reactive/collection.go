package reactive

import "sync"

// Collection is a tracked dictionary/sequence — the stand-in for a
// proxy-wrapped Map/Array/Set the host language would give us directly
// (§2 Design Notes). Unlike Signal, a Collection tracks at three
// granularities per §4.1's key/iterate/has distinction:
//
//   - reading a key (Get/Has) subscribes only to changes at that key;
//   - adding or removing a key (as opposed to merely updating an
//     existing one) additionally triggers the sentinel "iterate" Dep,
//     since anything that ranged over the whole collection (Keys,
//     Len, ForEach) needs telling even though it never read
//     that specific key;
//   - Has subscribes to a sentinel per-key existence Dep distinct from
//     the value Dep, since a property can transition present→absent
//     without the stored value itself ever changing.
type Collection[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V

	keyDeps  map[K]*Dep
	hasDeps  map[K]*Dep
	iterDep  *Dep
	equal    func(V, V) bool
}

// NewCollection creates a Collection, optionally seeded with entries.
func NewCollection[K comparable, V any](initial map[K]V) *Collection[K, V] {
	data := make(map[K]V, len(initial))
	for k, v := range initial {
		data[k] = v
	}
	return &Collection[K, V]{
		data:    data,
		keyDeps: make(map[K]*Dep),
		hasDeps: make(map[K]*Dep),
		iterDep: newDep(nil),
	}
}

// WithCollectionEquals installs a custom equality function used to
// decide whether Set on an existing key actually changed its value.
func (c *Collection[K, V]) WithCollectionEquals(fn func(V, V) bool) *Collection[K, V] {
	c.equal = fn
	return c
}

func (c *Collection[K, V]) equals(a, b V) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

func (c *Collection[K, V]) keyDep(k K) *Dep {
	if d, ok := c.keyDeps[k]; ok {
		return d
	}
	d := newDep(func() {
		c.mu.Lock()
		delete(c.keyDeps, k)
		c.mu.Unlock()
	})
	c.keyDeps[k] = d
	return d
}

func (c *Collection[K, V]) hasDep(k K) *Dep {
	if d, ok := c.hasDeps[k]; ok {
		return d
	}
	d := newDep(func() {
		c.mu.Lock()
		delete(c.hasDeps, k)
		c.mu.Unlock()
	})
	c.hasDeps[k] = d
	return d
}

// Get returns the value stored at k (the zero value if absent) and
// subscribes the active listener to future changes at that key.
func (c *Collection[K, V]) Get(k K) V {
	c.mu.Lock()
	dep := c.keyDep(k)
	c.mu.Unlock()
	trackDep(dep)

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data[k]
}

// Peek returns the value stored at k without subscribing.
func (c *Collection[K, V]) Peek(k K) V {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data[k]
}

// Has reports whether k is present, subscribing the active listener to
// presence changes at that key (distinct from value changes).
func (c *Collection[K, V]) Has(k K) bool {
	c.mu.Lock()
	dep := c.hasDep(k)
	c.mu.Unlock()
	trackDep(dep)

	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.data[k]
	return ok
}

// Set stores v at k, triggering the key's value Dep if the value
// changed, and additionally the has/iterate Deps if k was not
// previously present.
func (c *Collection[K, V]) Set(k K, v V) {
	c.mu.Lock()
	old, existed := c.data[k]
	c.data[k] = v
	valueChanged := !existed || !c.equals(old, v)
	var keyDep, hasDep *Dep
	if valueChanged {
		keyDep = c.keyDep(k)
	}
	if !existed {
		hasDep = c.hasDep(k)
	}
	c.mu.Unlock()

	if keyDep != nil {
		keyDep.trigger(Dirty)
	}
	if !existed {
		hasDep.trigger(Dirty)
		c.iterDep.trigger(Dirty)
	}
}

// Delete removes k, triggering its value, has, and the collection's
// iterate Dep if it was present. Reports whether k was present.
func (c *Collection[K, V]) Delete(k K) bool {
	c.mu.Lock()
	_, existed := c.data[k]
	if !existed {
		c.mu.Unlock()
		return false
	}
	delete(c.data, k)
	keyDep := c.keyDeps[k]
	hasDep := c.hasDeps[k]
	c.mu.Unlock()

	if keyDep != nil {
		keyDep.trigger(Dirty)
	}
	if hasDep != nil {
		hasDep.trigger(Dirty)
	}
	c.iterDep.trigger(Dirty)
	return true
}

// Len returns the number of entries, subscribing to the iterate Dep
// since any add/remove changes it.
func (c *Collection[K, V]) Len() int {
	trackDep(c.iterDep)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Keys returns a snapshot of the current keys, subscribing to the
// iterate Dep.
func (c *Collection[K, V]) Keys() []K {
	trackDep(c.iterDep)
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]K, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	return keys
}

// ForEach calls fn for every entry, subscribing to the iterate Dep.
// It does not itself subscribe per-key Deps; a per-key Dep is only
// established by a direct Get/Has on that key.
func (c *Collection[K, V]) ForEach(fn func(K, V)) {
	trackDep(c.iterDep)
	c.mu.RLock()
	snapshot := make(map[K]V, len(c.data))
	for k, v := range c.data {
		snapshot[k] = v
	}
	c.mu.RUnlock()
	for k, v := range snapshot {
		fn(k, v)
	}
}
