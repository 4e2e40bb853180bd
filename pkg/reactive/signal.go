package reactive

import (
	"fmt"
	"reflect"
	"sync"
)

// SignalOption configures a Signal at creation time.
type SignalOption[T any] func(*Signal[T])

// WithSignalEquals installs a custom equality function, used to decide
// whether a Set actually changed the value and so whether subscribers
// need telling. The default is defaultEquals (== for scalar kinds,
// reflect.DeepEqual otherwise).
func WithSignalEquals[T any](fn func(T, T) bool) SignalOption[T] {
	return func(s *Signal[T]) { s.equal = fn }
}

// Signal is a single tracked value — the stand-in for a proxy-wrapped
// `ref`/reactive object the host language would give us directly. Get
// subscribes the active listener and reads the value; Set writes it and
// (if it actually changed) notifies subscribers at Dirty, per §2's
// Design Notes on substituting explicit Signal/Collection types for
// transparent proxies.
type Signal[T any] struct {
	mu    sync.RWMutex
	value T
	equal func(T, T) bool
	dep   *Dep
}

// NewSignal creates a Signal holding the given initial value.
func NewSignal[T any](initial T, opts ...SignalOption[T]) *Signal[T] {
	s := &Signal[T]{value: initial}
	for _, opt := range opts {
		opt(s)
	}
	s.dep = newDep(nil)
	return s
}

// Get returns the current value and subscribes the active listener.
func (s *Signal[T]) Get() T {
	trackDep(s.dep)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Peek returns the current value without subscribing the active
// listener, for reads that must not create a dependency.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores a new value, notifying subscribers at Dirty if it differs
// from the previous value under the signal's equality function.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	changed := !s.equals(s.value, v)
	s.value = v
	s.mu.Unlock()

	if changed {
		s.dep.trigger(Dirty)
	}
}

// Update atomically reads the current value, applies fn, and stores the
// result — the idiomatic way to mutate a Signal in terms of its own
// previous value without a racing Get-then-Set pair.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	next := fn(s.value)
	changed := !s.equals(s.value, next)
	s.value = next
	s.mu.Unlock()

	if changed {
		s.dep.trigger(Dirty)
	}
}

// Notify forces subscribers to be told a change occurred regardless of
// equality, for values whose mutation happens in place (e.g. a pointer
// to a struct the caller mutated directly) and so can't be detected by
// comparison.
func (s *Signal[T]) Notify() {
	s.dep.trigger(Dirty)
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// --- numeric/slice/map convenience mutators ---
//
// These substitute for the field/element mutation a transparent proxy
// would let a caller write directly (`count++`, `items = append(items,
// x)`, `m[k] = v`); each is a reflect-based read-modify-write under the
// signal's lock, followed by the same trigger a Set would perform.

// Inc adds 1 to a numeric Signal's value. Panics if T is not numeric.
func (s *Signal[T]) Inc() { s.addNumeric(1) }

// Dec subtracts 1 from a numeric Signal's value. Panics if T is not
// numeric.
func (s *Signal[T]) Dec() { s.addNumeric(-1) }

// Add adds delta to a numeric Signal's value. Panics if T is not
// numeric.
func (s *Signal[T]) Add(delta float64) { s.addNumeric(delta) }

// Sub subtracts delta from a numeric Signal's value. Panics if T is
// not numeric.
func (s *Signal[T]) Sub(delta float64) { s.addNumeric(-delta) }

func (s *Signal[T]) addNumeric(delta float64) {
	s.mu.Lock()
	rv := reflect.ValueOf(s.value)
	nv := reflect.New(rv.Type()).Elem()
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		nv.SetInt(rv.Int() + int64(delta))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		nv.SetUint(uint64(int64(rv.Uint()) + int64(delta)))
	case reflect.Float32, reflect.Float64:
		nv.SetFloat(rv.Float() + delta)
	default:
		s.mu.Unlock()
		panic(fmt.Sprintf("reactive: numeric mutator called on non-numeric Signal[%s]", rv.Type()))
	}
	next := nv.Interface().(T)
	changed := !s.equals(s.value, next)
	s.value = next
	s.mu.Unlock()

	if changed {
		s.dep.trigger(Dirty)
	}
}

// AppendItem appends item to a slice-valued Signal. Panics if T is not
// a slice.
func (s *Signal[T]) AppendItem(item any) {
	s.mu.Lock()
	rv := reflect.ValueOf(s.value)
	if rv.Kind() != reflect.Slice {
		s.mu.Unlock()
		panic(fmt.Sprintf("reactive: AppendItem called on non-slice Signal[%s]", rv.Type()))
	}
	next := reflect.Append(rv, reflect.ValueOf(item).Convert(rv.Type().Elem())).Interface().(T)
	s.value = next
	s.mu.Unlock()
	s.dep.trigger(Dirty)
}

// RemoveAt removes the item at index from a slice-valued Signal, a
// no-op if index is out of range. Panics if T is not a slice.
func (s *Signal[T]) RemoveAt(index int) {
	s.mu.Lock()
	rv := reflect.ValueOf(s.value)
	if rv.Kind() != reflect.Slice {
		s.mu.Unlock()
		panic(fmt.Sprintf("reactive: RemoveAt called on non-slice Signal[%s]", rv.Type()))
	}
	n := rv.Len()
	if index < 0 || index >= n {
		s.mu.Unlock()
		return
	}
	next := reflect.AppendSlice(rv.Slice(0, index), rv.Slice(index+1, n)).Interface().(T)
	s.value = next
	s.mu.Unlock()
	s.dep.trigger(Dirty)
}

// SetAt replaces the item at index in a slice-valued Signal, a no-op
// if index is out of range. Panics if T is not a slice.
func (s *Signal[T]) SetAt(index int, item any) {
	s.mu.Lock()
	rv := reflect.ValueOf(s.value)
	if rv.Kind() != reflect.Slice {
		s.mu.Unlock()
		panic(fmt.Sprintf("reactive: SetAt called on non-slice Signal[%s]", rv.Type()))
	}
	if index < 0 || index >= rv.Len() {
		s.mu.Unlock()
		return
	}
	cp := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	reflect.Copy(cp, rv)
	cp.Index(index).Set(reflect.ValueOf(item).Convert(rv.Type().Elem()))
	s.value = cp.Interface().(T)
	s.mu.Unlock()
	s.dep.trigger(Dirty)
}

// UpdateAt replaces the item at index with fn applied to its current
// value, a no-op if index is out of range. Panics if T is not a slice.
func (s *Signal[T]) UpdateAt(index int, fn func(any) any) {
	s.mu.Lock()
	rv := reflect.ValueOf(s.value)
	if rv.Kind() != reflect.Slice {
		s.mu.Unlock()
		panic(fmt.Sprintf("reactive: UpdateAt called on non-slice Signal[%s]", rv.Type()))
	}
	if index < 0 || index >= rv.Len() {
		s.mu.Unlock()
		return
	}
	cp := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	reflect.Copy(cp, rv)
	updated := fn(cp.Index(index).Interface())
	cp.Index(index).Set(reflect.ValueOf(updated).Convert(rv.Type().Elem()))
	s.value = cp.Interface().(T)
	s.mu.Unlock()
	s.dep.trigger(Dirty)
}

// SetKey sets key to value in a map-valued Signal. Panics if T is not
// a map.
func (s *Signal[T]) SetKey(key, value any) {
	s.mu.Lock()
	rv := reflect.ValueOf(s.value)
	if rv.Kind() != reflect.Map {
		s.mu.Unlock()
		panic(fmt.Sprintf("reactive: SetKey called on non-map Signal[%s]", rv.Type()))
	}
	next := reflect.MakeMap(rv.Type())
	iter := rv.MapRange()
	for iter.Next() {
		next.SetMapIndex(iter.Key(), iter.Value())
	}
	next.SetMapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()), reflect.ValueOf(value).Convert(rv.Type().Elem()))
	s.value = next.Interface().(T)
	s.mu.Unlock()
	s.dep.trigger(Dirty)
}

// RemoveKey deletes key from a map-valued Signal, a no-op if absent.
// Panics if T is not a map.
func (s *Signal[T]) RemoveKey(key any) {
	s.mu.Lock()
	rv := reflect.ValueOf(s.value)
	if rv.Kind() != reflect.Map {
		s.mu.Unlock()
		panic(fmt.Sprintf("reactive: RemoveKey called on non-map Signal[%s]", rv.Type()))
	}
	keyVal := reflect.ValueOf(key).Convert(rv.Type().Key())
	next := reflect.MakeMap(rv.Type())
	iter := rv.MapRange()
	changed := false
	for iter.Next() {
		if iter.Key().Interface() == keyVal.Interface() {
			changed = true
			continue
		}
		next.SetMapIndex(iter.Key(), iter.Value())
	}
	s.value = next.Interface().(T)
	s.mu.Unlock()
	if changed {
		s.dep.trigger(Dirty)
	}
}

// Clear resets a string/slice/map-valued Signal to its empty state.
// Panics for any other kind.
func (s *Signal[T]) Clear() {
	s.mu.Lock()
	rv := reflect.ValueOf(s.value)
	var next T
	switch rv.Kind() {
	case reflect.String:
		// next is already the zero value: "".
	case reflect.Slice:
		next = reflect.MakeSlice(rv.Type(), 0, 0).Interface().(T)
	case reflect.Map:
		next = reflect.MakeMap(rv.Type()).Interface().(T)
	default:
		s.mu.Unlock()
		panic(fmt.Sprintf("reactive: Clear called on unsupported Signal[%s]", rv.Type()))
	}
	changed := !s.equals(s.value, next)
	s.value = next
	s.mu.Unlock()
	if changed {
		s.dep.trigger(Dirty)
	}
}

// Len reads the length of a string/slice/map-valued Signal, tracking
// the active listener exactly like Get. Panics for any other kind.
func (s *Signal[T]) Len() int {
	trackDep(s.dep)
	s.mu.RLock()
	defer s.mu.RUnlock()
	rv := reflect.ValueOf(s.value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len()
	default:
		panic(fmt.Sprintf("reactive: Len called on unsupported Signal[%s]", rv.Type()))
	}
}
