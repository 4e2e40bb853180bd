package reactive

import "testing"

func TestCollectionGetSet(t *testing.T) {
	c := NewCollection[string, int](nil)
	c.Set("a", 1)

	if v := c.Get("a"); v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}
	if v := c.Get("missing"); v != 0 {
		t.Fatalf("expected zero value for missing key, got %d", v)
	}
}

func TestCollectionKeyTrackingIsPerKey(t *testing.T) {
	c := NewCollection(map[string]int{"a": 1, "b": 2})
	listener := newTestListener()

	WithListener(listener, func() { _ = c.Get("a") })

	c.Set("b", 20) // unrelated key, same value-vs-present-shape
	if listener.count() != 0 {
		t.Errorf("changing a different key should not notify, got %d", listener.count())
	}

	c.Set("a", 10)
	if listener.count() != 1 {
		t.Errorf("expected 1 notification for the tracked key, got %d", listener.count())
	}
}

func TestCollectionHasTracksPresenceSeparatelyFromValue(t *testing.T) {
	c := NewCollection[string, int](nil)
	hasListener := newTestListener()

	WithListener(hasListener, func() { _ = c.Has("a") })

	c.Set("a", 0) // key appears; value happens to be the zero value
	if hasListener.count() != 1 {
		t.Errorf("expected Has subscriber to be notified when key appears, got %d", hasListener.count())
	}

	c.Delete("a")
	if hasListener.count() != 2 {
		t.Errorf("expected Has subscriber to be notified when key disappears, got %d", hasListener.count())
	}
}

func TestCollectionIterateTracksAddAndDeleteNotUpdate(t *testing.T) {
	c := NewCollection(map[string]int{"a": 1})
	listener := newTestListener()

	WithListener(listener, func() { _ = c.Keys() })

	c.Set("a", 2) // update only, key set unchanged
	if listener.count() != 0 {
		t.Errorf("updating an existing key should not notify an iterate subscriber, got %d", listener.count())
	}

	c.Set("b", 3) // new key
	if listener.count() != 1 {
		t.Errorf("expected iterate subscriber notified on key addition, got %d", listener.count())
	}

	c.Delete("a")
	if listener.count() != 2 {
		t.Errorf("expected iterate subscriber notified on key removal, got %d", listener.count())
	}
}

func TestCollectionLenTracksIterate(t *testing.T) {
	c := NewCollection[string, int](nil)
	listener := newTestListener()

	WithListener(listener, func() { _ = c.Len() })

	c.Set("a", 1)
	if listener.count() != 1 {
		t.Errorf("expected Len subscriber notified on addition, got %d", listener.count())
	}
}

func TestCollectionForEach(t *testing.T) {
	c := NewCollection(map[string]int{"a": 1, "b": 2, "c": 3})
	sum := 0
	c.ForEach(func(k string, v int) { sum += v })
	if sum != 6 {
		t.Fatalf("expected sum 6, got %d", sum)
	}
}

func TestCollectionDeleteReportsPresence(t *testing.T) {
	c := NewCollection(map[string]int{"a": 1})
	if !c.Delete("a") {
		t.Error("expected Delete to report the key was present")
	}
	if c.Delete("a") {
		t.Error("expected second Delete to report the key was absent")
	}
}
