package vdom

import (
	"fmt"
	"reflect"
	"strconv"
)

// propsEqual compares two prop values for equality, with fast paths
// for the scalar kinds attribute values are overwhelmingly made of.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// propToString renders a prop value as a host-attribute string.
func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// firstHostNode returns the first host-renderer node n (or one of its
// descendants) owns, used as an insertion anchor. Returns nil for an
// empty fragment or an unmounted component.
func firstHostNode(n *VNode) any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindComponent:
		if n.instance == nil {
			return nil
		}
		return firstHostNode(n.instance.Subtree)
	case KindFragment:
		for _, c := range n.Children {
			if el := firstHostNode(c); el != nil {
				return el
			}
		}
		return nil
	default:
		return n.el
	}
}

// lastHostNode returns the last host-renderer node in n's subtree,
// used to compute an anchor for a following sibling when a node of a
// different type replaces n at the same position.
func lastHostNode(n *VNode) any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindComponent:
		if n.instance == nil {
			return nil
		}
		return lastHostNode(n.instance.Subtree)
	case KindFragment:
		for i := len(n.Children) - 1; i >= 0; i-- {
			if el := lastHostNode(n.Children[i]); el != nil {
				return el
			}
		}
		return nil
	default:
		return n.el
	}
}

// vnodeKey returns the key used for keyed-children matching: the
// explicit VNode key if set, else an index-independent identity is
// unavailable and the caller must treat the child as unkeyed.
func vnodeKey(n *VNode) any {
	if n == nil {
		return nil
	}
	return n.Key
}

// hasKeyedChildren reports whether any child in children carries an
// explicit key, the signal that the list should use the keyed diff
// rather than positional matching.
func hasKeyedChildren(children []*VNode) bool {
	for _, c := range children {
		if c != nil && c.Key != nil {
			return true
		}
	}
	return false
}
