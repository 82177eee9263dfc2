// Package avltree implements a persistent, comparator-driven AVL tree.
//
// Every mutating operation returns a new tree value; the receiver is never
// modified and structurally unmodified subtrees are shared between the old
// and new values. This makes a prior tree usable (and immutable) after any
// number of derived updates, which the order book relies on for its
// value-oriented state transitions.
package avltree

import (
	"cmp"
	"iter"
)

// LessFunc reports whether a sorts strictly before b. Keys for which neither
// a<b nor b<a holds are comparator-equal.
type LessFunc[K any] func(a, b K) bool

// Ascending orders keys from smallest to largest.
func Ascending[K cmp.Ordered]() LessFunc[K] {
	return func(a, b K) bool { return a < b }
}

// Descending orders keys from largest to smallest.
func Descending[K cmp.Ordered]() LessFunc[K] {
	return func(a, b K) bool { return b < a }
}

type node[K, V any] struct {
	key    K
	value  V
	height int
	left   *node[K, V]
	right  *node[K, V]
}

// Tree is an immutable ordered map from K to V. The zero value is not usable;
// construct with New.
type Tree[K, V any] struct {
	less LessFunc[K]
	root *node[K, V]
	size int
}

// New creates an empty tree ordered by less. The ordering is fixed for the
// lifetime of the tree and every tree derived from it.
func New[K, V any](less LessFunc[K]) *Tree[K, V] {
	if less == nil {
		panic("avltree: nil ordering")
	}
	return &Tree[K, V]{less: less}
}

// Len returns the number of entries.
func (t *Tree[K, V]) Len() int {
	return t.size
}

// Height returns the height of the tree: 0 when empty, 1 for a single entry.
func (t *Tree[K, V]) Height() int {
	return height(t.root)
}

// Get returns the value stored under a comparator-equal key, or fallback when
// no such key exists. Among duplicates the match is arbitrary.
func (t *Tree[K, V]) Get(key K, fallback V) V {
	n := t.root
	for n != nil {
		switch {
		case t.less(key, n.key):
			n = n.left
		case t.less(n.key, key):
			n = n.right
		default:
			return n.value
		}
	}
	return fallback
}

// GetLower returns the value of the first entry of the comparator-equal run
// for key, or fallback when absent.
func (t *Tree[K, V]) GetLower(key K, fallback V) V {
	var found *node[K, V]
	n := t.root
	for n != nil {
		switch {
		case t.less(key, n.key):
			n = n.left
		case t.less(n.key, key):
			n = n.right
		default:
			found = n
			n = n.left
		}
	}
	if found == nil {
		return fallback
	}
	return found.value
}

// GetUpper returns the value of the last entry of the comparator-equal run
// for key, or fallback when absent.
func (t *Tree[K, V]) GetUpper(key K, fallback V) V {
	var found *node[K, V]
	n := t.root
	for n != nil {
		switch {
		case t.less(key, n.key):
			n = n.left
		case t.less(n.key, key):
			n = n.right
		default:
			found = n
			n = n.right
		}
	}
	if found == nil {
		return fallback
	}
	return found.value
}

// Contains reports whether a comparator-equal key exists.
func (t *Tree[K, V]) Contains(key K) bool {
	n := t.root
	for n != nil {
		switch {
		case t.less(key, n.key):
			n = n.left
		case t.less(n.key, key):
			n = n.right
		default:
			return true
		}
	}
	return false
}

// First returns the smallest entry per the tree's ordering.
func (t *Tree[K, V]) First() (K, V, bool) {
	if t.root == nil {
		var k K
		var v V
		return k, v, false
	}
	n := t.root
	for n.left != nil {
		n = n.left
	}
	return n.key, n.value, true
}

// Last returns the largest entry per the tree's ordering.
func (t *Tree[K, V]) Last() (K, V, bool) {
	if t.root == nil {
		var k K
		var v V
		return k, v, false
	}
	n := t.root
	for n.right != nil {
		n = n.right
	}
	return n.key, n.value, true
}

// Put returns a tree with key bound to value. When a comparator-equal key
// already exists its entry is replaced; which one of a duplicate run is
// replaced is arbitrary.
func (t *Tree[K, V]) Put(key K, value V) *Tree[K, V] {
	return t.put(key, value, dupReplace)
}

// PutLower returns a tree with a new entry inserted before any run of
// comparator-equal keys, preserving a stable multiset ordering.
func (t *Tree[K, V]) PutLower(key K, value V) *Tree[K, V] {
	return t.put(key, value, dupLower)
}

// PutUpper returns a tree with a new entry inserted after any run of
// comparator-equal keys.
func (t *Tree[K, V]) PutUpper(key K, value V) *Tree[K, V] {
	return t.put(key, value, dupUpper)
}

// Delete returns a tree with one comparator-equal entry removed; which one of
// a duplicate run is arbitrary. No-op when the key is absent.
func (t *Tree[K, V]) Delete(key K) *Tree[K, V] {
	return t.del(key, dupReplace)
}

// DeleteLower removes the first entry of the comparator-equal run for key.
func (t *Tree[K, V]) DeleteLower(key K) *Tree[K, V] {
	return t.del(key, dupLower)
}

// DeleteUpper removes the last entry of the comparator-equal run for key.
func (t *Tree[K, V]) DeleteUpper(key K) *Tree[K, V] {
	return t.del(key, dupUpper)
}

// All returns a lazy in-order iterator over the entries. The sequence is
// restartable and supports early termination without materializing the tree.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		walk(t.root, yield)
	}
}

func walk[K, V any](n *node[K, V], yield func(K, V) bool) bool {
	if n == nil {
		return true
	}
	if !walk(n.left, yield) {
		return false
	}
	if !yield(n.key, n.value) {
		return false
	}
	return walk(n.right, yield)
}

// dupPolicy selects how operations behave on comparator-equal runs.
type dupPolicy int

const (
	dupReplace dupPolicy = iota // replace/remove an arbitrary equal entry
	dupLower                    // act before/on the first of the run
	dupUpper                    // act after/on the last of the run
)

func (t *Tree[K, V]) put(key K, value V, policy dupPolicy) *Tree[K, V] {
	root, added := t.insert(t.root, key, value, policy)
	size := t.size
	if added {
		size++
	}
	return &Tree[K, V]{less: t.less, root: root, size: size}
}

func (t *Tree[K, V]) insert(n *node[K, V], key K, value V, policy dupPolicy) (*node[K, V], bool) {
	if n == nil {
		return &node[K, V]{key: key, value: value, height: 1}, true
	}

	c := clone(n)
	var added bool
	switch {
	case t.less(key, n.key):
		c.left, added = t.insert(n.left, key, value, policy)
	case t.less(n.key, key):
		c.right, added = t.insert(n.right, key, value, policy)
	default:
		switch policy {
		case dupReplace:
			c.key = key
			c.value = value
			return c, false
		case dupLower:
			c.left, added = t.insert(n.left, key, value, policy)
		case dupUpper:
			c.right, added = t.insert(n.right, key, value, policy)
		}
	}
	return rebalance(c), added
}

func (t *Tree[K, V]) del(key K, policy dupPolicy) *Tree[K, V] {
	root, removed := t.remove(t.root, key, policy)
	if !removed {
		return t
	}
	return &Tree[K, V]{less: t.less, root: root, size: t.size - 1}
}

func (t *Tree[K, V]) remove(n *node[K, V], key K, policy dupPolicy) (*node[K, V], bool) {
	if n == nil {
		return nil, false
	}

	switch {
	case t.less(key, n.key):
		child, removed := t.remove(n.left, key, policy)
		if !removed {
			return n, false
		}
		c := clone(n)
		c.left = child
		return rebalance(c), true
	case t.less(n.key, key):
		child, removed := t.remove(n.right, key, policy)
		if !removed {
			return n, false
		}
		c := clone(n)
		c.right = child
		return rebalance(c), true
	}

	// Comparator-equal. The first/last of a duplicate run may sit deeper in
	// the subtree on the corresponding side; prefer it when asked to.
	if policy == dupLower {
		if child, removed := t.remove(n.left, key, policy); removed {
			c := clone(n)
			c.left = child
			return rebalance(c), true
		}
	}
	if policy == dupUpper {
		if child, removed := t.remove(n.right, key, policy); removed {
			c := clone(n)
			c.right = child
			return rebalance(c), true
		}
	}

	return t.removeNode(n, policy), true
}

// removeNode detaches n itself. With two children the in-order successor is
// promoted into its place (the predecessor for the upper variant, keeping
// duplicate runs stable from the correct end).
func (t *Tree[K, V]) removeNode(n *node[K, V], policy dupPolicy) *node[K, V] {
	if n.left == nil {
		return n.right
	}
	if n.right == nil {
		return n.left
	}

	c := clone(n)
	if policy == dupUpper {
		c.left, c.key, c.value = removeMax(n.left)
	} else {
		c.right, c.key, c.value = removeMin(n.right)
	}
	return rebalance(c)
}

func removeMin[K, V any](n *node[K, V]) (*node[K, V], K, V) {
	if n.left == nil {
		return n.right, n.key, n.value
	}
	c := clone(n)
	var k K
	var v V
	c.left, k, v = removeMin(n.left)
	return rebalance(c), k, v
}

func removeMax[K, V any](n *node[K, V]) (*node[K, V], K, V) {
	if n.right == nil {
		return n.left, n.key, n.value
	}
	c := clone(n)
	var k K
	var v V
	c.right, k, v = removeMax(n.right)
	return rebalance(c), k, v
}

// clone copies a single node; both children stay shared.
func clone[K, V any](n *node[K, V]) *node[K, V] {
	c := *n
	return &c
}

func height[K, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func recalc[K, V any](n *node[K, V]) {
	n.height = 1 + max(height(n.left), height(n.right))
}

func balanceFactor[K, V any](n *node[K, V]) int {
	return height(n.left) - height(n.right)
}

// rebalance restores the AVL invariant at n via the four canonical rotation
// cases. n must already be a private copy; pivot children are cloned before
// they are touched.
func rebalance[K, V any](n *node[K, V]) *node[K, V] {
	recalc(n)
	bf := balanceFactor(n)
	switch {
	case bf > 1:
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(clone(n.left)) // left-right case
		}
		return rotateRight(n)
	case bf < -1:
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(clone(n.right)) // right-left case
		}
		return rotateLeft(n)
	}
	return n
}

func rotateRight[K, V any](n *node[K, V]) *node[K, V] {
	pivot := clone(n.left)
	n.left = pivot.right
	pivot.right = n
	recalc(n)
	recalc(pivot)
	return pivot
}

func rotateLeft[K, V any](n *node[K, V]) *node[K, V] {
	pivot := clone(n.right)
	n.right = pivot.left
	pivot.left = n
	recalc(n)
	recalc(pivot)
	return pivot
}
