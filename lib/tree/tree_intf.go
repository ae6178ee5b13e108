package tree

import "github.com/benz9527/rbmap/lib/infra"

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "Unknown"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (dir RBDirection) String() string {
	switch dir {
	case Left:
		return "left"
	case Root:
		return "root"
	case Right:
		return "right"
	default:
	}
	return "unknown"
}

// RBNode is a read-only view of a tree node.
// The sentinel leaf is never exposed, Left, Right and Parent
// return nil instead.
type RBNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	HasKeyVal() bool
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

type RBTree[K infra.OrderedKey, V any] interface {
	Len() int64
	IsDesc() bool
	Root() RBNode[K, V]
	// Foreach walks the entries in key order until action returns false.
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
}

// OrderedMap is a map with unique keys kept in a red-black tree.
// It is not thread safe, see kv.NewThreadSafeOrderedMap.
type OrderedMap[K infra.OrderedKey, V any] interface {
	RBTree[K, V]
	IsEmpty() bool
	// Insert fails with ErrDuplicateKey if the key is present.
	Insert(key K, val V) error
	// Remove returns the removed value. It fails with ErrEmptyMap or ErrKeyNotFound.
	Remove(key K) (V, error)
	// Find reports false for an absent key. It fails with ErrEmptyMap only.
	Find(key K) (V, bool, error)
	// Update replaces the value in place. It fails with ErrEmptyMap or ErrKeyNotFound.
	Update(key K, val V) error
	// Get is the same as Find.
	Get(key K) (V, bool, error)
	// Set is the same as Update.
	Set(key K, val V) error
	Clear()
	// Keys, Values and String enumerate in Traversal (pre-order) order.
	Keys() []K
	Values() []V
	String() string
}
