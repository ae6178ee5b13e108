package tree

import (
	"github.com/benz9527/rbmap/lib/infra"
	"github.com/benz9527/rbmap/lib/list"
)

// Traversal is a lazy depth-first (pre-order) iterator over a tree.
// A node is visited before its left subtree and the left subtree
// before the right one. It is not the key order, Foreach is.
// The tree must not be mutated until the traversal is done.
type Traversal[K infra.OrderedKey, V any] struct {
	stack list.Stack[RBNode[K, V]]
}

func (it *Traversal[K, V]) HasNext() bool {
	return !it.stack.IsEmpty()
}

// Next returns ErrTraversalExhausted after the last node.
func (it *Traversal[K, V]) Next() (RBNode[K, V], error) {
	node, err := it.stack.Pop()
	if err != nil {
		return nil, ErrTraversalExhausted
	}
	// Right first, so the left child is popped first.
	if r := node.Right(); r != nil {
		it.stack.Push(r)
	}
	if l := node.Left(); l != nil {
		it.stack.Push(l)
	}
	return node, nil
}

func NewTraversal[K infra.OrderedKey, V any](tree RBTree[K, V]) *Traversal[K, V] {
	it := &Traversal[K, V]{
		stack: list.NewLinkedStack[RBNode[K, V]](),
	}
	if root := tree.Root(); root != nil {
		it.stack.Push(root)
	}
	return it
}
