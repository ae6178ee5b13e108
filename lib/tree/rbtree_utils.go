package tree

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/rbmap/lib/infra"
)

// rbtree rule validation utilities.
// They only read the tree through the RBNode views.

func isNilLeaf[K infra.OrderedKey, V any](node RBNode[K, V]) bool {
	return node == nil || !node.HasKeyVal()
}

func isRed[K infra.OrderedKey, V any](node RBNode[K, V]) bool {
	return !isNilLeaf[K, V](node) && node.Color() == Red
}

func isBlack[K infra.OrderedKey, V any](node RBNode[K, V]) bool {
	return isNilLeaf[K, V](node) || node.Color() == Black
}

// Black nodes from the target up to the root, both included.
func blackDepth[K infra.OrderedKey, V any](target RBNode[K, V]) int {
	depth := 0
	for aux := target; !isNilLeaf[K, V](aux); aux = aux.Parent() {
		if isBlack[K, V](aux) {
			depth++
		}
	}
	return depth
}

// Inorder traversal to visit every node.
func inorder[K infra.OrderedKey, V any](tree RBTree[K, V], visit func(node RBNode[K, V])) {
	aux := tree.Root()
	if isNilLeaf[K, V](aux) {
		return
	}

	stack := make([]RBNode[K, V], 0, tree.Len()>>1+1)
	defer func() {
		clear(stack)
	}()

	for ; !isNilLeaf[K, V](aux); aux = aux.Left() {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		visit(aux)
		stack = stack[:size-1]
		for aux = aux.Right(); !isNilLeaf[K, V](aux); aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
}

func RootViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	root := tree.Root()
	if isNilLeaf[K, V](root) {
		if tree.Len() != 0 {
			return fmt.Errorf("rbtree root violation, empty root with %d entries", tree.Len())
		}
		return nil
	}
	if root.Parent() != nil {
		return fmt.Errorf("rbtree root violation, root key %v has a parent", root.Key())
	}
	if isRed[K, V](root) {
		return fmt.Errorf("rbtree root violation, root key %v is red", root.Key())
	}
	return nil
}

// RedViolationValidate reports every red node with a red child.
func RedViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	var err error
	inorder[K, V](tree, func(node RBNode[K, V]) {
		if isRed[K, V](node) && (isRed[K, V](node.Left()) || isRed[K, V](node.Right())) {
			err = multierr.Append(err, fmt.Errorf("rbtree red violation at key %v", node.Key()))
		}
	})
	return err
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
Every node with a NIL child ends at least one path, so comparing
their black depths covers all paths.
*/
func BlackViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	var (
		err      error
		expected = -1
	)
	inorder[K, V](tree, func(node RBNode[K, V]) {
		if node.Left() != nil && node.Right() != nil {
			return
		}
		depth := blackDepth[K, V](node)
		if expected < 0 {
			expected = depth
		} else if depth != expected {
			err = multierr.Append(err, fmt.Errorf(
				"rbtree black violation at key %v, black depth %d, expected %d",
				node.Key(), depth, expected,
			))
		}
	})
	return err
}

// OrderViolationValidate checks the inorder keys are strictly increasing
// (decreasing for a desc tree), the parent links and the size.
func OrderViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	cmp := infra.AscCompare[K]
	if tree.IsDesc() {
		cmp = infra.DescCompare[K]
	}

	var (
		err   error
		prev  RBNode[K, V]
		count int64
	)
	inorder[K, V](tree, func(node RBNode[K, V]) {
		count++
		if prev != nil && cmp(prev.Key(), node.Key()) >= 0 {
			err = multierr.Append(err, fmt.Errorf(
				"rbtree order violation, key %v is not after key %v", node.Key(), prev.Key(),
			))
		}
		if l := node.Left(); l != nil && l.Parent() != node {
			err = multierr.Append(err, fmt.Errorf("rbtree link violation at left child of key %v", node.Key()))
		}
		if r := node.Right(); r != nil && r.Parent() != node {
			err = multierr.Append(err, fmt.Errorf("rbtree link violation at right child of key %v", node.Key()))
		}
		prev = node
	})
	if count != tree.Len() {
		err = multierr.Append(err, fmt.Errorf("rbtree size violation, %d nodes, %d entries", count, tree.Len()))
	}
	return err
}

// Validate runs all rule validations and merges their errors.
func Validate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	if tree == nil {
		return ErrNilTree
	}
	return multierr.Combine(
		RootViolationValidate[K, V](tree),
		RedViolationValidate[K, V](tree),
		BlackViolationValidate[K, V](tree),
		OrderViolationValidate[K, V](tree),
	)
}
