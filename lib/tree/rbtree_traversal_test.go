package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTraversal(t *testing.T) {
	m := newLettersMap(t)
	it := NewTraversal[int, string](m)

	keys := make([]int, 0, m.Len())
	for it.HasNext() {
		node, err := it.Next()
		require.NoError(t, err)
		require.True(t, node.HasKeyVal())
		keys = append(keys, node.Key())
	}
	require.Equal(t, []int{8, 5, 17, 15, 25, 18, 40}, keys)

	node, err := it.Next()
	require.Nil(t, node)
	require.True(t, errors.Is(err, ErrTraversalExhausted))
	require.False(t, it.HasNext())

	// A new traversal starts over.
	it = NewTraversal[int, string](m)
	require.True(t, it.HasNext())
	node, err = it.Next()
	require.NoError(t, err)
	require.Equal(t, 8, node.Key())
	require.Equal(t, "A", node.Val())
}

func TestTraversal_EmptyTree(t *testing.T) {
	it := NewTraversal[int, string](NewOrderedMap[int, string]())
	require.False(t, it.HasNext())
	_, err := it.Next()
	require.True(t, errors.Is(err, ErrTraversalExhausted))
}

func TestTraversal_Lazy(t *testing.T) {
	m := NewOrderedMap[int, int]()
	for i := 0; i < 100; i++ {
		require.NoError(t, m.Insert(i, i*i))
	}
	it := NewTraversal[int, int](m)

	// Only the pending right subtrees stay in the stack.
	count := 0
	for it.HasNext() {
		node, err := it.Next()
		require.NoError(t, err)
		require.Equal(t, node.Key()*node.Key(), node.Val())
		count++
		require.LessOrEqual(t, it.stack.Len(), int64(2*8))
	}
	require.Equal(t, 100, count)
}
